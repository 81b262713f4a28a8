// internal/adapters/finderapi/client.go
package finderapi

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"workshop_finder/internal/adapters/observability"
	"workshop_finder/internal/domain"
)

const service = "finder"

type Options struct {
	Timeout   time.Duration
	RPS       int
	Retries   int // GET only; POSTs are never retried
	UserAgent string
}

// Client talks to the workshop finder server.
type Client struct {
	base    string
	hc      *http.Client
	rl      *rate.Limiter
	retries int
	ua      string
}

func New(base string, o Options) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("finder base URL is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("finder base URL: %w", err)
	}
	if o.RPS <= 0 {
		o.RPS = 5
	}
	if o.Timeout <= 0 {
		o.Timeout = 20 * time.Second
	}
	if o.Retries < 0 {
		o.Retries = 0
	}
	if o.UserAgent == "" {
		o.UserAgent = "workshop-finder/1.0"
	}
	return &Client{
		base:    strings.TrimRight(base, "/"),
		hc:      &http.Client{Timeout: o.Timeout},
		rl:      rate.NewLimiter(rate.Limit(o.RPS), o.RPS),
		retries: o.Retries,
		ua:      o.UserAgent,
	}, nil
}

// ---- Public API ----

func (c *Client) GetWorkshops(ctx context.Context, at domain.Coords) ([]domain.Workshop, error) {
	var out []domain.Workshop
	body := map[string]float64{"lat": at.Lat, "lon": at.Lon}
	if err := c.do(ctx, http.MethodPost, "get_workshops", nil, body, &out); err != nil {
		return nil, fmt.Errorf("get workshops: %w", err)
	}
	return out, nil
}

func (c *Client) SubmitRatingReview(ctx context.Context, s domain.ReviewSubmission) (domain.SubmitResult, error) {
	var out domain.SubmitResult
	err := c.do(ctx, http.MethodPost, "submit_rating_review", nil, s, &out)
	var re *domain.RemoteError
	if errors.As(err, &re) {
		// 4xx with {"error": "..."}: the server rejected the review.
		return domain.SubmitResult{Success: false, Error: re.Msg}, nil
	}
	if err != nil {
		return domain.SubmitResult{}, fmt.Errorf("submit review: %w", err)
	}
	if !out.Success && out.Error == "" {
		out.Error = "review was not accepted"
	}
	return out, nil
}

func (c *Client) PostcodeLocation(ctx context.Context, postcode string) (domain.Coords, error) {
	var out struct {
		Lat   *float64 `json:"lat"`
		Lon   *float64 `json:"lon"`
		Error string   `json:"error"`
	}
	q := url.Values{"postcode": {postcode}}
	if err := c.do(ctx, http.MethodGet, "get_postcode_location", q, nil, &out); err != nil {
		return domain.Coords{}, fmt.Errorf("postcode lookup: %w", err)
	}
	if out.Error != "" {
		return domain.Coords{}, &domain.RemoteError{Op: "postcode lookup", Msg: out.Error}
	}
	if out.Lat == nil || out.Lon == nil {
		return domain.Coords{}, fmt.Errorf("postcode lookup %q: %w", postcode, domain.ErrLocationNotFound)
	}
	return domain.Coords{Lat: *out.Lat, Lon: *out.Lon}, nil
}

// ---- Internals ----

var (
	ErrNotFound     = domain.ErrNotFound
	ErrUnauthorized = errors.New("finder: unauthorized")
	ErrForbidden    = errors.New("finder: forbidden")
)

// do performs one request with client-side rate limiting and JSON decode into out.
// Idempotent GETs retry on 429 and transient 5xx when retries are enabled, honoring Retry-After.
func (c *Client) do(ctx context.Context, method, endpoint string, q url.Values, in, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	u := c.base + "/" + endpoint
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		payload = b
	}

	attempts := 1
	if method == http.MethodGet {
		attempts += c.retries
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		// build a fresh request each attempt
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, u, body)
		if err != nil {
			return err
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.ua)

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal(service, endpoint, 0, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < attempts-1 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal(service, endpoint, resp.StatusCode, time.Since(start))
		log.Debug().Str("endpoint", endpoint).Int("status", resp.StatusCode).Dur("took", time.Since(start)).Msg("finder call")

		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated, http.StatusAccepted:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("decode %s: %w", endpoint, err)
			}
			return nil

		case http.StatusNotFound:
			resp.Body.Close()
			return ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			return ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < attempts-1 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			var eb struct {
				Error string `json:"error"`
			}
			if json.Unmarshal(b, &eb) == nil && eb.Error != "" {
				return &domain.RemoteError{Op: endpoint, Msg: eb.Error}
			}
			return fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastErr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential delay (200ms, 400ms, 800ms...) with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
