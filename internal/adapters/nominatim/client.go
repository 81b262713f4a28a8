package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"workshop_finder/internal/adapters/observability"
	"workshop_finder/internal/domain"
)

const DefaultBase = "https://nominatim.openstreetmap.org"

// result is one search candidate. Nominatim sends coordinates as strings.
type result struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Client searches place names. Nominatim's usage policy allows one request per second.
type Client struct {
	base  string
	hc    *http.Client
	rl    *rate.Limiter
	ua    string
	limit int
}

func New(base, userAgent string, timeout time.Duration) *Client {
	if base == "" {
		base = DefaultBase
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	if userAgent == "" {
		userAgent = "workshop-finder/1.0"
	}
	return &Client{
		base:  strings.TrimRight(base, "/"),
		hc:    &http.Client{Timeout: timeout},
		rl:    rate.NewLimiter(rate.Every(time.Second), 1),
		ua:    userAgent,
		limit: 5,
	}
}

func (c *Client) Search(ctx context.Context, place string) ([]domain.Place, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}
	q := url.Values{"format": {"json"}, "q": {place}, "limit": {strconv.Itoa(c.limit)}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.ua)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("nominatim", "search", 0, time.Since(start))
		return nil, fmt.Errorf("nominatim request failed: %w", err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal("nominatim", "search", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("nominatim returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var results []result
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode nominatim response: %w", err)
	}

	out := make([]domain.Place, 0, len(results))
	for _, r := range results {
		lat, err1 := strconv.ParseFloat(strings.TrimSpace(r.Lat), 64)
		lon, err2 := strconv.ParseFloat(strings.TrimSpace(r.Lon), 64)
		if err1 != nil || err2 != nil {
			continue // unusable candidate
		}
		out = append(out, domain.Place{DisplayName: r.DisplayName, Coords: domain.Coords{Lat: lat, Lon: lon}})
	}
	return out, nil
}
