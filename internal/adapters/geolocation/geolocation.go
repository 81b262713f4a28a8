// Package geolocation provides the device position used by "use my location".
package geolocation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"workshop_finder/internal/adapters/observability"
	"workshop_finder/internal/domain"
)

// Fixed reports a configured position, like a device with a known location.
type Fixed struct{ At domain.Coords }

func (f Fixed) CurrentPosition(ctx context.Context) (domain.Coords, error) {
	if !f.At.Valid() {
		return domain.Coords{}, domain.ErrInvalidCoords
	}
	return f.At, nil
}

// IPLookup asks an ip-api.com compatible service where the caller's public IP is.
type IPLookup struct {
	url string
	hc  *http.Client
}

func NewIPLookup(url string, timeout time.Duration) *IPLookup {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &IPLookup{url: url, hc: &http.Client{Timeout: timeout}}
}

func (g *IPLookup) CurrentPosition(ctx context.Context) (domain.Coords, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.url, nil)
	if err != nil {
		return domain.Coords{}, err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := g.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("ipgeo", "lookup", 0, time.Since(start))
		return domain.Coords{}, fmt.Errorf("ip geolocation: %w", err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal("ipgeo", "lookup", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return domain.Coords{}, fmt.Errorf("ip geolocation: status %d", resp.StatusCode)
	}
	var body struct {
		Status  string   `json:"status"`
		Message string   `json:"message"`
		Lat     *float64 `json:"lat"`
		Lon     *float64 `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.Coords{}, fmt.Errorf("ip geolocation: decode: %w", err)
	}
	if body.Status != "" && body.Status != "success" {
		return domain.Coords{}, &domain.RemoteError{Op: "ip geolocation", Msg: body.Message}
	}
	if body.Lat == nil || body.Lon == nil {
		return domain.Coords{}, fmt.Errorf("ip geolocation: %w", domain.ErrLocationNotFound)
	}
	return domain.Coords{Lat: *body.Lat, Lon: *body.Lon}, nil
}
