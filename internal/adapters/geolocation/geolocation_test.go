package geolocation_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"workshop_finder/internal/adapters/geolocation"
	"workshop_finder/internal/domain"
)

func TestFixed(t *testing.T) {
	got, err := geolocation.Fixed{At: domain.Coords{Lat: 52.2, Lon: 0.12}}.CurrentPosition(context.Background())
	if err != nil || got.Lat != 52.2 {
		t.Fatalf("unexpected: %+v %v", got, err)
	}
	if _, err := (geolocation.Fixed{At: domain.Coords{Lat: 120}}).CurrentPosition(context.Background()); !errors.Is(err, domain.ErrInvalidCoords) {
		t.Fatalf("expected ErrInvalidCoords, got %v", err)
	}
}

func TestIPLookup(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "success", "lat": 53.48, "lon": -2.24}`))
	}))
	defer ts.Close()

	got, err := geolocation.NewIPLookup(ts.URL, time.Second).CurrentPosition(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Lat != 53.48 || got.Lon != -2.24 {
		t.Fatalf("unexpected coords: %+v", got)
	}
}

func TestIPLookup_Fail(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "fail", "message": "private range"}`))
	}))
	defer ts.Close()

	_, err := geolocation.NewIPLookup(ts.URL, time.Second).CurrentPosition(context.Background())
	var re *domain.RemoteError
	if !errors.As(err, &re) || re.Msg != "private range" {
		t.Fatalf("expected RemoteError, got %v", err)
	}
}
