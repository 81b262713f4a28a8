//go:build integration || !unit

package integration

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"workshop_finder/internal/adapters/finderapi"
	httpserver "workshop_finder/internal/adapters/http_server"
	"workshop_finder/internal/app"
	"workshop_finder/internal/domain"
	"workshop_finder/internal/view"
)

// ---------- fake finder server (the upstream the client consumes) ----------
type fakeFinder struct {
	mu      sync.Mutex
	gets    int32
	reviews []domain.ReviewSubmission
}

func (f *fakeFinder) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/get_workshops", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.gets, 1)
		f.mu.Lock()
		n := len(f.reviews)
		f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]any{{
			"id": "ws-1", "name": "Brake Point", "address": "12 Canal St",
			"lat": 53.4794, "lon": -2.2453, "rating": 4.0 + float64(n)/3, "total_reviews": 1 + n,
			"reviews": []map[string]any{{"rating": 4, "review": "friendly"}},
		}})
	})
	mux.HandleFunc("/submit_rating_review", func(w http.ResponseWriter, r *http.Request) {
		var in domain.ReviewSubmission
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.reviews = append(f.reviews, in)
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	})
	mux.HandleFunc("/get_postcode_location", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Query().Get("postcode"), "M1") {
			_ = json.NewEncoder(w).Encode(map[string]any{"lat": 53.4808, "lon": -2.2426})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"error": "Invalid postcode"})
	})
	return mux
}

// postForm follows the redirect back to the page and returns it.
func postForm(t *testing.T, u string, v url.Values) string {
	t.Helper()
	res, err := http.PostForm(u, v)
	if err != nil {
		t.Fatalf("POST %s: %v", u, err)
	}
	defer res.Body.Close()
	b, _ := io.ReadAll(res.Body)
	return string(b)
}

func body(t *testing.T, u string) string {
	t.Helper()
	res, err := http.Get(u)
	if err != nil {
		t.Fatalf("GET %s: %v", u, err)
	}
	defer res.Body.Close()
	b, _ := io.ReadAll(res.Body)
	return string(b)
}

// ---------- the test ----------
func TestHTTP_EndToEnd_LocateReviewRefresh(t *testing.T) {
	up := &fakeFinder{}
	upstream := httptest.NewServer(up.handler())
	defer upstream.Close()

	api, err := finderapi.New(upstream.URL, finderapi.Options{RPS: 100, Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("finderapi: %v", err)
	}
	list, layer, flash := view.NewList(), view.NewMarkerLayer(), &httpserver.FlashAlerter{}
	loc := app.NewLocationService(api, nil, nil, nil, time.Minute)
	ctl := app.NewController(api, loc, layer, list, flash)

	srv := httpserver.New()
	srv.MountHandlers(&httpserver.Handlers{Ctl: ctl, List: list, Map: layer, Flash: flash})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	// 1) bad postcode surfaces the server's message
	if page := postForm(t, ts.URL+"/locate", url.Values{"mode": {"postcode"}, "postcode": {"ZZ9"}}); !strings.Contains(page, "Invalid postcode") {
		t.Fatalf("expected postcode alert")
	}

	// 2) good postcode renders the list
	page := postForm(t, ts.URL+"/locate", url.Values{"mode": {"postcode"}, "postcode": {"m1 1ae"}})
	if !strings.Contains(page, "Brake Point") || !strings.Contains(page, "Rating: 4.0 (1 review)") {
		t.Fatalf("unexpected page:\n%s", page)
	}
	gets := atomic.LoadInt32(&up.gets)

	// 3) a review reaches the server and refreshes exactly once
	postForm(t, ts.URL+"/reviews", url.Values{
		"workshop_id": {"ws-1"}, "rating": {"5"}, "review": {"Sorted my clutch same day"},
	})
	if got := atomic.LoadInt32(&up.gets) - gets; got != 1 {
		t.Fatalf("expected exactly one refresh, got %d", got)
	}
	up.mu.Lock()
	if len(up.reviews) != 1 || up.reviews[0].Rating != 5 || up.reviews[0].WorkshopID != "ws-1" {
		t.Fatalf("unexpected submissions %+v", up.reviews)
	}
	up.mu.Unlock()

	page = body(t, ts.URL+"/")
	if !strings.Contains(page, "Rating: 4.3 (2 reviews)") {
		t.Fatalf("aggregate not refreshed:\n%s", page)
	}
	if n := len(layer.Markers()); n != 1 {
		t.Fatalf("expected 1 workshop marker after refreshes, got %d", n)
	}
}
