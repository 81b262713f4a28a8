package app_test

import (
	"context"
	"fmt"
	"sync"

	"workshop_finder/internal/domain"
)

// ---- fakes ----

type fakeAPI struct {
	mu          sync.Mutex
	workshops   []domain.Workshop
	wsErr       error
	submitRes   domain.SubmitResult
	submitErr   error
	postcode    domain.Coords
	postcodeErr error

	getCalls      []domain.Coords
	submitCalls   []domain.ReviewSubmission
	postcodeCalls []string
}

func (f *fakeAPI) GetWorkshops(ctx context.Context, at domain.Coords) ([]domain.Workshop, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls = append(f.getCalls, at)
	return f.workshops, f.wsErr
}

func (f *fakeAPI) SubmitRatingReview(ctx context.Context, s domain.ReviewSubmission) (domain.SubmitResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitCalls = append(f.submitCalls, s)
	return f.submitRes, f.submitErr
}

func (f *fakeAPI) PostcodeLocation(ctx context.Context, pc string) (domain.Coords, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.postcodeCalls = append(f.postcodeCalls, pc)
	return f.postcode, f.postcodeErr
}

func (f *fakeAPI) gets() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.getCalls)
}

// fakeMap records every call so tests can check ordering.
type fakeMap struct {
	events []string
	live   map[domain.MarkerID]domain.Marker
	next   domain.MarkerID
	center domain.Coords
	user   domain.Marker
}

func newFakeMap() *fakeMap { return &fakeMap{live: map[domain.MarkerID]domain.Marker{}} }

func (m *fakeMap) SetView(c domain.Coords, zoom int) {
	m.center = c
	m.events = append(m.events, fmt.Sprintf("view %d", zoom))
}
func (m *fakeMap) SetUserMarker(mk domain.Marker) {
	m.user = mk
	m.events = append(m.events, "user")
}
func (m *fakeMap) AddMarker(mk domain.Marker) domain.MarkerID {
	m.next++
	m.live[m.next] = mk
	m.events = append(m.events, fmt.Sprintf("add %d", m.next))
	return m.next
}
func (m *fakeMap) RemoveMarker(id domain.MarkerID) {
	delete(m.live, id)
	m.events = append(m.events, fmt.Sprintf("remove %d", id))
}

type fakeList struct {
	replaced int
	user     domain.Coords
	items    []domain.Workshop
}

func (l *fakeList) Replace(user domain.Coords, ws []domain.Workshop) {
	l.replaced++
	l.user = user
	l.items = ws
}

type fakeAlerter struct{ errs []error }

func (a *fakeAlerter) Alert(ctx context.Context, err error) { a.errs = append(a.errs, err) }

type fakeJournal struct {
	entries []domain.JournalEntry
	err     error
}

func (j *fakeJournal) Record(ctx context.Context, e domain.JournalEntry) error {
	j.entries = append(j.entries, e)
	return j.err
}
func (j *fakeJournal) List(ctx context.Context, limit int) ([]domain.JournalEntry, error) {
	return j.entries, nil
}

type fakeGeo struct {
	at  domain.Coords
	err error
}

func (g fakeGeo) CurrentPosition(ctx context.Context) (domain.Coords, error) { return g.at, g.err }

type fakeGeocoder struct {
	mu     sync.Mutex
	places []domain.Place
	err    error
	calls  int
	gate   chan struct{} // when set, Search blocks until closed
}

func (g *fakeGeocoder) Search(ctx context.Context, q string) ([]domain.Place, error) {
	g.mu.Lock()
	g.calls++
	gate := g.gate
	g.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return g.places, g.err
}

type fakeCache struct {
	store map[string]domain.Location
	err   error
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c.err != nil {
		return false, c.err
	}
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	*dst.(*domain.Location) = v
	return true, nil
}
func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.err != nil {
		return c.err
	}
	if c.store == nil {
		c.store = map[string]domain.Location{}
	}
	c.store[key] = v.(domain.Location)
	return nil
}
func (c *fakeCache) Del(ctx context.Context, key string) error { delete(c.store, key); return nil }
