package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"workshop_finder/internal/adapters/observability"
	"workshop_finder/internal/domain"
)

const (
	userPopup   = "You are here"
	defaultZoom = 13
)

// Controller binds location, workshop data and reviews to a map and a list.
//
// Both views are rebuilt from scratch on every refresh. Overlapping refreshes are
// neither cancelled nor ordered: whichever response arrives last replaces the views.
type Controller struct {
	loc     *LocationService
	api     domain.FinderAPI
	mapv    domain.MapView
	list    domain.ListView
	alert   domain.Alerter
	journal domain.Journal // optional

	mu      sync.Mutex
	current *domain.Location
	markers []domain.MarkerID
}

func NewController(api domain.FinderAPI, loc *LocationService, m domain.MapView, l domain.ListView, a domain.Alerter) *Controller {
	return &Controller{api: api, loc: loc, mapv: m, list: l, alert: a}
}

// WithJournal records every submission that reaches the server.
func (c *Controller) WithJournal(j domain.Journal) *Controller {
	c.journal = j
	return c
}

type LocateMode string

const (
	LocateGeolocation LocateMode = "geolocate"
	LocatePostcode    LocateMode = "postcode"
	LocatePlace       LocateMode = "place"
	LocateManual      LocateMode = "manual"
)

type LocateRequest struct {
	Mode     LocateMode
	Postcode string
	Place    string
	Lat, Lon float64
}

// Locate resolves the requested location and shows workshops around it.
func (c *Controller) Locate(ctx context.Context, req LocateRequest) error {
	var (
		loc domain.Location
		err error
	)
	switch req.Mode {
	case LocateGeolocation:
		loc, err = c.loc.Geolocate(ctx)
	case LocatePostcode:
		loc, err = c.loc.FromPostcode(ctx, req.Postcode)
	case LocatePlace:
		loc, err = c.loc.FromPlace(ctx, req.Place)
	case LocateManual:
		loc, err = c.loc.Manual(req.Lat, req.Lon)
	default:
		err = opErr(OpLocate, fmt.Errorf("%q: %w", req.Mode, domain.ErrUnknownLocateMode))
	}
	if err != nil {
		c.alert.Alert(ctx, err)
		return err
	}
	return c.ShowLocation(ctx, loc)
}

// ShowLocation centres the map on loc, replaces the user marker and refreshes workshops.
func (c *Controller) ShowLocation(ctx context.Context, loc domain.Location) error {
	c.mu.Lock()
	c.current = &loc
	c.mapv.SetView(loc.Coords, defaultZoom)
	c.mapv.SetUserMarker(domain.Marker{Coords: loc.Coords, Popup: userPopup})
	c.mu.Unlock()

	log.Info().Float64("lat", loc.Coords.Lat).Float64("lon", loc.Coords.Lon).
		Str("source", string(loc.Source)).Msg("location set")
	return c.Refresh(ctx)
}

// Current returns the location workshops are shown for.
func (c *Controller) Current() (domain.Location, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return domain.Location{}, false
	}
	return *c.current, true
}

// Refresh fetches workshops around the current location and rebuilds list and markers.
func (c *Controller) Refresh(ctx context.Context) error {
	loc, ok := c.Current()
	if !ok {
		err := opErr(OpWorkshops, domain.ErrNoLocation)
		c.alert.Alert(ctx, err)
		return err
	}

	ws, err := c.api.GetWorkshops(ctx, loc.Coords)
	observability.ObserveRefresh(err)
	if err != nil {
		err = opErr(OpWorkshops, err)
		c.alert.Alert(ctx, err)
		return err
	}

	c.rebuild(loc.Coords, ws)
	log.Info().Int("workshops", len(ws)).Msg("workshops refreshed")
	return nil
}

// rebuild replaces both views; every previous marker is removed before any new one is added.
func (c *Controller) rebuild(user domain.Coords, ws []domain.Workshop) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, id := range c.markers {
		c.mapv.RemoveMarker(id)
	}
	c.markers = c.markers[:0]

	c.list.Replace(user, ws)
	for _, w := range ws {
		id := c.mapv.AddMarker(domain.Marker{Coords: w.Coords(), Popup: popup(w)})
		c.markers = append(c.markers, id)
	}
}

func popup(w domain.Workshop) string {
	if w.Address == "" {
		return w.Name
	}
	return w.Name + "\n" + w.Address
}

// SubmitReview validates and submits a rating and review. A successful
// submission triggers exactly one refresh so the new aggregate shows up.
func (c *Controller) SubmitReview(ctx context.Context, s domain.ReviewSubmission) error {
	if err := s.Validate(); err != nil {
		observability.ObserveSubmission("invalid")
		err = opErr(OpReview, err)
		c.alert.Alert(ctx, err)
		return err
	}

	res, err := c.api.SubmitRatingReview(ctx, s)
	c.record(ctx, s, res, err)
	if err != nil {
		observability.ObserveSubmission("error")
		err = opErr(OpReview, err)
		c.alert.Alert(ctx, err)
		return err
	}
	if !res.Success {
		observability.ObserveSubmission("rejected")
		err = opErr(OpReview, &domain.RemoteError{Op: "submit review", Msg: res.Error})
		c.alert.Alert(ctx, err)
		return err
	}

	observability.ObserveSubmission("ok")
	log.Info().Str("workshop", string(s.WorkshopID)).Int("rating", s.Rating).Msg("review submitted")
	return c.Refresh(ctx)
}

// record is best effort; journal failures never change the submission outcome.
func (c *Controller) record(ctx context.Context, s domain.ReviewSubmission, res domain.SubmitResult, callErr error) {
	if c.journal == nil {
		return
	}
	e := domain.JournalEntry{
		ID:          uuid.NewString(),
		WorkshopID:  s.WorkshopID,
		Rating:      s.Rating,
		Review:      s.Review,
		Success:     callErr == nil && res.Success,
		Error:       res.Error,
		SubmittedAt: time.Now().UTC(),
	}
	if callErr != nil {
		e.Error = callErr.Error()
	}
	if err := c.journal.Record(ctx, e); err != nil {
		log.Warn().Err(err).Msg("journal record failed")
	}
}
