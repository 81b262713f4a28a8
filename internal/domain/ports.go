package domain

import (
	"context"
	"time"
)

// FinderAPI is the workshop finder server as consumed by the client.
type FinderAPI interface {
	GetWorkshops(ctx context.Context, at Coords) ([]Workshop, error)
	SubmitRatingReview(ctx context.Context, s ReviewSubmission) (SubmitResult, error)
	PostcodeLocation(ctx context.Context, postcode string) (Coords, error)
}

// Geolocator stands in for the device position (browser geolocation).
type Geolocator interface {
	CurrentPosition(ctx context.Context) (Coords, error)
}

// Geocoder resolves a free-text place name to candidates, best first.
type Geocoder interface {
	Search(ctx context.Context, place string) ([]Place, error)
}

type Place struct {
	DisplayName string
	Coords      Coords
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// MarkerID identifies a marker added to a MapView.
type MarkerID int

type Marker struct {
	Coords Coords
	Popup  string
}

// MapView is the map surface. Workshop markers are owned by the caller, which
// must remove every marker it added before adding the next set.
type MapView interface {
	SetView(center Coords, zoom int)
	SetUserMarker(m Marker)
	AddMarker(m Marker) MarkerID
	RemoveMarker(id MarkerID)
}

// ListView receives the full workshop list on every refresh.
type ListView interface {
	Replace(user Coords, ws []Workshop)
}

// Alerter is the single user-facing failure channel.
type Alerter interface {
	Alert(ctx context.Context, err error)
}

// Journal records review submissions that reached the server.
type Journal interface {
	Record(ctx context.Context, e JournalEntry) error
	List(ctx context.Context, limit int) ([]JournalEntry, error)
}

type JournalEntry struct {
	ID          string
	WorkshopID  WorkshopID
	Rating      int
	Review      string
	Success     bool
	Error       string
	SubmittedAt time.Time
}
