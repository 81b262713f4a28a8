package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

type Coords struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether c lies within WGS84 bounds.
func (c Coords) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180 &&
		!math.IsNaN(c.Lat) && !math.IsNaN(c.Lon)
}

type LocationSource string

const (
	SourceGeolocation LocationSource = "geolocation"
	SourcePostcode    LocationSource = "postcode"
	SourcePlace       LocationSource = "place"
	SourceManual      LocationSource = "manual"
)

type Location struct {
	Coords Coords         `json:"coords"`
	Source LocationSource `json:"source"`
	Label  string         `json:"label,omitempty"` // postcode or display name, when known
}

// WorkshopID is opaque. Servers that send numeric ids are accepted and stringified.
type WorkshopID string

func (id *WorkshopID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = WorkshopID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = WorkshopID(n.String())
	return nil
}

type Workshop struct {
	ID           WorkshopID       `json:"id"`
	Name         string           `json:"name"`
	Address      string           `json:"address"`
	Lat          float64          `json:"lat"`
	Lon          float64          `json:"lon"`
	Rating       float64          `json:"rating"`
	TotalReviews int              `json:"total_reviews"`
	Reviews      []WorkshopReview `json:"reviews"` // most recent first
}

func (w Workshop) Coords() Coords { return Coords{Lat: w.Lat, Lon: w.Lon} }

// UnmarshalJSON tolerates null/string aggregates ("4.5", null) coming from loosely typed servers.
func (w *Workshop) UnmarshalJSON(b []byte) error {
	type plain Workshop
	var raw struct {
		plain
		Rating       any `json:"rating"`
		TotalReviews any `json:"total_reviews"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*w = Workshop(raw.plain)
	w.Rating = floatFlexible(raw.Rating)
	w.TotalReviews = int(floatFlexible(raw.TotalReviews))
	return nil
}

type WorkshopReview struct {
	Rating int    `json:"rating"`
	Text   string `json:"review"`
}

// floatFlexible: number from float64 or string like "4,5"; anything else is 0.
func floatFlexible(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(t, ",", "."))
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return 0
}
