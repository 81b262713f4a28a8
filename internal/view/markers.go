package view

import (
	"encoding/json"
	"sort"
	"sync"

	"workshop_finder/internal/domain"
)

const DefaultZoom = 13

// MarkerLayer is an in-memory map surface. It keeps exactly what was added and
// not yet removed, so a caller that forgets to remove markers leaks them here.
type MarkerLayer struct {
	mu      sync.RWMutex
	center  domain.Coords
	zoom    int
	user    *domain.Marker
	markers map[domain.MarkerID]domain.Marker
	nextID  domain.MarkerID
}

func NewMarkerLayer() *MarkerLayer {
	return &MarkerLayer{zoom: DefaultZoom, markers: map[domain.MarkerID]domain.Marker{}}
}

func (l *MarkerLayer) SetView(center domain.Coords, zoom int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.center, l.zoom = center, zoom
}

// SetUserMarker replaces the "you are here" marker.
func (l *MarkerLayer) SetUserMarker(m domain.Marker) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.user = &m
}

func (l *MarkerLayer) AddMarker(m domain.Marker) domain.MarkerID {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	l.markers[l.nextID] = m
	return l.nextID
}

func (l *MarkerLayer) RemoveMarker(id domain.MarkerID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.markers, id)
}

func (l *MarkerLayer) View() (domain.Coords, int) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.center, l.zoom
}

func (l *MarkerLayer) UserMarker() (domain.Marker, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.user == nil {
		return domain.Marker{}, false
	}
	return *l.user, true
}

// Markers returns the workshop markers in insertion order.
func (l *MarkerLayer) Markers() []domain.Marker {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ids := make([]domain.MarkerID, 0, len(l.markers))
	for id := range l.markers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]domain.Marker, 0, len(ids))
	for _, id := range ids {
		out = append(out, l.markers[id])
	}
	return out
}

type feature struct {
	Type       string         `json:"type"`
	Geometry   geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type geometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"` // lon, lat
}

// GeoJSON renders the user marker and workshop markers as a FeatureCollection.
func (l *MarkerLayer) GeoJSON() ([]byte, error) {
	features := []feature{}
	if u, ok := l.UserMarker(); ok {
		features = append(features, point(u, "user"))
	}
	for _, m := range l.Markers() {
		features = append(features, point(m, "workshop"))
	}
	center, zoom := l.View()
	return json.Marshal(map[string]any{
		"type":     "FeatureCollection",
		"features": features,
		"center":   [2]float64{center.Lat, center.Lon},
		"zoom":     zoom,
	})
}

func point(m domain.Marker, kind string) feature {
	return feature{
		Type:       "Feature",
		Geometry:   geometry{Type: "Point", Coordinates: [2]float64{m.Coords.Lon, m.Coords.Lat}},
		Properties: map[string]any{"kind": kind, "popup": m.Popup},
	}
}
