package view_test

import (
	"encoding/json"
	"testing"

	"workshop_finder/internal/domain"
	"workshop_finder/internal/view"
)

func TestMarkerLayer_AddRemove(t *testing.T) {
	l := view.NewMarkerLayer()
	a := l.AddMarker(domain.Marker{Popup: "a"})
	b := l.AddMarker(domain.Marker{Popup: "b"})
	if a == b {
		t.Fatalf("marker ids must be unique")
	}
	l.RemoveMarker(a)

	ms := l.Markers()
	if len(ms) != 1 || ms[0].Popup != "b" {
		t.Fatalf("unexpected markers: %+v", ms)
	}
}

func TestMarkerLayer_GeoJSON(t *testing.T) {
	l := view.NewMarkerLayer()
	l.SetView(domain.Coords{Lat: 51.5, Lon: -0.12}, 13)
	l.SetUserMarker(domain.Marker{Coords: domain.Coords{Lat: 51.5, Lon: -0.12}, Popup: "You are here"})
	l.AddMarker(domain.Marker{Coords: domain.Coords{Lat: 51.51, Lon: -0.13}, Popup: "Fix-It"})

	b, err := l.GeoJSON()
	if err != nil {
		t.Fatalf("geojson: %v", err)
	}
	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Coordinates [2]float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]string `json:"properties"`
		} `json:"features"`
	}
	if err := json.Unmarshal(b, &fc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if fc.Type != "FeatureCollection" || len(fc.Features) != 2 {
		t.Fatalf("unexpected collection: %s", b)
	}
	if fc.Features[0].Properties["kind"] != "user" || fc.Features[1].Geometry.Coordinates != [2]float64{-0.13, 51.51} {
		t.Fatalf("unexpected features: %s", b)
	}
}
