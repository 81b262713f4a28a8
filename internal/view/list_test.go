package view_test

import (
	"bytes"
	"strings"
	"testing"

	"workshop_finder/internal/domain"
	"workshop_finder/internal/view"
)

func TestList_ReplaceDiscardsPreviousRows(t *testing.T) {
	l := view.NewList()
	user := domain.Coords{Lat: 51.5, Lon: -0.12}

	l.Replace(user, []domain.Workshop{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}})
	l.Replace(user, []domain.Workshop{{ID: "c", Name: "C"}})

	items := l.Items()
	if len(items) != 1 || items[0].ID != "c" {
		t.Fatalf("expected only the latest rows, got %+v", items)
	}
	if _, ok := l.Find("a"); ok {
		t.Fatalf("stale row still findable")
	}
}

func TestList_WriteText(t *testing.T) {
	l := view.NewList()
	user := domain.Coords{Lat: 51.5, Lon: -0.12}
	l.Replace(user, []domain.Workshop{{
		ID: "w1", Name: "", Address: "1 High St", Lat: 51.51, Lon: -0.12,
		Rating: 14.0 / 3.0, TotalReviews: 3,
		Reviews: []domain.WorkshopReview{{Rating: 5, Text: "quick and fair"}},
	}})

	var buf bytes.Buffer
	if err := l.WriteText(&buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"[w1] Unknown", "1 High St", "Distance: 1.11 km", "Rating: 4.7 (3 reviews)", "★★★★★ quick and fair"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
}

func TestList_WriteTextEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := view.NewList().WriteText(&buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "No workshops found") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
