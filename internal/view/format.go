package view

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"workshop_finder/internal/domain"
)

// FormatRating renders an aggregate rating with one decimal (4.666 -> "4.7").
// Ties round up (4.25 -> "4.3"), not to even.
func FormatRating(r float64) string {
	return strconv.FormatFloat(math.Round(r*10)/10, 'f', 1, 64)
}

// ReviewCount renders "0 review", "1 review", "2 reviews".
func ReviewCount(n int) string {
	if n > 1 {
		return fmt.Sprintf("%d reviews", n)
	}
	return fmt.Sprintf("%d review", n)
}

func FormatDistance(km float64) string {
	return strconv.FormatFloat(km, 'f', 2, 64) + " km"
}

// Stars renders an integer rating as filled/empty stars.
func Stars(n int) string {
	if n < 0 {
		n = 0
	}
	if n > domain.MaxRating {
		n = domain.MaxRating
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", domain.MaxRating-n)
}

// DirectionsURL builds an OpenStreetMap car route from the user to a workshop.
func DirectionsURL(from, to domain.Coords) string {
	return fmt.Sprintf("https://www.openstreetmap.org/directions?engine=osrm_car&route=%s,%s;%s,%s",
		coord(from.Lat), coord(from.Lon), coord(to.Lat), coord(to.Lon))
}

func coord(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
