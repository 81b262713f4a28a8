package view

import (
	"strings"

	"workshop_finder/internal/domain"
)

// StarWidget is the five-star rating selector of the review form.
// Hovering previews a value without changing the selection.
type StarWidget struct {
	selected int
	hover    int
}

// Select picks n stars; values outside 1..5 are ignored.
func (s *StarWidget) Select(n int) {
	if n < domain.MinRating || n > domain.MaxRating {
		return
	}
	s.selected = n
}

func (s *StarWidget) Hover(n int) {
	if n < domain.MinRating || n > domain.MaxRating {
		return
	}
	s.hover = n
}

func (s *StarWidget) Leave() { s.hover = 0 }

func (s *StarWidget) Reset() { s.selected, s.hover = 0, 0 }

// Value is the selected rating, 0 when nothing is selected.
func (s *StarWidget) Value() int { return s.selected }

// Render shows the hover preview if any, otherwise the selection.
func (s *StarWidget) Render() string {
	n := s.selected
	if s.hover > 0 {
		n = s.hover
	}
	var b strings.Builder
	for i := domain.MinRating; i <= domain.MaxRating; i++ {
		if i <= n {
			b.WriteString("★")
		} else {
			b.WriteString("☆")
		}
	}
	return b.String()
}
