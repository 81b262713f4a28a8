package domain

import (
	"fmt"
	"strings"
)

const (
	MinRating = 1
	MaxRating = 5
)

// ReviewSubmission is what the review form posts. Rating 0 means no star was selected.
type ReviewSubmission struct {
	WorkshopID WorkshopID `json:"workshop_id"`
	Rating     int        `json:"rating"`
	Review     string     `json:"review"`
}

// Validate checks the only two invariants the client enforces before submitting.
func (s ReviewSubmission) Validate() error {
	if s.Rating == 0 {
		return ErrRatingRequired
	}
	if s.Rating < MinRating || s.Rating > MaxRating {
		return fmt.Errorf("%w: got %d", ErrRatingOutOfRange, s.Rating)
	}
	if strings.TrimSpace(s.Review) == "" {
		return ErrReviewRequired
	}
	return nil
}

type SubmitResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
