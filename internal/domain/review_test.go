package domain_test

import (
	"errors"
	"testing"

	"workshop_finder/internal/domain"
)

func TestReviewSubmission_Validate(t *testing.T) {
	cases := []struct {
		name string
		in   domain.ReviewSubmission
		want error
	}{
		{"ok", domain.ReviewSubmission{WorkshopID: "1", Rating: 5, Review: "great"}, nil},
		{"no rating", domain.ReviewSubmission{WorkshopID: "1", Review: "great"}, domain.ErrRatingRequired},
		{"too high", domain.ReviewSubmission{WorkshopID: "1", Rating: 6, Review: "great"}, domain.ErrRatingOutOfRange},
		{"negative", domain.ReviewSubmission{WorkshopID: "1", Rating: -1, Review: "great"}, domain.ErrRatingOutOfRange},
		{"empty text", domain.ReviewSubmission{WorkshopID: "1", Rating: 3}, domain.ErrReviewRequired},
		{"whitespace text", domain.ReviewSubmission{WorkshopID: "1", Rating: 3, Review: " \t\n "}, domain.ErrReviewRequired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.in.Validate()
			if tc.want == nil && err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}
