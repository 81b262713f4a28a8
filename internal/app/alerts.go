package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"workshop_finder/internal/domain"
)

type Op string

const (
	OpGeolocate Op = "geolocate"
	OpPostcode  Op = "postcode"
	OpPlace     Op = "place"
	OpManual    Op = "manual"
	OpWorkshops Op = "workshops"
	OpReview    Op = "review"
	OpLocate    Op = "locate"
)

// OpError tags a failure with the user action it came from.
type OpError struct {
	Op  Op
	Err error
}

func (e *OpError) Error() string { return string(e.Op) + ": " + e.Err.Error() }
func (e *OpError) Unwrap() error { return e.Err }

func opErr(op Op, err error) error { return &OpError{Op: op, Err: err} }

var fallbackMessages = map[Op]string{
	OpGeolocate: "Unable to get your location. Please enable location services and try again.",
	OpPostcode:  "Error finding that postcode. Please try again.",
	OpPlace:     "Error finding that location. Please try again.",
	OpWorkshops: "Error fetching workshops. Please try again.",
	OpReview:    "Error submitting review. Please try again.",
}

// AlertMessage maps err to the message shown to the user.
func AlertMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrGeolocationUnsupported):
		return "Geolocation is not supported on this device."
	case errors.Is(err, domain.ErrRatingRequired):
		return "Please select a rating."
	case errors.Is(err, domain.ErrRatingOutOfRange):
		return "Please select a rating between 1 and 5 stars."
	case errors.Is(err, domain.ErrReviewRequired):
		return "Please write a review."
	case errors.Is(err, domain.ErrPostcodeRequired):
		return "Please enter a postcode."
	case errors.Is(err, domain.ErrPlaceRequired):
		return "Please enter a location."
	case errors.Is(err, domain.ErrLocationNotFound):
		return "Location not found. Please try a different search."
	case errors.Is(err, domain.ErrInvalidCoords):
		return "Please enter a valid latitude and longitude."
	case errors.Is(err, domain.ErrUnknownLocateMode):
		return "Please choose how to find your location."
	case errors.Is(err, domain.ErrNoLocation):
		return "Please set your location first."
	}
	var re *domain.RemoteError
	if errors.As(err, &re) && re.Msg != "" {
		return re.Msg
	}
	var oe *OpError
	if errors.As(err, &oe) {
		if m, ok := fallbackMessages[oe.Op]; ok {
			return m
		}
	}
	return "Something went wrong. Please try again."
}

// WriterAlerter logs the failure and prints the alert line to w (stderr for the CLI).
type WriterAlerter struct{ W io.Writer }

func (a WriterAlerter) Alert(_ context.Context, err error) {
	log.Error().Err(err).Msg("alert")
	fmt.Fprintln(a.W, "ALERT:", AlertMessage(err))
}
