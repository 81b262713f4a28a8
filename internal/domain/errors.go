package domain

import "errors"

var (
	ErrNotFound               = errors.New("not found")
	ErrRatingRequired         = errors.New("rating required")
	ErrRatingOutOfRange       = errors.New("rating out of range")
	ErrReviewRequired         = errors.New("review text required")
	ErrLocationNotFound       = errors.New("location not found")
	ErrGeolocationUnsupported = errors.New("geolocation not supported")
	ErrNoLocation             = errors.New("location not set")
	ErrInvalidCoords          = errors.New("invalid coordinates")
	ErrPostcodeRequired       = errors.New("postcode required")
	ErrPlaceRequired          = errors.New("place name required")
	ErrUnknownLocateMode      = errors.New("unknown locate mode")
	ErrCacheCorrupt           = errors.New("corrupt cache entry")
)

// RemoteError carries an error message returned in a 200 body ({"error": "..."}).
type RemoteError struct {
	Op  string
	Msg string
}

func (e *RemoteError) Error() string { return e.Op + ": " + e.Msg }
