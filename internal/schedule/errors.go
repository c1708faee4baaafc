package schedule

import "errors"

var (
	// ErrInvalidDate is returned when a supplied start date does not parse.
	// A bad date fails fast; it is never silently replaced with the clock.
	ErrInvalidDate = errors.New("invalid start date")

	// ErrUnknownPlatform is returned when an optimal-times lookup names a
	// platform outside the supported set
	ErrUnknownPlatform = errors.New("unknown platform")
)
