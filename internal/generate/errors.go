package generate

import "errors"

var (
	// ErrMalformedResponse is returned when the model's reply cannot be
	// parsed into a posts collection
	ErrMalformedResponse = errors.New("malformed model response")

	// ErrEmptyResult is returned when filtering leaves no usable posts
	ErrEmptyResult = errors.New("no valid posts generated")
)
