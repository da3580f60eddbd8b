package documents

import "errors"

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidInput is returned when an upload is missing required data.
	ErrInvalidInput = errors.New("invalid input")
)
