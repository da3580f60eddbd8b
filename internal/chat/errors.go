package chat

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest indicates an empty message or unreadable request.
	ErrInvalidRequest = errors.New("invalid chat request")
	// ErrMisconfigured indicates that no agent endpoint is configured.
	ErrMisconfigured = errors.New("agent endpoint not configured")
)

// UpstreamError reports that the agent could not be reached or did not
// answer in time.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("agent unavailable: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
