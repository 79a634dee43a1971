package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a missing entity; handlers map it to 404.
var ErrNotFound = errors.New("not found")

// UpstreamError is a failed call to an external API: a non-2xx response
// (Status carries the HTTP code) or a network failure (Status 0).
type UpstreamError struct {
	Service string
	Status  int
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s upstream: %v", e.Service, e.Err)
	}
	return fmt.Sprintf("%s upstream: status %d", e.Service, e.Status)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// IsUpstream reports whether err is (or wraps) an UpstreamError.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}

// ValidationError is a client mistake: missing required field or invalid
// enum value. Handlers map it to 400 with the reason.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func Validationf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
