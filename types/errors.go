package types

import (
	"errors"
)

// Request failures. Components wrap these with fmt.Errorf("%w ...") so that
// callers can classify an error with errors.Is regardless of the detail text.
var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrNotFound      = errors.New("not found")
	ErrAccessDenied  = errors.New("access denied")
	ErrUpstream      = errors.New("upstream error")
	ErrStorage       = errors.New("storage error")
	ErrConfiguration = errors.New("configuration error")
	ErrBadRequest    = errors.New("bad request")
)
