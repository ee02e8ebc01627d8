package api

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrURLMustBeSet      = errors.New("server url must be set")
	ErrUnreachable       = errors.New("server unreachable")
	ErrMalformedResponse = errors.New("malformed response")
)

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: server responded with status %d", e.Method, e.Path, e.StatusCode)
}

// IsStatus reports whether err is a *StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}

	return se.StatusCode == code
}
