package remote

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound matches any *StatusError carrying a 404.
var ErrNotFound = errors.New("not found")

// StatusError is a non-2xx answer from the service.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: API error: status=%d, body=%s", e.Op, e.Code, e.Body)
}

// Is lets errors.Is(err, ErrNotFound) see through 404s.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Code == http.StatusNotFound
}

// AsStatus returns the *StatusError inside err, if any.
func AsStatus(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
