package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a typed upstream API error carrying the HTTP status code and the
// server-supplied message (when the response body had one).
type Error struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: %d", e.Status)
}

// StatusError extracts the *Error from err, or nil when err is a transport
// failure that never produced a response.
func StatusError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// IsAuthExpired reports whether err is an authentication/authorization
// failure (401/403). Checked before generic error handling so the caller can
// redirect to the login flow.
func IsAuthExpired(err error) bool {
	e := StatusError(err)
	return e != nil && (e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden)
}
