package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Error is the uniform error shape of all resource clients: the HTTP status and the backend's
// message when one was present. Transport failures carry status 0 and wrap the underlying error.
type Error struct {
	Status  int
	Message string
	cause   error
}

func (e *Error) Error() string {
	switch {
	case e.Status == 0 && e.cause != nil:
		return fmt.Sprintf("request failed: %v", e.cause)
	case e.Message != "":
		return fmt.Sprintf("API request failed (status: %d): %s", e.Status, e.Message)
	default:
		return fmt.Sprintf("API request failed (status: %d)", e.Status)
	}
}

func (e *Error) Unwrap() error {
	return e.cause
}

// IsUnauthorized reports whether err is an expired or invalid token response. Callers redirect
// to the login entry point in that case instead of failing silently.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// IsTimeout reports whether err is a timeout rather than a backend response.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsTransport reports whether no response was received at all.
func IsTransport(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == 0
}
