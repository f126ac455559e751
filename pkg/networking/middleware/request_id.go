package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

const requestIdHeaderKey = "X-Request-Id"

// RequestIdMiddleware stamps every outbound request with a correlation id, unless the caller
// already set one.
type RequestIdMiddleware struct {
	next http.RoundTripper
}

func NewRequestIdMiddleware(roundTripper http.RoundTripper) *RequestIdMiddleware {
	return &RequestIdMiddleware{next: roundTripper}
}

func (m *RequestIdMiddleware) RoundTrip(request *http.Request) (*http.Response, error) {
	if request.Header.Get(requestIdHeaderKey) == "" {
		request.Header.Set(requestIdHeaderKey, uuid.NewString())
	}
	return m.next.RoundTrip(request)
}
