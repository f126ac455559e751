package middleware

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/armorview/go-console-framework/pkg/configuration"
)

type countingRoundTripper struct {
	attempts         int
	succeedAfter     int
	failingStatus    int
	lastReceivedBody string
}

func (c *countingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	c.attempts++
	if req.Body != nil {
		bodyBytes, _ := io.ReadAll(req.Body)
		c.lastReceivedBody = string(bodyBytes)
	}

	status := c.failingStatus
	if c.attempts >= c.succeedAfter {
		status = http.StatusOK
	}

	localUrl, _ := url.Parse("http://example.com")
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader("{}")),
		Request:    &http.Request{Method: req.Method, URL: localUrl},
	}, nil
}

func Test_RetryMiddleware_disabledByDefault(t *testing.T) {
	config := configuration.NewInMemory()
	logger := zerolog.Nop()
	next := &countingRoundTripper{succeedAfter: 99, failingStatus: http.StatusServiceUnavailable}
	rm := NewRetryMiddleware(config, &logger, next)

	req, _ := http.NewRequest(http.MethodGet, "http://example.com/findings", nil)
	response, err := rm.RoundTrip(req)

	assert.Nil(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, response.StatusCode)
	assert.Equal(t, 1, next.attempts)
}

func Test_RetryMiddleware_retriesWhenEnabled(t *testing.T) {
	config := configuration.NewInMemory()
	config.Set(configuration.RETRY_ATTEMPTS, 3)
	config.Set(configuration.RETRY_AFTER_SECONDS, 0)
	logger := zerolog.Nop()
	next := &countingRoundTripper{succeedAfter: 2, failingStatus: http.StatusServiceUnavailable}
	rm := NewRetryMiddleware(config, &logger, next)

	req, _ := http.NewRequest(http.MethodGet, "http://example.com/findings", nil)
	response, err := rm.RoundTrip(req)

	assert.Nil(t, err)
	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, 2, next.attempts)
}

func Test_RetryMiddleware_doesNotRetrySuccess(t *testing.T) {
	config := configuration.NewInMemory()
	config.Set(configuration.RETRY_ATTEMPTS, 3)
	logger := zerolog.Nop()
	next := &countingRoundTripper{succeedAfter: 0}
	rm := NewRetryMiddleware(config, &logger, next)

	req, _ := http.NewRequest(http.MethodGet, "http://example.com/findings", nil)
	response, err := rm.RoundTrip(req)

	assert.Nil(t, err)
	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, 1, next.attempts)
}

func Test_RetryMiddleware_doesNotRetryClientErrors(t *testing.T) {
	config := configuration.NewInMemory()
	config.Set(configuration.RETRY_ATTEMPTS, 3)
	logger := zerolog.Nop()
	next := &countingRoundTripper{succeedAfter: 99, failingStatus: http.StatusNotFound}
	rm := NewRetryMiddleware(config, &logger, next)

	req, _ := http.NewRequest(http.MethodGet, "http://example.com/findings", nil)
	response, err := rm.RoundTrip(req)

	assert.Nil(t, err)
	assert.Equal(t, http.StatusNotFound, response.StatusCode)
	assert.Equal(t, 1, next.attempts)
}

func Test_RetryMiddleware_replaysRequestBody(t *testing.T) {
	config := configuration.NewInMemory()
	config.Set(configuration.RETRY_ATTEMPTS, 2)
	config.Set(configuration.RETRY_AFTER_SECONDS, 0)
	logger := zerolog.Nop()
	next := &countingRoundTripper{succeedAfter: 2, failingStatus: http.StatusInternalServerError}
	rm := NewRetryMiddleware(config, &logger, next)

	body := `{"findingId":"F-100"}`
	req, _ := http.NewRequest(http.MethodPost, "http://example.com/tickets/create", strings.NewReader(body))
	response, err := rm.RoundTrip(req)

	assert.Nil(t, err)
	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, 2, next.attempts)
	assert.Equal(t, body, next.lastReceivedBody)
}

func Test_parseRetryAfterHeader(t *testing.T) {
	assert.Equal(t, "10s", parseRetryAfterHeader("10").String())
	assert.Equal(t, "0s", parseRetryAfterHeader("garbage").String())
	assert.Equal(t, "0s", parseRetryAfterHeader("Fri, 31 Dec 1999 23:59:59 GMT").String())
}
