package middleware

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"

	"github.com/armorview/go-console-framework/pkg/configuration"
)

const defaultRetryCount uint = 1 // Per default retries (=1) are disabled and need to be enabled via the configuration
const defaultRetryAfterSeconds = 5
const maxRetryAfter = 10 * time.Minute
const retryCountHeaderKey = "Console-Request-Attempt-Count"

// Resource clients never retry on their own, so this lookup table only matters when retries are
// explicitly enabled via configuration.
var statusCodesToRetryLUT = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusRequestTimeout:      true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

var errRetryNecessary = errors.New("retry with backoff")
var errRetryAfterHeaderError = errors.New("retry-after is too much in the future")

type RetryMiddleware struct {
	nextRoundtripper http.RoundTripper
	config           configuration.Configuration
	logger           *zerolog.Logger
}

func NewRetryMiddleware(config configuration.Configuration, logger *zerolog.Logger, roundTripper http.RoundTripper) *RetryMiddleware {
	return &RetryMiddleware{
		nextRoundtripper: roundTripper,
		config:           config,
		logger:           logger,
	}
}

func (rm RetryMiddleware) RoundTrip(req *http.Request) (*http.Response, error) {
	var localBodyBuffer []byte
	var maxAttempts = defaultRetryCount
	var retryAfter = time.Duration(defaultRetryAfterSeconds) * time.Second
	var actualAttempts = 0

	if tmp := (uint)(rm.config.GetInt(configuration.RETRY_ATTEMPTS)); tmp > 0 {
		maxAttempts = tmp
	}

	// an explicitly configured 0 means immediate retries
	if rm.config.IsSet(configuration.RETRY_AFTER_SECONDS) {
		retryAfter = time.Duration(rm.config.GetInt(configuration.RETRY_AFTER_SECONDS)) * time.Second
	}

	if maxAttempts == 1 {
		return rm.nextRoundtripper.RoundTrip(req)
	}

	// if a body is available, create a local copy to be able to use it multiple times
	if req.Body != nil {
		var localBufferError error
		localBodyBuffer, localBufferError = io.ReadAll(req.Body)
		closeError := req.Body.Close()

		if localBufferError != nil {
			return nil, localBufferError
		}
		if closeError != nil {
			return nil, closeError
		}

		req.Body = io.NopCloser(bytes.NewBuffer(localBodyBuffer))
	}

	op := func() (*http.Response, error) {
		actualAttempts++

		// create a local copy of the request
		localRequest := *req
		if len(localBodyBuffer) > 0 {
			localRequest.Body = io.NopCloser(bytes.NewBuffer(localBodyBuffer))
		}

		response, err := rm.nextRoundtripper.RoundTrip(&localRequest)

		// keep track of actual retry attempts for monitoring/logging
		if response != nil && response.Header != nil && actualAttempts > 1 {
			response.Header.Set(retryCountHeaderKey, fmt.Sprintf("%d", actualAttempts))
		}

		// errors from the next round tripper cannot be retried
		if err != nil {
			return response, backoff.Permanent(err)
		}

		if retryError := shouldRetry(response); retryError != nil {
			rm.logger.Debug().Msgf("Retrying request, reason: %v", retryError)
			return response, retryError
		}

		return response, nil
	}

	backoffMethod := backoff.NewExponentialBackOff()
	backoffMethod.InitialInterval = retryAfter
	finalResponse, finalError := backoff.Retry(req.Context(), op, backoff.WithBackOff(backoffMethod), backoff.WithMaxTries(maxAttempts))

	// when retries fail to resolve the issue, return the last response instead of the local error type
	if errors.Is(finalError, errRetryNecessary) {
		rm.logger.Warn().Msgf("Retry ultimately failed after %d attempts", maxAttempts)
		finalError = nil
	}

	return finalResponse, finalError
}

func shouldRetry(response *http.Response) error {
	if statusCodesToRetryLUT[response.StatusCode] {
		fixRetryDelay := time.Duration(0)

		if headerRetryAfterValue := response.Header.Get("Retry-After"); len(headerRetryAfterValue) > 0 {
			fixRetryDelay = parseRetryAfterHeader(headerRetryAfterValue)
		}

		// if the fix retry delay is too big, we rather fail permanently than blocking too long
		if fixRetryDelay > maxRetryAfter {
			return backoff.Permanent(errRetryAfterHeaderError)
		}

		if fixRetryDelay > 0 {
			return &backoff.RetryAfterError{Duration: fixRetryDelay}
		}

		// if no retry after is defined, the backoff strategy determines the time to wait for
		return errRetryNecessary
	}

	return nil
}

func parseRetryAfterHeader(headerRetryAfterValue string) time.Duration {
	// Retry-After: 1230
	if tmp, err := strconv.ParseInt(headerRetryAfterValue, 10, 64); err == nil {
		return time.Duration(tmp) * time.Second
	}

	// Retry-After: Fri, 31 Dec 1999 23:59:59 GMT
	if tmp, err := time.Parse(time.RFC1123, headerRetryAfterValue); err == nil {
		if until := time.Until(tmp); until > 0 {
			return until
		}
	}

	return 0
}
