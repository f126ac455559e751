package networking

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const networkLogLevel = zerolog.DebugLevel

// loggingRoundTripper logs outbound requests and their outcome. The logger is expected to write
// through a scrubbing writer, so tokens never reach the log output.
type loggingRoundTripper struct {
	logger *zerolog.Logger
	next   http.RoundTripper
}

func newLoggingRoundTripper(logger *zerolog.Logger, next http.RoundTripper) *loggingRoundTripper {
	return &loggingRoundTripper{
		logger: logger,
		next:   next,
	}
}

func (l *loggingRoundTripper) RoundTrip(request *http.Request) (*http.Response, error) {
	if l.logger == nil || l.logger.GetLevel() > networkLogLevel {
		return l.next.RoundTrip(request)
	}

	start := time.Now()
	response, err := l.next.RoundTrip(request)
	duration := time.Since(start)

	event := l.logger.Debug().
		Str("method", request.Method).
		Str("url", request.URL.String()).
		Dur("duration", duration)

	if err != nil {
		event.Err(err).Msg("request failed")
		return response, err
	}

	event.Int("status", response.StatusCode).Msg("request completed")
	return response, err
}
