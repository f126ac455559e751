package api

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/armorview/go-console-framework/pkg/configuration"
)

// Refresher schedules delayed cache refetches after mutations whose final effect is produced
// asynchronously by an external system (ticket tracker, scan pipeline). The immediate mutation
// response may not yet reflect the final state, so affected queries are invalidated again after
// a configurable delay instead of relying on tag invalidation alone.
type Refresher struct {
	config configuration.Configuration
	logger *zerolog.Logger
	mu     sync.Mutex
	timers []*time.Timer
}

func NewRefresher(config configuration.Configuration, logger *zerolog.Logger) *Refresher {
	return &Refresher{
		config: config,
		logger: logger,
	}
}

// Delay returns the configured refetch delay.
func (r *Refresher) Delay() time.Duration {
	if r.config.IsSet(configuration.REFETCH_DELAY_MS) {
		return r.config.GetDuration(configuration.REFETCH_DELAY_MS)
	}
	return configuration.DefaultRefetchDelayMs * time.Millisecond
}

// Schedule runs fn once after the configured delay.
func (r *Refresher) Schedule(reason string, fn func()) {
	delay := r.Delay()
	if r.logger != nil {
		r.logger.Debug().Str("reason", reason).Dur("delay", delay).Msg("scheduling delayed refetch")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		r.remove(timer)
		fn()
	})
	r.timers = append(r.timers, timer)
}

// remove drops a fired timer so long-lived callers do not accumulate dead entries.
func (r *Refresher) remove(timer *time.Timer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, t := range r.timers {
		if t == timer {
			r.timers = append(r.timers[:i], r.timers[i+1:]...)
			return
		}
	}
}

// Stop cancels all pending refetches.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.timers {
		t.Stop()
	}
	r.timers = nil
}
