// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package suggest

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/pdiddy/promptrec/internal/metrics"
)

const breakerName = "suggester"

// breakerInvoker stops calling a failing model for a cooldown period after a
// run of consecutive failures.
type breakerInvoker struct {
	next Invoker
	cb   *gobreaker.CircuitBreaker[string]
}

func newBreakerInvoker(next Invoker, failures uint32, cooldown time.Duration, m *metrics.Recorder, logger zerolog.Logger) *breakerInvoker {
	if failures == 0 {
		failures = 5
	}
	if cooldown <= 0 {
		cooldown = time.Minute
	}
	m.BreakerState(breakerName, float64(gobreaker.StateClosed))

	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// A caller giving up says nothing about the model's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
			m.BreakerState(name, float64(to))
		},
	})

	return &breakerInvoker{next: next, cb: cb}
}

func (b *breakerInvoker) Invoke(ctx context.Context, prompt string) (string, error) {
	return b.cb.Execute(func() (string, error) {
		return b.next.Invoke(ctx, prompt)
	})
}

func (b *breakerInvoker) State() gobreaker.State {
	return b.cb.State()
}
