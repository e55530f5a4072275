package api

import (
	"context"
	"log/slog"
	"time"

	"storefront/config"
	"storefront/internal/errors"

	"github.com/sony/gobreaker/v2"
)

const (
	defaultBreakerFailures = 5
	defaultBreakerTimeout  = 30 * time.Second
)

// errUpstreamFailure marks a 5xx so the breaker counts it; the response itself
// is still returned to the caller.
var errUpstreamFailure = errors.New("upstream returned a server error")

// newBreaker trips after consecutive transport failures or 5xx answers.
// 4xx answers are the caller's problem and never trip it.
func newBreaker(cfg config.CircuitBreakerConfig, logger *slog.Logger) *gobreaker.CircuitBreaker[*response] {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = defaultBreakerFailures
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultBreakerTimeout
	}

	return gobreaker.NewCircuitBreaker[*response](gobreaker.Settings{
		Name:        "storefront-api",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
		IsSuccessful: func(err error) bool {
			// Cancellation by the caller says nothing about backend health.
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
}
