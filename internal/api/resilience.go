package api

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Retry and breaker defaults. The breaker is shared across all operations
// against the one teaser service; a burst of server failures on any endpoint
// trips it for the rest.
const (
	defaultMaxAttempts    = 3
	defaultInitialBackoff = 250 * time.Millisecond
	defaultMaxBackoff     = 2 * time.Second
	defaultBackoffFactor  = 2.0

	breakerMinRequests  = 5
	breakerFailureRatio = 0.6
	breakerOpenTimeout  = 30 * time.Second
)

// executor wraps remote calls with classified retry and a circuit breaker.
// Only KindNetwork and KindServer failures are retried or counted against the
// breaker; everything else is the caller's problem, not the service's health.
type executor struct {
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	backoffFactor  float64
	breaker        *gobreaker.CircuitBreaker[any]
}

func newExecutor() *executor {
	settings := gobreaker.Settings{
		Name:        "teaser-service",
		Timeout:     breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < breakerMinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= breakerFailureRatio
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			return !KindOf(err).Retryable()
		},
	}

	return &executor{
		maxAttempts:    defaultMaxAttempts,
		initialBackoff: defaultInitialBackoff,
		maxBackoff:     defaultMaxBackoff,
		backoffFactor:  defaultBackoffFactor,
		breaker:        gobreaker.NewCircuitBreaker[any](settings),
	}
}

func (e *executor) do(ctx context.Context, op string, fn func(context.Context) error) error {
	_, err := e.breaker.Execute(func() (any, error) {
		return nil, e.retry(ctx, fn)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &Error{
			Kind:    KindNetwork,
			Op:      op,
			Message: "service temporarily unavailable, too many recent failures",
			Cause:   err,
		}
	}
	return err
}

func (e *executor) retry(ctx context.Context, fn func(context.Context) error) error {
	backoff := e.initialBackoff

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !KindOf(err).Retryable() || attempt == e.maxAttempts {
			return err
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}

		backoff = time.Duration(float64(backoff) * e.backoffFactor)
		if backoff > e.maxBackoff {
			backoff = e.maxBackoff
		}
	}
}
