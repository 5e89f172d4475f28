package backend

import (
	"context"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/fjod/go_cart/storefront/internal/metrics"
)

func newBreaker(name string, opts Options) *gobreaker.CircuitBreaker[any] {
	maxFailures := opts.BreakerMaxFailures
	if maxFailures == 0 {
		maxFailures = DefaultOptions().BreakerMaxFailures
	}

	return gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     opts.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.BreakerState(name, int(to))
			logger.FromContext(context.Background()).Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
		IsSuccessful: countsAsSuccess,
	})
}

// countsAsSuccess keeps business errors from tripping the breaker. Only
// transport and server faults count as failures.
func countsAsSuccess(err error) bool {
	if err == nil {
		return true
	}
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded, codes.Internal, codes.Unknown, codes.ResourceExhausted:
		return false
	default:
		return true
	}
}
