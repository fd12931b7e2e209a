package messaging

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// ErrProviderUnavailable is returned while the breaker is open.
var ErrProviderUnavailable = errors.New("provider unavailable")

type BreakerSettings struct {
	FailureThreshold uint32
	Timeout          time.Duration
	// HalfOpenRequests is how many trial sends are let through after Timeout.
	HalfOpenRequests uint32
}

// Breaker stops calling a provider after consecutive provider failures.
// Sends rejected for one recipient count as successes.
type Breaker struct {
	next Sender
	cb   *gobreaker.CircuitBreaker[string]
}

func NewBreaker(name string, next Sender, settings BreakerSettings, logger *zap.Logger) *Breaker {
	if settings.FailureThreshold == 0 {
		settings.FailureThreshold = 5
	}
	if settings.Timeout <= 0 {
		settings.Timeout = 30 * time.Second
	}
	if settings.HalfOpenRequests == 0 {
		settings.HalfOpenRequests = 1
	}

	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        name,
		MaxRequests: settings.HalfOpenRequests,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrRecipientRejected)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Provider breaker state changed",
				zap.String("provider", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &Breaker{next: next, cb: cb}
}

func (b *Breaker) Send(ctx context.Context, to string, msg Message) (string, error) {
	id, err := b.cb.Execute(func() (string, error) {
		return b.next.Send(ctx, to, msg)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", ErrProviderUnavailable
	}
	return id, err
}

// State is the current breaker state.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}
