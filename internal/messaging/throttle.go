package messaging

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// Throttled spaces sends to a provider with a token bucket.
type Throttled struct {
	next    Sender
	limiter *rate.Limiter
}

// NewThrottled allows perSecond sends per second. perSecond <= 0 returns next
// unchanged.
func NewThrottled(next Sender, perSecond float64, burst int) Sender {
	if perSecond <= 0 {
		return next
	}
	if burst < 1 {
		burst = 1
	}
	return &Throttled{next: next, limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

func (t *Throttled) Send(ctx context.Context, to string, msg Message) (string, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("wait for send slot: %w", err)
	}
	return t.next.Send(ctx, to, msg)
}
