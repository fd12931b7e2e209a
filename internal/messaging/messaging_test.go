package messaging

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	var calls atomic.Int32
	failing := SenderFunc(func(ctx context.Context, to string, msg Message) (string, error) {
		calls.Add(1)
		return "", errors.New("provider 500")
	})

	b := NewBreaker("sms", failing, BreakerSettings{FailureThreshold: 3, Timeout: time.Minute}, zap.NewNop())

	for i := 0; i < 3; i++ {
		_, err := b.Send(context.Background(), "+14045551234", Message{Text: "hi"})
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, b.State())

	_, err := b.Send(context.Background(), "+14045551234", Message{Text: "hi"})
	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Equal(t, int32(3), calls.Load())
}

func TestBreaker_PassesThroughSuccess(t *testing.T) {
	ok := SenderFunc(func(ctx context.Context, to string, msg Message) (string, error) {
		return "SM123", nil
	})
	b := NewBreaker("sms", ok, BreakerSettings{}, zap.NewNop())

	id, err := b.Send(context.Background(), "+14045551234", Message{Text: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "SM123", id)
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestNewThrottled_DisabledReturnsNext(t *testing.T) {
	next := SenderFunc(func(ctx context.Context, to string, msg Message) (string, error) {
		return "id", nil
	})
	s := NewThrottled(next, 0, 1)
	_, isThrottled := s.(*Throttled)
	assert.False(t, isThrottled)
}

func TestThrottled_CancelledContext(t *testing.T) {
	next := SenderFunc(func(ctx context.Context, to string, msg Message) (string, error) {
		return "id", nil
	})
	s := NewThrottled(next, 0.001, 1)

	// the first send takes the only token
	_, err := s.Send(context.Background(), "a", Message{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Send(ctx, "a", Message{})
	assert.Error(t, err)
}

func TestBreaker_RecipientRejectionsDoNotTrip(t *testing.T) {
	var calls atomic.Int32
	rejecting := SenderFunc(func(ctx context.Context, to string, msg Message) (string, error) {
		calls.Add(1)
		return "", RejectRecipient(errors.New("invalid To number"))
	})

	b := NewBreaker("sms", rejecting, BreakerSettings{FailureThreshold: 2, Timeout: time.Minute}, zap.NewNop())

	for i := 0; i < 5; i++ {
		_, err := b.Send(context.Background(), "+14045551234", Message{Text: "hi"})
		require.ErrorIs(t, err, ErrRecipientRejected)
	}
	assert.Equal(t, gobreaker.StateClosed, b.State())
	assert.Equal(t, int32(5), calls.Load())
}

func TestBreaker_HalfOpenAdmitsConfiguredTrials(t *testing.T) {
	var healthy atomic.Bool
	next := SenderFunc(func(ctx context.Context, to string, msg Message) (string, error) {
		if !healthy.Load() {
			return "", errors.New("provider 503")
		}
		return "ok", nil
	})

	b := NewBreaker("sms", next, BreakerSettings{FailureThreshold: 1, Timeout: 10 * time.Millisecond, HalfOpenRequests: 3}, zap.NewNop())

	_, err := b.Send(context.Background(), "a", Message{})
	require.Error(t, err)
	require.Equal(t, gobreaker.StateOpen, b.State())

	healthy.Store(true)
	time.Sleep(20 * time.Millisecond)

	for i := 0; i < 3; i++ {
		_, err := b.Send(context.Background(), "a", Message{})
		require.NoError(t, err)
	}
	assert.Equal(t, gobreaker.StateClosed, b.State())
}
