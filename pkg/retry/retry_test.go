package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func fastPolicy(opts ...Option) Policy {
	base := []Option{WithInitialDelay(time.Millisecond), WithMaxDelay(2 * time.Millisecond), WithJitter(0)}
	return NewPolicy(append(base, opts...)...)
}

func TestDo_SucceedsAfterRetryableErrors(t *testing.T) {
	defer goleak.VerifyNone(t)

	calls := 0
	err := fastPolicy(WithMaxAttempts(3)).Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return Retryable(errors.New("temporary"))
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_StopsOnPermanentError(t *testing.T) {
	defer goleak.VerifyNone(t)

	inner := errors.New("bad credentials")
	calls := 0
	err := fastPolicy(WithMaxAttempts(5)).Do(context.Background(), func(context.Context) error {
		calls++
		return Permanent(inner)
	})

	assert.Same(t, inner, err)
	assert.Equal(t, 1, calls)
}

func TestDo_UnmarkedErrorIsNotRetriedByDefault(t *testing.T) {
	defer goleak.VerifyNone(t)

	calls := 0
	err := fastPolicy().Do(context.Background(), func(context.Context) error {
		calls++
		return errors.New("plain")
	})

	assert.EqualError(t, err, "plain")
	assert.Equal(t, 1, calls)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	defer goleak.VerifyNone(t)

	var retried []int
	inner := errors.New("down")
	err := fastPolicy(
		WithMaxAttempts(3),
		WithShouldRetry(func(error) bool { return true }),
		WithOnRetry(func(attempt int, _ error, _ time.Duration) { retried = append(retried, attempt) }),
	).Do(context.Background(), func(context.Context) error {
		return inner
	})

	assert.Same(t, inner, err)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestDo_CancelledContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := fastPolicy().Do(ctx, func(context.Context) error {
		t.Fatal("operation must not run")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDoValue(t *testing.T) {
	calls := 0
	v, err := DoValue(context.Background(), fastPolicy(), func(context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, Retryable(errors.New("again"))
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestPolicy_DelayIsCapped(t *testing.T) {
	p := NewPolicy(WithInitialDelay(10*time.Millisecond), WithMaxDelay(40*time.Millisecond), WithJitter(0))

	assert.Equal(t, 10*time.Millisecond, p.Delay(1))
	assert.Equal(t, 20*time.Millisecond, p.Delay(2))
	assert.Equal(t, 40*time.Millisecond, p.Delay(3))
	assert.Equal(t, 40*time.Millisecond, p.Delay(10))
}

func TestConnectPolicy_RetriesEverything(t *testing.T) {
	p := ConnectPolicy()
	assert.Equal(t, 5, p.MaxAttempts)
	assert.True(t, p.shouldRetry(errors.New("connection refused")))
}
