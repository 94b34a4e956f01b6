// Package retry runs an operation again with exponential backoff and jitter.
// It is used to survive short outages of the database and cache at startup.
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// ERROR CLASSIFICATION
// ══════════════════════════════════════════════════════════════════════════════

type classifiedError struct {
	err       error
	retryable bool
}

func (e *classifiedError) Error() string { return e.err.Error() }
func (e *classifiedError) Unwrap() error { return e.err }

// Retryable marks err as worth another attempt.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &classifiedError{err: err, retryable: true}
}

// Permanent marks err as final. Do stops immediately and returns the inner error.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &classifiedError{err: err, retryable: false}
}

// IsRetryable reports whether err was marked with Retryable.
func IsRetryable(err error) bool {
	var ce *classifiedError
	return errors.As(err, &ce) && ce.retryable
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var ce *classifiedError
	return errors.As(err, &ce) && !ce.retryable
}

func unwrapClassified(err error) error {
	var ce *classifiedError
	if errors.As(err, &ce) {
		return ce.err
	}
	return err
}

// ══════════════════════════════════════════════════════════════════════════════
// POLICY
// ══════════════════════════════════════════════════════════════════════════════

// Policy describes how many times and how often an operation is retried.
type Policy struct {
	// MaxAttempts includes the first attempt.
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	// Jitter is a fraction of the delay in [0, 1].
	Jitter float64

	// ShouldRetry decides for unmarked errors. When nil only Retryable errors are retried.
	ShouldRetry func(error) bool

	// OnRetry is called before sleeping.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// Option configures a Policy.
type Option func(*Policy)

// WithMaxAttempts sets the number of attempts.
func WithMaxAttempts(n int) Option {
	return func(p *Policy) {
		if n > 0 {
			p.MaxAttempts = n
		}
	}
}

// WithInitialDelay sets the delay before the second attempt.
func WithInitialDelay(d time.Duration) Option {
	return func(p *Policy) {
		if d > 0 {
			p.InitialDelay = d
		}
	}
}

// WithMaxDelay caps the backoff.
func WithMaxDelay(d time.Duration) Option {
	return func(p *Policy) {
		if d > 0 {
			p.MaxDelay = d
		}
	}
}

// WithMultiplier sets the backoff growth factor.
func WithMultiplier(m float64) Option {
	return func(p *Policy) {
		if m >= 1.0 {
			p.Multiplier = m
		}
	}
}

// WithJitter sets the jitter fraction.
func WithJitter(j float64) Option {
	return func(p *Policy) {
		if j >= 0 && j <= 1.0 {
			p.Jitter = j
		}
	}
}

// WithShouldRetry sets a classifier for unmarked errors.
func WithShouldRetry(fn func(error) bool) Option {
	return func(p *Policy) {
		p.ShouldRetry = fn
	}
}

// WithOnRetry sets the retry callback.
func WithOnRetry(fn func(attempt int, err error, delay time.Duration)) Option {
	return func(p *Policy) {
		p.OnRetry = fn
	}
}

// NewPolicy builds a Policy from defaults and options.
func NewPolicy(opts ...Option) Policy {
	p := Policy{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
		Jitter:       0.1,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// Do runs op until it succeeds, returns a non-retryable error,
// runs out of attempts or ctx is done.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return unwrapClassified(lastErr)
			}
			return err
		}

		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if IsPermanent(err) || !p.shouldRetry(err) || attempt == p.MaxAttempts {
			return unwrapClassified(err)
		}

		delay := p.Delay(attempt)
		if p.OnRetry != nil {
			p.OnRetry(attempt, unwrapClassified(err), delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return unwrapClassified(lastErr)
		case <-timer.C:
		}
	}

	return unwrapClassified(lastErr)
}

func (p Policy) shouldRetry(err error) bool {
	if IsRetryable(err) {
		return true
	}
	if p.ShouldRetry != nil {
		return p.ShouldRetry(err)
	}
	return false
}

// Delay returns the wait after the given failed attempt.
func (p Policy) Delay(attempt int) time.Duration {
	base := float64(p.InitialDelay) * math.Pow(p.Multiplier, float64(attempt-1))
	if base > float64(p.MaxDelay) {
		base = float64(p.MaxDelay)
	}
	if p.Jitter > 0 {
		base += base * p.Jitter * (rand.Float64()*2 - 1)
	}
	if base < 0 {
		base = 0
	}
	return time.Duration(base)
}

// Do runs op with a policy built from opts.
func Do(ctx context.Context, op func(ctx context.Context) error, opts ...Option) error {
	return NewPolicy(opts...).Do(ctx, op)
}

// DoValue is Do for operations that produce a value.
func DoValue[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := p.Do(ctx, func(ctx context.Context) error {
		var opErr error
		result, opErr = op(ctx)
		return opErr
	})
	return result, err
}

// ══════════════════════════════════════════════════════════════════════════════
// PRESETS
// ══════════════════════════════════════════════════════════════════════════════

// ConnectPolicy is used while opening database and cache connections.
// Every error is retried since the backing service may still be starting.
func ConnectPolicy(opts ...Option) Policy {
	base := []Option{
		WithMaxAttempts(5),
		WithInitialDelay(200 * time.Millisecond),
		WithMaxDelay(5 * time.Second),
		WithMultiplier(2.0),
		WithJitter(0.2),
		WithShouldRetry(func(error) bool { return true }),
	}
	return NewPolicy(append(base, opts...)...)
}
