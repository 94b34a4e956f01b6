package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestComposite_NoChecks(t *testing.T) {
	defer goleak.VerifyNone(t)

	status := NewComposite("v1").Check(context.Background())

	assert.True(t, status.Healthy)
	assert.Equal(t, "v1", status.Version)
	assert.Empty(t, status.Checks)
}

func TestComposite_AggregatesFailures(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := NewComposite("v1")
	c.AddPinger("database", pingerFunc(func(context.Context) error { return nil }))
	c.AddPinger("redis", pingerFunc(func(context.Context) error { return errors.New("connection refused") }))

	status := c.Check(context.Background())

	assert.False(t, status.Healthy)
	assert.Equal(t, "failed: redis", status.Message)
	assert.True(t, status.Checks["database"].Healthy)
	assert.Equal(t, "connection refused", status.Checks["redis"].Message)
}

func TestComposite_Timeout(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := NewComposite("v1")
	c.SetTimeout(20 * time.Millisecond)
	c.Add("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	status := c.Check(context.Background())

	assert.False(t, status.Healthy)
	assert.Contains(t, status.Checks["slow"].Message, "deadline exceeded")
}
