package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func fail(context.Context) error    { return errBoom }
func succeed(context.Context) error { return nil }

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	var transitions []State
	cb := New("test",
		WithFailureThreshold(2),
		WithTimeout(time.Second),
		WithClock(clock.now),
		WithOnStateChange(func(_ string, _, to State) { transitions = append(transitions, to) }),
	)
	ctx := context.Background()

	assert.ErrorIs(t, cb.Execute(ctx, fail), errBoom)
	assert.Equal(t, StateClosed, cb.State())
	assert.ErrorIs(t, cb.Execute(ctx, fail), errBoom)
	assert.True(t, cb.IsOpen())

	called := false
	err := cb.Execute(ctx, func(context.Context) error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)

	clock.advance(time.Second)
	require.NoError(t, cb.Execute(ctx, succeed))
	require.NoError(t, cb.Execute(ctx, succeed))
	assert.Equal(t, StateClosed, cb.State())

	assert.Equal(t, []State{StateOpen, StateHalfOpen, StateClosed}, transitions)
}

func TestCircuitBreaker_FailedProbeReopens(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	cb := New("test", WithFailureThreshold(1), WithTimeout(time.Second), WithClock(clock.now))
	ctx := context.Background()

	_ = cb.Execute(ctx, fail)
	clock.advance(2 * time.Second)
	assert.ErrorIs(t, cb.Execute(ctx, fail), errBoom)
	assert.True(t, cb.IsOpen())
	assert.ErrorIs(t, cb.Execute(ctx, succeed), ErrCircuitOpen)
}

func TestCircuitBreaker_IsFailureFilter(t *testing.T) {
	ignored := errors.New("not found")
	cb := New("test", WithFailureThreshold(1), WithIsFailure(func(err error) bool { return !errors.Is(err, ignored) }))

	_ = cb.Execute(context.Background(), func(context.Context) error { return ignored })
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, 1, cb.Counts().TotalSuccesses)
}

func TestCircuitBreaker_Fallback(t *testing.T) {
	cb := New("test", WithFailureThreshold(1))
	ctx := context.Background()
	_ = cb.Execute(ctx, fail)

	var fallbackErr error
	err := cb.ExecuteWithFallback(ctx, succeed, func(err error) error {
		fallbackErr = err
		return nil
	})
	require.NoError(t, err)
	assert.True(t, IsRejected(fallbackErr))

	cb.Reset()
	assert.Equal(t, StateClosed, cb.State())
	assert.Zero(t, cb.Counts().Requests)
}
