package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var t0 = time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)

func TestBreaker_StartsClosedAndAllows(t *testing.T) {
	b := New("provider")

	assert.Equal(t, "provider", b.Name())
	assert.Equal(t, StateClosed, b.State())
	assert.False(t, b.IsOpen())
	assert.True(t, b.Allow(t0))
}

func TestBreaker_OpensOnConsecutiveFailures(t *testing.T) {
	b := New("provider", WithFailureThreshold(3))

	fallback, change := b.RecordFailure(t0)
	assert.False(t, fallback)
	assert.Equal(t, Change{}, change)

	fallback, change = b.RecordFailure(t0)
	assert.False(t, fallback)
	assert.Equal(t, Change{}, change)

	fallback, change = b.RecordFailure(t0)
	assert.True(t, fallback)
	assert.True(t, change.Opened)
	assert.True(t, b.IsOpen())
	assert.False(t, b.Allow(t0))
}

func TestBreaker_SuccessClearsFailureStreak(t *testing.T) {
	b := New("provider", WithFailureThreshold(3))

	b.RecordFailure(t0)
	b.RecordFailure(t0)
	b.RecordSuccess()

	b.RecordFailure(t0)
	b.RecordFailure(t0)
	assert.False(t, b.IsOpen())

	b.RecordFailure(t0)
	assert.True(t, b.IsOpen())
}

func TestBreaker_AllowsCallsAfterCooldown(t *testing.T) {
	b := New("provider", WithFailureThreshold(1), WithCooldown(30*time.Second))

	b.RecordFailure(t0)
	assert.True(t, b.IsOpen())

	assert.False(t, b.Allow(t0))
	assert.False(t, b.Allow(t0.Add(29*time.Second)))
	assert.True(t, b.Allow(t0.Add(30*time.Second)))

	// Letting calls through does not close the circuit by itself.
	assert.True(t, b.IsOpen())
}

func TestBreaker_ClosesAfterSuccessesWhileOpen(t *testing.T) {
	b := New("provider",
		WithFailureThreshold(1),
		WithSuccessThreshold(2),
		WithCooldown(time.Second))

	b.RecordFailure(t0)
	retryAt := t0.Add(time.Second)
	assert.True(t, b.Allow(retryAt))

	primary, change := b.RecordSuccess()
	assert.False(t, primary)
	assert.Equal(t, Change{}, change)
	assert.True(t, b.IsOpen())

	primary, change = b.RecordSuccess()
	assert.True(t, primary)
	assert.True(t, change.Closed)
	assert.False(t, b.IsOpen())
	assert.True(t, b.Allow(retryAt))
}

func TestBreaker_FailureWhileOpenReArmsCooldown(t *testing.T) {
	b := New("provider",
		WithFailureThreshold(1),
		WithSuccessThreshold(3),
		WithCooldown(30*time.Second))

	b.RecordFailure(t0)
	retryAt := t0.Add(30 * time.Second)
	assert.True(t, b.Allow(retryAt))

	b.RecordSuccess()
	b.RecordSuccess()

	// A failure while open throws away the success streak and restarts
	// the cooldown from the failure instant.
	fallback, change := b.RecordFailure(retryAt)
	assert.True(t, fallback)
	assert.Equal(t, Change{}, change)
	assert.True(t, b.IsOpen())
	assert.False(t, b.Allow(retryAt.Add(29*time.Second)))
	assert.True(t, b.Allow(retryAt.Add(30*time.Second)))

	b.RecordSuccess()
	b.RecordSuccess()
	assert.True(t, b.IsOpen())
	b.RecordSuccess()
	assert.False(t, b.IsOpen())
}

func TestBreaker_ResetForcesClosed(t *testing.T) {
	b := New("provider", WithFailureThreshold(1))

	b.RecordFailure(t0)
	assert.True(t, b.IsOpen())

	b.Reset()
	assert.Equal(t, StateClosed, b.State())
	assert.True(t, b.Allow(t0))
}
