package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRelayDown = errors.New("dial tcp: connection refused")

func testBreaker(cooldown time.Duration) (*Breaker, *time.Time) {
	b := NewBreaker(BreakerConfig{FailureThreshold: 3, ProbeSuccesses: 2, Cooldown: cooldown})
	clock := time.Now()
	b.now = func() time.Time { return clock }
	return b, &clock
}

func TestBreakerSuspendsAfterConsecutiveFailures(t *testing.T) {
	b, _ := testBreaker(time.Minute)

	for i := 0; i < 3; i++ {
		require.Error(t, b.Deliver(func() error { return errRelayDown }))
	}
	assert.Equal(t, BreakerOpen, b.State())

	dialed := false
	err := b.Deliver(func() error { dialed = true; return nil })
	assert.ErrorIs(t, err, ErrMailerUnavailable)
	assert.False(t, dialed, "suspended breaker must not dial the relay")
}

func TestBreakerSuccessResetsFailureStreak(t *testing.T) {
	b, _ := testBreaker(time.Minute)

	require.Error(t, b.Deliver(func() error { return errRelayDown }))
	require.Error(t, b.Deliver(func() error { return errRelayDown }))
	require.NoError(t, b.Deliver(func() error { return nil }))

	// Two more failures are not three consecutive ones.
	require.Error(t, b.Deliver(func() error { return errRelayDown }))
	require.Error(t, b.Deliver(func() error { return errRelayDown }))
	assert.Equal(t, BreakerClosed, b.State())
}

func TestBreakerResumesAfterCooldownProbes(t *testing.T) {
	b, clock := testBreaker(time.Minute)

	for i := 0; i < 3; i++ {
		_ = b.Deliver(func() error { return errRelayDown })
	}
	require.Equal(t, BreakerOpen, b.State())

	*clock = clock.Add(time.Minute)
	assert.Equal(t, BreakerProbing, b.State())

	require.NoError(t, b.Deliver(func() error { return nil }))
	require.NoError(t, b.Deliver(func() error { return nil }))
	assert.Equal(t, BreakerClosed, b.State())
}

func TestBreakerFailedProbeSuspendsAgain(t *testing.T) {
	b, clock := testBreaker(time.Minute)

	for i := 0; i < 3; i++ {
		_ = b.Deliver(func() error { return errRelayDown })
	}
	*clock = clock.Add(time.Minute)
	require.Equal(t, BreakerProbing, b.State())

	require.Error(t, b.Deliver(func() error { return errRelayDown }))
	assert.Equal(t, BreakerOpen, b.State())

	err := b.Deliver(func() error { return nil })
	assert.ErrorIs(t, err, ErrMailerUnavailable)
}
