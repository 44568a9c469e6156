package lockout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicy_OnFailure_BelowThreshold(t *testing.T) {
	p := NewPolicy(5, 30*time.Minute)
	now := time.Now()

	for current := 0; current < 4; current++ {
		d := p.OnFailure(current, now)
		assert.Equal(t, current+1, d.FailedAttempts)
		assert.Nil(t, d.LockedUntil, "failure %d must not lock", current+1)
	}
}

func TestPolicy_OnFailure_ThresholdLocks(t *testing.T) {
	p := NewPolicy(5, 30*time.Minute)
	now := time.Now()

	d := p.OnFailure(4, now)
	require.NotNil(t, d.LockedUntil)
	assert.Equal(t, 5, d.FailedAttempts)
	assert.Equal(t, now.Add(30*time.Minute), *d.LockedUntil)
}

func TestPolicy_OnFailure_BeyondThresholdRelocks(t *testing.T) {
	p := NewPolicy(5, 30*time.Minute)
	now := time.Now()

	d := p.OnFailure(7, now)
	require.NotNil(t, d.LockedUntil)
	assert.Equal(t, 8, d.FailedAttempts)
}

func TestPolicy_IsLocked(t *testing.T) {
	p := NewPolicy(5, 30*time.Minute)
	now := time.Now()
	active := now.Add(time.Minute)
	elapsed := now.Add(-time.Second)

	assert.True(t, p.IsLocked(&active, now))
	assert.False(t, p.IsLocked(&elapsed, now))
	assert.False(t, p.IsLocked(nil, now))
}
