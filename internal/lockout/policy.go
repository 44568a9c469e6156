// Package lockout implements the brute-force lockout state machine over an
// account's failure counter.
package lockout

import (
	"time"
)

// Policy decides when consecutive login failures lock an account and for
// how long. The zero value is not usable; construct with NewPolicy.
type Policy struct {
	threshold int
	duration  time.Duration
}

// NewPolicy creates a lockout policy. threshold is the number of consecutive
// failures that triggers a lock; duration is how long the lock holds.
func NewPolicy(threshold int, duration time.Duration) *Policy {
	return &Policy{threshold: threshold, duration: duration}
}

// Decision is the outcome of recording one more failure.
type Decision struct {
	// FailedAttempts is the new consecutive-failure count.
	FailedAttempts int

	// LockedUntil is non-nil when this failure crossed the threshold.
	LockedUntil *time.Time
}

// OnFailure records one more consecutive failure on top of the current count
// and returns the new state. The lock window starts at the failure that
// crosses the threshold, not at the first failure.
func (p *Policy) OnFailure(currentFailures int, now time.Time) Decision {
	attempts := currentFailures + 1
	d := Decision{FailedAttempts: attempts}
	if attempts >= p.threshold {
		until := now.Add(p.duration)
		d.LockedUntil = &until
	}
	return d
}

// IsLocked reports whether a lock recorded as lockedUntil still holds at now.
// An elapsed lock expires lazily; no background job clears it.
func (p *Policy) IsLocked(lockedUntil *time.Time, now time.Time) bool {
	return lockedUntil != nil && now.Before(*lockedUntil)
}

// Threshold returns the configured failure threshold.
func (p *Policy) Threshold() int {
	return p.threshold
}
