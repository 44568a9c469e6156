// Package password wraps bcrypt hashing behind a concurrency gate so a burst
// of logins cannot saturate every CPU with hash work.
package password

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// bcryptCost keeps a single hash in the hundreds of milliseconds on current
// hardware.
const bcryptCost = 12

// Hasher hashes and verifies passwords. Safe for concurrent use.
type Hasher struct {
	sem *semaphore.Weighted
}

// NewHasher creates a Hasher that runs at most GOMAXPROCS bcrypt operations
// concurrently; additional callers queue.
func NewHasher() *Hasher {
	return &Hasher{
		sem: semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0))),
	}
}

// Hash derives a bcrypt hash from the plaintext password. It blocks while
// the concurrency gate is full, honoring ctx cancellation while queued.
func (h *Hasher) Hash(ctx context.Context, plaintext string) (string, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("acquire hash slot: %w", err)
	}
	defer h.sem.Release(1)

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches the stored hash. Malformed hashes
// verify as false rather than erroring; a corrupt credential must behave
// like a wrong password.
func (h *Hasher) Verify(ctx context.Context, hash, plaintext string) (bool, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false, fmt.Errorf("acquire hash slot: %w", err)
	}
	defer h.sem.Release(1)

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	return err == nil, nil
}
