package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccount_HasLocalCredential(t *testing.T) {
	hash := "$2a$12$abcdefghijklmnopqrstuv"
	empty := ""

	assert.True(t, (&Account{PasswordHash: &hash}).HasLocalCredential())
	assert.False(t, (&Account{PasswordHash: nil}).HasLocalCredential())
	assert.False(t, (&Account{PasswordHash: &empty}).HasLocalCredential())
}

func TestAccount_IsLocked(t *testing.T) {
	now := time.Now()
	future := now.Add(10 * time.Minute)
	past := now.Add(-10 * time.Minute)

	assert.True(t, (&Account{LockedUntil: &future}).IsLocked(now))
	assert.False(t, (&Account{LockedUntil: &past}).IsLocked(now))
	assert.False(t, (&Account{}).IsLocked(now))
}
