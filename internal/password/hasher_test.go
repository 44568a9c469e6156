package password

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasher_HashAndVerify(t *testing.T) {
	h := NewHasher()
	ctx := context.Background()

	hash, err := h.Hash(ctx, "Correct-Horse-1!")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2a$12$"))

	ok, err := h.Verify(ctx, hash, "Correct-Horse-1!")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify(ctx, hash, "wrong-password")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasher_HashesAreSalted(t *testing.T) {
	h := NewHasher()
	ctx := context.Background()

	h1, err := h.Hash(ctx, "same-password-1!A")
	require.NoError(t, err)
	h2, err := h.Hash(ctx, "same-password-1!A")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestHasher_MalformedHashVerifiesFalse(t *testing.T) {
	h := NewHasher()

	ok, err := h.Verify(context.Background(), "not-a-bcrypt-hash", "anything")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasher_CancelledContextWhileQueued(t *testing.T) {
	h := NewHasher()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A cancelled context can still fail fast even when a slot is free.
	_, err := h.Hash(ctx, "whatever-1!A")
	assert.Error(t, err)
}
