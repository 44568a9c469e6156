// Package token generates and digests one-time secret tokens used for
// password reset and email verification links.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// rawBytes is the entropy of a one-time token before encoding.
const rawBytes = 32

// Generate returns a fresh one-time token as (raw, digest). The raw value is
// sent to the account holder exactly once and never stored; only the digest
// is persisted, so a database leak exposes nothing redeemable.
func Generate() (raw string, digest string, err error) {
	buf := make([]byte, rawBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("generate one-time token: %w", err)
	}
	raw = hex.EncodeToString(buf)
	return raw, Digest(raw), nil
}

// Digest returns the stored form of a raw token.
func Digest(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
