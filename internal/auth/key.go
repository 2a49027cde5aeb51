// Package auth generates and verifies the admin API key.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// KeyPrefix starts every generated admin key.
const KeyPrefix = "tr_"

// ErrInvalidKey is returned when a key does not match the configured hash.
var ErrInvalidKey = errors.New("invalid API key")

// GenerateKey creates a new admin key and its bcrypt hash. The raw key is
// 32 random bytes, base64url encoded, with KeyPrefix prepended.
func GenerateKey(cost int) (rawKey, hash string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", fmt.Errorf("generating random bytes: %w", err)
	}

	rawKey = KeyPrefix + base64.RawURLEncoding.EncodeToString(b)

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(rawKey), cost)
	if err != nil {
		return "", "", fmt.Errorf("hashing key: %w", err)
	}

	return rawKey, string(hashBytes), nil
}

// Verify reports whether rawKey matches hash.
func Verify(hash []byte, rawKey string) error {
	return NewVerifier(hash).Verify(rawKey)
}

// Verifier checks keys against one bcrypt hash. The digest of the last key
// that matched is remembered, so repeat requests with it skip bcrypt.
type Verifier struct {
	hash    []byte
	compare func(hash, key []byte) error

	mu       sync.RWMutex
	verified [sha256.Size]byte
	cached   bool
}

// NewVerifier creates a Verifier for hash.
func NewVerifier(hash []byte) *Verifier {
	return &Verifier{hash: hash, compare: bcrypt.CompareHashAndPassword}
}

// Verify reports whether rawKey matches the hash.
func (v *Verifier) Verify(rawKey string) error {
	if rawKey == "" || len(v.hash) == 0 {
		return ErrInvalidKey
	}

	digest := sha256.Sum256([]byte(rawKey))

	v.mu.RLock()
	hit := v.cached && subtle.ConstantTimeCompare(digest[:], v.verified[:]) == 1
	v.mu.RUnlock()
	if hit {
		return nil
	}

	if err := v.compare(v.hash, []byte(rawKey)); err != nil {
		return ErrInvalidKey
	}

	v.mu.Lock()
	v.verified = digest
	v.cached = true
	v.mu.Unlock()
	return nil
}
