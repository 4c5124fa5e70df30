package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"usermgmt/internal/domain/user"
)

// DefaultBcryptCost matches the work factor the service shipped with.
const DefaultBcryptCost = 12

// maxPasswordBytes is bcrypt's input limit; longer plaintexts make
// GenerateFromPassword fail rather than silently truncate.
const maxPasswordBytes = 72

var _ user.PasswordHasher = (*BcryptHasher)(nil)

// BcryptHasher implements the PasswordHasher strategy with bcrypt. Every
// Hash call draws a fresh random salt, so identical plaintexts produce
// different digests.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a bcrypt hasher with the given work factor.
// Out-of-range costs fall back to DefaultBcryptCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash generates a salted digest for the plaintext password. Plaintexts
// over the bcrypt input limit are reported as invalid input, not as an
// internal failure.
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", errors.New("password must not be empty")
	}
	if len(plaintext) > maxPasswordBytes {
		return "", &user.ValidationError{Field: "password", Reason: "must not exceed 72 bytes"}
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(digest), nil
}

// Verify reports whether plaintext matches the digest. It returns false,
// never an error, on empty or malformed input.
func (h *BcryptHasher) Verify(plaintext, digest string) bool {
	if plaintext == "" || digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
