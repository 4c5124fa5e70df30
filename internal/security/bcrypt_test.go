package security

import (
	"errors"
	"strings"
	"testing"

	"usermgmt/internal/domain/user"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	digest, err := hasher.Hash("password123")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if digest == "password123" {
		t.Fatal("Digest must not equal the plaintext")
	}

	if strings.Contains(digest, "password123") {
		t.Fatal("Digest must not contain the plaintext")
	}

	if !hasher.Verify("password123", digest) {
		t.Error("Expected Verify to accept the original plaintext")
	}

	if hasher.Verify("password124", digest) {
		t.Error("Expected Verify to reject a different plaintext")
	}
}

func TestBcryptHasher_DistinctSalts(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	first, err := hasher.Hash("password123")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	second, err := hasher.Hash("password123")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if first == second {
		t.Error("Two hashes of the same plaintext must not be identical")
	}

	if !hasher.Verify("password123", first) || !hasher.Verify("password123", second) {
		t.Error("Both digests must verify against the plaintext")
	}
}

func TestBcryptHasher_EmptyPlaintext(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	if _, err := hasher.Hash(""); err == nil {
		t.Error("Expected error for empty plaintext")
	}
}

func TestBcryptHasher_OverlongPlaintext(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	// 72 bytes is the bcrypt input limit and still hashable
	digest, err := hasher.Hash(strings.Repeat("a", 72))
	if err != nil {
		t.Fatalf("Expected 72-byte plaintext to hash, got %v", err)
	}
	if !hasher.Verify(strings.Repeat("a", 72), digest) {
		t.Error("Expected 72-byte plaintext to verify")
	}

	// One byte over the limit is invalid input, not an internal failure
	_, err = hasher.Hash(strings.Repeat("a", 73))
	var validationErr *user.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("Expected *ValidationError for 73-byte plaintext, got %v", err)
	}
	if validationErr.Field != "password" {
		t.Errorf("Expected error on password, got %s", validationErr.Field)
	}
}

func TestBcryptHasher_VerifyNeverFails(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	if hasher.Verify("", "digest") {
		t.Error("Expected false for empty plaintext")
	}

	if hasher.Verify("password123", "") {
		t.Error("Expected false for empty digest")
	}

	if hasher.Verify("password123", "not-a-bcrypt-digest") {
		t.Error("Expected false for malformed digest")
	}
}

func TestNewBcryptHasher_CostFallback(t *testing.T) {
	hasher := NewBcryptHasher(99)

	if hasher.cost != DefaultBcryptCost {
		t.Errorf("Expected cost %d, got %d", DefaultBcryptCost, hasher.cost)
	}
}
