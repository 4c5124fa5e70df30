package user

import (
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	UsernameMinLen = 3
	UsernameMaxLen = 16
	EmailMaxLen    = 30
	PasswordMinLen = 8
)

// Validator enforces the format and length constraints on the three user
// input fields. It never touches storage. Checks run in order (username,
// email, password) and the first failure wins.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new field validator
func NewValidator() *Validator {
	return &Validator{
		validate: validator.New(),
	}
}

// Validate checks username, email and password in that order and returns
// the first *ValidationError encountered, or nil.
func (v *Validator) Validate(username, email, password string) error {
	if err := v.ValidateUsername(username); err != nil {
		return err
	}
	if err := v.ValidateEmail(email); err != nil {
		return err
	}
	return v.ValidatePassword(password)
}

// ValidateUsername checks the username constraints post-normalization
func (v *Validator) ValidateUsername(username string) error {
	name := Normalize(username)
	if name == "" {
		return &ValidationError{Field: "username", Reason: "is required"}
	}
	if n := utf8.RuneCountInString(name); n < UsernameMinLen || n > UsernameMaxLen {
		return &ValidationError{Field: "username", Reason: "must be between 3 and 16 characters"}
	}
	return nil
}

// ValidateEmail checks the email constraints post-normalization
func (v *Validator) ValidateEmail(email string) error {
	addr := Normalize(email)
	if addr == "" {
		return &ValidationError{Field: "email", Reason: "is required"}
	}
	if utf8.RuneCountInString(addr) > EmailMaxLen {
		return &ValidationError{Field: "email", Reason: "must not exceed 30 characters"}
	}
	if err := v.validate.Var(addr, "email"); err != nil {
		return &ValidationError{Field: "email", Reason: "must be a valid email address"}
	}
	return nil
}

// ValidatePassword checks the plaintext password constraints. No upper
// bound is enforced here; the hasher rejects plaintexts over bcrypt's
// 72-byte input limit.
func (v *Validator) ValidatePassword(password string) error {
	if password == "" {
		return &ValidationError{Field: "password", Reason: "is required"}
	}
	if utf8.RuneCountInString(password) < PasswordMinLen {
		return &ValidationError{Field: "password", Reason: "must be at least 8 characters"}
	}
	return nil
}
