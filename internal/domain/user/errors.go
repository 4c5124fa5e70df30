package user

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrDuplicateKey is returned by repositories when the storage layer rejects
// a write because of a unique constraint on username or email. The service
// translates it into an AlreadyExistsError.
var ErrDuplicateKey = errors.New("duplicate key")

// ValidationError reports a malformed input field
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// AlreadyExistsError reports a uniqueness conflict on username or email
type AlreadyExistsError struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("user already exists with %s: %s", e.Field, e.Value)
}

// NotFoundError reports that no user matched the given id or username
type NotFoundError struct {
	ID       uuid.UUID
	Username string
}

func (e *NotFoundError) Error() string {
	if e.Username != "" {
		return fmt.Sprintf("user not found with username: %s", e.Username)
	}
	return fmt.Sprintf("user not found with id: %s", e.ID)
}
