package user

import (
	"time"

	"github.com/google/uuid"
)

// User represents a persisted user account. The Password field only ever
// holds a bcrypt digest; plaintext is discarded inside the Factory.
type User struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Username  string    `json:"username" gorm:"size:16;not null;uniqueIndex:idx_users_username"`
	Email     string    `json:"email" gorm:"size:30;not null;uniqueIndex:idx_users_email"`
	Password  string    `json:"-" gorm:"not null"`
	Active    bool      `json:"is_active" gorm:"column:is_active"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime:false"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime:false"`
}

// TableName overrides the default gorm table name
func (User) TableName() string {
	return "users"
}

// CreateUserRequest represents the request to create a user. Only presence
// is checked at the transport layer; format and length constraints run in
// the domain validator after normalization, so padded input is not rejected
// before it is trimmed.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest represents the request to update a user.
// Absent or empty fields leave the stored value unchanged; supplied fields
// are validated by the service after normalization.
type UpdateUserRequest struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

// UserResponse is the outward shape of a user. It has no password field,
// so the digest cannot leak through serialization.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Active    bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
