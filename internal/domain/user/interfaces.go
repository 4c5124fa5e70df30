package user

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user data access.
// Lookup methods return (nil, nil) when no record matches; writes that
// violate the username/email unique constraints return ErrDuplicateKey.
// Usernames and emails passed in are expected to be normalized already.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListAll(ctx context.Context) ([]*User, error)
	ListActive(ctx context.Context) ([]*User, error)
	SearchByUsername(ctx context.Context, fragment string) ([]*User, error)
	ListByEmailDomain(ctx context.Context, domain string) ([]*User, error)
}

// UserService defines the interface for user business logic
type UserService interface {
	CreateUser(ctx context.Context, req *CreateUserRequest) (*UserResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*UserResponse, error)
	GetUserByUsername(ctx context.Context, username string) (*UserResponse, error)
	ListUsers(ctx context.Context) ([]*UserResponse, error)
	ListActiveUsers(ctx context.Context) ([]*UserResponse, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req *UpdateUserRequest) (*UserResponse, error)
	DeactivateUser(ctx context.Context, id uuid.UUID) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
	SearchUsersByUsername(ctx context.Context, fragment string) ([]*UserResponse, error)
	UserExistsByUsername(ctx context.Context, username string) (bool, error)
	UserExistsByEmail(ctx context.Context, email string) (bool, error)
	ListUsersByEmailDomain(ctx context.Context, domain string) ([]*UserResponse, error)
}

// PasswordHasher is the strategy for turning plaintext passwords into salted
// one-way digests. Hash salts every call, so two digests of the same
// plaintext never compare equal; only Verify may compare them.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}
