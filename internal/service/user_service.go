package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"usermgmt/internal/domain/user"
	"usermgmt/pkg/logger"

	"github.com/google/uuid"
)

// userService implements the user.UserService interface. It owns the
// multi-step workflows: uniqueness checks, factory invocation, explicit
// timestamp handling, persistence calls and entity-to-response mapping.
type userService struct {
	userRepo  user.UserRepository
	factory   *user.Factory
	mapper    *user.Mapper
	hasher    user.PasswordHasher
	validator *user.Validator
}

// NewUserService creates a new user service with its collaborators passed
// explicitly; there is no hidden container resolving them.
func NewUserService(userRepo user.UserRepository, factory *user.Factory, mapper *user.Mapper, hasher user.PasswordHasher) user.UserService {
	return &userService{
		userRepo:  userRepo,
		factory:   factory,
		mapper:    mapper,
		hasher:    hasher,
		validator: user.NewValidator(),
	}
}

// CreateUser creates a new user. The username uniqueness check runs before
// the email check, so a request that collides on both reports the username.
func (s *userService) CreateUser(ctx context.Context, req *user.CreateUserRequest) (*user.UserResponse, error) {
	logger.Info("Creating user with username: %s", req.Username)

	username := user.Normalize(req.Username)
	email := user.Normalize(req.Email)

	taken, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		logger.Error("Failed to check username uniqueness: %v", err)
		return nil, fmt.Errorf("failed to check username uniqueness: %w", err)
	}
	if taken {
		return nil, &user.AlreadyExistsError{Field: "username", Value: req.Username}
	}

	taken, err = s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		logger.Error("Failed to check email uniqueness: %v", err)
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if taken {
		return nil, &user.AlreadyExistsError{Field: "email", Value: req.Email}
	}

	u, err := s.factory.Build(req)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrDuplicateKey) {
			// The pre-check passed but a concurrent create won the race;
			// the storage constraint is the backstop.
			return nil, s.conflictFor(ctx, username, email)
		}
		logger.Error("Failed to create user: %v", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Info("User created successfully with ID: %s", u.ID)
	return s.mapper.ToResponse(u), nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(ctx context.Context, id uuid.UUID) (*user.UserResponse, error) {
	logger.Debug("Fetching user with ID: %s", id)

	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		logger.Error("Failed to get user: %v", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return nil, &user.NotFoundError{ID: id}
	}

	return s.mapper.ToResponse(u), nil
}

// GetUserByUsername retrieves a user by its normalized username
func (s *userService) GetUserByUsername(ctx context.Context, username string) (*user.UserResponse, error) {
	logger.Debug("Fetching user with username: %s", username)

	u, err := s.userRepo.GetByUsername(ctx, user.Normalize(username))
	if err != nil {
		logger.Error("Failed to get user by username: %v", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return nil, &user.NotFoundError{Username: username}
	}

	return s.mapper.ToResponse(u), nil
}

// ListUsers retrieves all users
func (s *userService) ListUsers(ctx context.Context) ([]*user.UserResponse, error) {
	logger.Debug("Listing all users")

	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		logger.Error("Failed to list users: %v", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return s.mapper.ToResponseList(users), nil
}

// ListActiveUsers retrieves all users that are not soft-deleted
func (s *userService) ListActiveUsers(ctx context.Context) ([]*user.UserResponse, error) {
	logger.Debug("Listing active users")

	users, err := s.userRepo.ListActive(ctx)
	if err != nil {
		logger.Error("Failed to list active users: %v", err)
		return nil, fmt.Errorf("failed to list active users: %w", err)
	}

	return s.mapper.ToResponseList(users), nil
}

// UpdateUser applies a partial update. Each supplied field is validated and,
// for username/email, rechecked for uniqueness only when the normalized
// value differs from the stored one.
func (s *userService) UpdateUser(ctx context.Context, id uuid.UUID, req *user.UpdateUserRequest) (*user.UserResponse, error) {
	logger.Info("Updating user with ID: %s", id)

	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		logger.Error("Failed to get user for update: %v", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return nil, &user.NotFoundError{ID: id}
	}

	var usernameChanged, emailChanged bool

	if req.Username != nil && *req.Username != "" {
		if err := s.validator.ValidateUsername(*req.Username); err != nil {
			return nil, err
		}
		username := user.Normalize(*req.Username)
		if username != u.Username {
			taken, err := s.userRepo.ExistsByUsername(ctx, username)
			if err != nil {
				return nil, fmt.Errorf("failed to check username uniqueness: %w", err)
			}
			if taken {
				return nil, &user.AlreadyExistsError{Field: "username", Value: *req.Username}
			}
			usernameChanged = true
		}
		u.Username = username
	}

	if req.Email != nil && *req.Email != "" {
		if err := s.validator.ValidateEmail(*req.Email); err != nil {
			return nil, err
		}
		email := user.Normalize(*req.Email)
		if email != u.Email {
			taken, err := s.userRepo.ExistsByEmail(ctx, email)
			if err != nil {
				return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
			}
			if taken {
				return nil, &user.AlreadyExistsError{Field: "email", Value: *req.Email}
			}
			emailChanged = true
		}
		u.Email = email
	}

	if req.Password != nil && *req.Password != "" {
		if err := s.validator.ValidatePassword(*req.Password); err != nil {
			return nil, err
		}
		digest, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, err
		}
		u.Password = digest
	}

	u.UpdatedAt = time.Now().UTC()

	if err := s.userRepo.Update(ctx, u); err != nil {
		if errors.Is(err, user.ErrDuplicateKey) {
			// Only a changed field can have collided; an unchanged
			// username always "exists" because this user holds it.
			switch {
			case usernameChanged && !emailChanged:
				return nil, &user.AlreadyExistsError{Field: "username", Value: u.Username}
			case emailChanged && !usernameChanged:
				return nil, &user.AlreadyExistsError{Field: "email", Value: u.Email}
			default:
				return nil, s.conflictFor(ctx, u.Username, u.Email)
			}
		}
		logger.Error("Failed to update user: %v", err)
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	logger.Info("User updated successfully with ID: %s", u.ID)
	return s.mapper.ToResponse(u), nil
}

// DeactivateUser soft-deletes a user by clearing its active flag
func (s *userService) DeactivateUser(ctx context.Context, id uuid.UUID) error {
	logger.Info("Deactivating user with ID: %s", id)

	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		logger.Error("Failed to get user for deactivation: %v", err)
		return fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return &user.NotFoundError{ID: id}
	}

	u.Active = false
	u.UpdatedAt = time.Now().UTC()

	if err := s.userRepo.Update(ctx, u); err != nil {
		logger.Error("Failed to deactivate user: %v", err)
		return fmt.Errorf("failed to deactivate user: %w", err)
	}

	logger.Info("User deactivated successfully with ID: %s", id)
	return nil
}

// DeleteUser permanently removes a user
func (s *userService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	logger.Info("Deleting user with ID: %s", id)

	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		logger.Error("Failed to get user for deletion: %v", err)
		return fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return &user.NotFoundError{ID: id}
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		logger.Error("Failed to delete user: %v", err)
		return fmt.Errorf("failed to delete user: %w", err)
	}

	logger.Info("User deleted successfully with ID: %s", id)
	return nil
}

// SearchUsersByUsername returns users whose username contains the fragment.
// Stored usernames are normalized, so lower-casing the fragment makes the
// match case-insensitive. No match yields an empty list, not an error.
func (s *userService) SearchUsersByUsername(ctx context.Context, fragment string) ([]*user.UserResponse, error) {
	logger.Debug("Searching users with username containing: %s", fragment)

	users, err := s.userRepo.SearchByUsername(ctx, user.Normalize(fragment))
	if err != nil {
		logger.Error("Failed to search users: %v", err)
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	return s.mapper.ToResponseList(users), nil
}

// UserExistsByUsername reports whether a user exists with the given username
func (s *userService) UserExistsByUsername(ctx context.Context, username string) (bool, error) {
	return s.userRepo.ExistsByUsername(ctx, user.Normalize(username))
}

// UserExistsByEmail reports whether a user exists with the given email
func (s *userService) UserExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.userRepo.ExistsByEmail(ctx, user.Normalize(email))
}

// ListUsersByEmailDomain returns users whose email address belongs to the
// given domain
func (s *userService) ListUsersByEmailDomain(ctx context.Context, domain string) ([]*user.UserResponse, error) {
	logger.Debug("Listing users with email domain: %s", domain)

	users, err := s.userRepo.ListByEmailDomain(ctx, user.Normalize(domain))
	if err != nil {
		logger.Error("Failed to list users by email domain: %v", err)
		return nil, fmt.Errorf("failed to list users by email domain: %w", err)
	}

	return s.mapper.ToResponseList(users), nil
}

// conflictFor resolves which field caused a persist-time unique violation.
// The username check runs first, mirroring the pre-check order.
func (s *userService) conflictFor(ctx context.Context, username, email string) error {
	if taken, err := s.userRepo.ExistsByUsername(ctx, username); err == nil && taken {
		return &user.AlreadyExistsError{Field: "username", Value: username}
	}
	return &user.AlreadyExistsError{Field: "email", Value: email}
}
