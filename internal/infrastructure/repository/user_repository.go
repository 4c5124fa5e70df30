package repository

import (
	"context"
	"errors"
	"strings"

	"usermgmt/internal/domain/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var _ user.UserRepository = (*GormUserRepository)(nil)

// GormUserRepository is the postgres-backed user repository. The unique
// indexes on username and email are the storage backstop for the service's
// uniqueness pre-checks.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new gorm user repository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{
		db: db,
	}
}

// Create inserts a new user, generating its ID
func (r *GormUserRepository) Create(ctx context.Context, u *user.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return translateDuplicate(err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *GormUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	var u user.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// GetByUsername retrieves a user by its normalized username
func (r *GormUserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	var u user.User
	err := r.db.WithContext(ctx).First(&u, "username = ?", username).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// GetByEmail retrieves a user by its normalized email
func (r *GormUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var u user.User
	err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// ExistsByUsername reports whether a user exists with the normalized username
func (r *GormUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&user.User{}).Where("username = ?", username).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByEmail reports whether a user exists with the normalized email
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&user.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update persists all fields of an existing user
func (r *GormUserRepository) Update(ctx context.Context, u *user.User) error {
	if err := r.db.WithContext(ctx).Save(u).Error; err != nil {
		return translateDuplicate(err)
	}
	return nil
}

// Delete permanently removes a user by ID
func (r *GormUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&user.User{}, "id = ?", id).Error
}

// ListAll returns all users ordered by creation time, then id, so that
// listings are stable across calls
func (r *GormUserRepository) ListAll(ctx context.Context) ([]*user.User, error) {
	var users []*user.User
	err := r.db.WithContext(ctx).Order("created_at, id").Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// ListActive returns all users that are not soft-deleted
func (r *GormUserRepository) ListActive(ctx context.Context) ([]*user.User, error) {
	var users []*user.User
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("created_at, id").Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// SearchByUsername returns users whose username contains the fragment.
// Stored usernames are already lower-cased, so a plain LIKE on a normalized
// fragment is case-insensitive.
func (r *GormUserRepository) SearchByUsername(ctx context.Context, fragment string) ([]*user.User, error) {
	var users []*user.User
	err := r.db.WithContext(ctx).
		Where("username LIKE ?", "%"+fragment+"%").
		Order("created_at, id").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// ListByEmailDomain returns users whose email belongs to the given domain
func (r *GormUserRepository) ListByEmailDomain(ctx context.Context, domain string) ([]*user.User, error) {
	var users []*user.User
	err := r.db.WithContext(ctx).
		Where("email LIKE ?", "%@"+domain).
		Order("created_at, id").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// translateDuplicate maps unique-constraint violations onto the domain
// sentinel so the service can turn them into AlreadyExistsError.
func translateDuplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return user.ErrDuplicateKey
	}
	// postgres unique_violation, SQLSTATE 23505
	if strings.Contains(err.Error(), "SQLSTATE 23505") || strings.Contains(err.Error(), "duplicate key value") {
		return user.ErrDuplicateKey
	}
	return err
}
