package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"usermgmt/internal/domain/user"

	"github.com/google/uuid"
)

var _ user.UserRepository = (*MemoryUserRepository)(nil)

// MemoryUserRepository is an in-memory implementation of UserRepository used
// by the tests and as the fallback when no database is configured. It
// enforces the same uniqueness rules as the postgres indexes.
type MemoryUserRepository struct {
	users map[uuid.UUID]*user.User
	mutex sync.RWMutex
}

// NewMemoryUserRepository creates a new in-memory user repository
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[uuid.UUID]*user.User),
	}
}

// Create stores a new user, generating its ID
func (r *MemoryUserRepository) Create(_ context.Context, u *user.User) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, existing := range r.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return user.ErrDuplicateKey
		}
	}

	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	clone := *u
	r.users[u.ID] = &clone
	return nil
}

// GetByID retrieves a user by ID
func (r *MemoryUserRepository) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	u, exists := r.users[id]
	if !exists {
		return nil, nil
	}

	clone := *u
	return &clone, nil
}

// GetByUsername retrieves a user by its normalized username
func (r *MemoryUserRepository) GetByUsername(_ context.Context, username string) (*user.User, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, u := range r.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}

	return nil, nil
}

// GetByEmail retrieves a user by its normalized email
func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*user.User, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}

	return nil, nil
}

// ExistsByUsername reports whether a user exists with the normalized username
func (r *MemoryUserRepository) ExistsByUsername(_ context.Context, username string) (bool, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}

	return false, nil
}

// ExistsByEmail reports whether a user exists with the normalized email
func (r *MemoryUserRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}

	return false, nil
}

// Update overwrites an existing user
func (r *MemoryUserRepository) Update(_ context.Context, u *user.User) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.users[u.ID]; !exists {
		return nil
	}

	for id, existing := range r.users {
		if id == u.ID {
			continue
		}
		if existing.Username == u.Username || existing.Email == u.Email {
			return user.ErrDuplicateKey
		}
	}

	clone := *u
	r.users[u.ID] = &clone
	return nil
}

// Delete permanently removes a user by ID
func (r *MemoryUserRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	delete(r.users, id)
	return nil
}

// ListAll returns all users ordered by creation time, then id
func (r *MemoryUserRepository) ListAll(_ context.Context) ([]*user.User, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.collect(func(*user.User) bool { return true }), nil
}

// ListActive returns all users that are not soft-deleted
func (r *MemoryUserRepository) ListActive(_ context.Context) ([]*user.User, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.collect(func(u *user.User) bool { return u.Active }), nil
}

// SearchByUsername returns users whose username contains the normalized
// fragment
func (r *MemoryUserRepository) SearchByUsername(_ context.Context, fragment string) ([]*user.User, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.collect(func(u *user.User) bool {
		return strings.Contains(u.Username, fragment)
	}), nil
}

// ListByEmailDomain returns users whose email belongs to the given domain
func (r *MemoryUserRepository) ListByEmailDomain(_ context.Context, domain string) ([]*user.User, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.collect(func(u *user.User) bool {
		return strings.HasSuffix(u.Email, "@"+domain)
	}), nil
}

// collect snapshots matching users sorted by (CreatedAt, ID), matching the
// ordering of the postgres repository. Callers must hold the read lock.
func (r *MemoryUserRepository) collect(match func(*user.User) bool) []*user.User {
	users := make([]*user.User, 0, len(r.users))
	for _, u := range r.users {
		if match(u) {
			clone := *u
			users = append(users, &clone)
		}
	}

	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID.String() < users[j].ID.String()
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})

	return users
}
