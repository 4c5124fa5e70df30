package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"usermgmt/internal/domain/user"

	"github.com/google/uuid"
)

func storedUser(username, email string, createdAt time.Time) *user.User {
	return &user.User{
		Username:  username,
		Email:     email,
		Password:  "$2a$04$digest",
		Active:    true,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestMemoryUserRepository_CreateAssignsID(t *testing.T) {
	repo := NewMemoryUserRepository()

	u := storedUser("alice", "alice@example.com", time.Now())
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if u.ID == uuid.Nil {
		t.Error("Expected Create to assign a generated ID")
	}
}

func TestMemoryUserRepository_DuplicateCreate(t *testing.T) {
	repo := NewMemoryUserRepository()

	now := time.Now()
	if err := repo.Create(context.Background(), storedUser("alice", "alice@example.com", now)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	err := repo.Create(context.Background(), storedUser("alice", "other@example.com", now))
	if !errors.Is(err, user.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey for duplicate username, got %v", err)
	}

	err = repo.Create(context.Background(), storedUser("bob", "alice@example.com", now))
	if !errors.Is(err, user.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey for duplicate email, got %v", err)
	}
}

func TestMemoryUserRepository_UpdateDuplicate(t *testing.T) {
	repo := NewMemoryUserRepository()

	now := time.Now()
	alice := storedUser("alice", "alice@example.com", now)
	bob := storedUser("bob", "bob@example.com", now)
	if err := repo.Create(context.Background(), alice); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := repo.Create(context.Background(), bob); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	bob.Username = "alice"
	if err := repo.Update(context.Background(), bob); !errors.Is(err, user.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey on conflicting update, got %v", err)
	}
}

func TestMemoryUserRepository_LookupsReturnNilOnMiss(t *testing.T) {
	repo := NewMemoryUserRepository()

	u, err := repo.GetByID(context.Background(), uuid.New())
	if err != nil || u != nil {
		t.Errorf("Expected (nil, nil), got (%v, %v)", u, err)
	}

	u, err = repo.GetByUsername(context.Background(), "ghost")
	if err != nil || u != nil {
		t.Errorf("Expected (nil, nil), got (%v, %v)", u, err)
	}

	u, err = repo.GetByEmail(context.Background(), "ghost@example.com")
	if err != nil || u != nil {
		t.Errorf("Expected (nil, nil), got (%v, %v)", u, err)
	}
}

func TestMemoryUserRepository_ListOrdering(t *testing.T) {
	repo := NewMemoryUserRepository()

	base := time.Now()
	for i, name := range []string{"carol", "alice", "bob"} {
		u := storedUser(name, name+"@example.com", base.Add(time.Duration(i)*time.Second))
		if err := repo.Create(context.Background(), u); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
	}

	users, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("Expected 3 users, got %d", len(users))
	}

	// Ordered by creation time, matching the postgres repository
	want := []string{"carol", "alice", "bob"}
	for i, u := range users {
		if u.Username != want[i] {
			t.Errorf("Expected %s at position %d, got %s", want[i], i, u.Username)
		}
	}
}

func TestMemoryUserRepository_SearchAndDomain(t *testing.T) {
	repo := NewMemoryUserRepository()

	now := time.Now()
	for _, spec := range [][2]string{
		{"alice", "alice@example.com"},
		{"malice", "malice@other.org"},
		{"bob", "bob@example.com"},
	} {
		if err := repo.Create(context.Background(), storedUser(spec[0], spec[1], now)); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
	}

	matches, err := repo.SearchByUsername(context.Background(), "ali")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("Expected 2 matches for ali, got %d", len(matches))
	}

	domainUsers, err := repo.ListByEmailDomain(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(domainUsers) != 2 {
		t.Errorf("Expected 2 users in example.com, got %d", len(domainUsers))
	}
}

func TestMemoryUserRepository_ClonesOnRead(t *testing.T) {
	repo := NewMemoryUserRepository()

	u := storedUser("alice", "alice@example.com", time.Now())
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	read, _ := repo.GetByID(context.Background(), u.ID)
	read.Username = "mallory"

	again, _ := repo.GetByID(context.Background(), u.ID)
	if again.Username != "alice" {
		t.Error("Expected mutation of a read result to not affect the store")
	}
}
