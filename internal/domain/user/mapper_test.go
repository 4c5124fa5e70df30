package user

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestMapper_ToResponse(t *testing.T) {
	mapper := NewMapper()

	now := time.Now().UTC()
	u := &User{
		ID:        uuid.New(),
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "$2a$12$somedigest",
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	resp := mapper.ToResponse(u)
	if resp == nil {
		t.Fatal("Expected response, got nil")
	}

	if resp.ID != u.ID || resp.Username != u.Username || resp.Email != u.Email {
		t.Error("Expected identity fields to be copied")
	}
	if !resp.Active {
		t.Error("Expected active flag to be copied")
	}
	if !resp.CreatedAt.Equal(now) || !resp.UpdatedAt.Equal(now) {
		t.Error("Expected timestamps to be copied")
	}
}

func TestMapper_ToResponse_Nil(t *testing.T) {
	mapper := NewMapper()

	if resp := mapper.ToResponse(nil); resp != nil {
		t.Errorf("Expected nil for nil user, got %v", resp)
	}
}

func TestMapper_ToResponseList(t *testing.T) {
	mapper := NewMapper()

	if got := mapper.ToResponseList(nil); got == nil || len(got) != 0 {
		t.Errorf("Expected empty non-nil list for nil input, got %v", got)
	}

	users := []*User{
		{ID: uuid.New(), Username: "alice"},
		{ID: uuid.New(), Username: "bob"},
	}

	got := mapper.ToResponseList(users)
	if len(got) != 2 {
		t.Fatalf("Expected 2 responses, got %d", len(got))
	}
	if got[0].Username != "alice" || got[1].Username != "bob" {
		t.Error("Expected element-wise mapping to preserve order")
	}
}

func TestMapper_ResponseNeverSerializesDigest(t *testing.T) {
	mapper := NewMapper()

	u := &User{
		ID:       uuid.New(),
		Username: "alice",
		Email:    "alice@example.com",
		Password: "super-secret-digest",
		Active:   true,
	}

	data, err := json.Marshal(mapper.ToResponse(u))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if strings.Contains(string(data), "super-secret-digest") {
		t.Error("Serialized response must not contain the password digest")
	}
	if strings.Contains(string(data), "password") {
		t.Error("Serialized response must not contain a password field")
	}
}
