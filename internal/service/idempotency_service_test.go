package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"usermgmt/internal/domain/idempotency"
)

// fakeIdempotencyRepo is a map-backed idempotency.Repository for tests
type fakeIdempotencyRepo struct {
	records map[string]*idempotency.Record
}

func newFakeIdempotencyRepo() *fakeIdempotencyRepo {
	return &fakeIdempotencyRepo{records: make(map[string]*idempotency.Record)}
}

func (r *fakeIdempotencyRepo) Create(_ context.Context, record *idempotency.Record) error {
	r.records[record.Key] = record
	return nil
}

func (r *fakeIdempotencyRepo) GetByKey(_ context.Context, key string) (*idempotency.Record, error) {
	return r.records[key], nil
}

func (r *fakeIdempotencyRepo) Delete(_ context.Context, key string) error {
	delete(r.records, key)
	return nil
}

func TestIdempotencyService_ReplayStoredResponse(t *testing.T) {
	svc := NewIdempotencyService(newFakeIdempotencyRepo())
	ctx := context.Background()

	request := map[string]string{"username": "alice"}
	response := map[string]string{"id": "abc"}

	record, duplicate, err := svc.CheckDuplicateRequest(ctx, "key-1", request)
	if err != nil || duplicate || record != nil {
		t.Fatalf("Expected fresh key, got record=%v duplicate=%v err=%v", record, duplicate, err)
	}

	if err := svc.StoreProcessedRequest(ctx, "key-1", request, response, 201); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	record, duplicate, err = svc.CheckDuplicateRequest(ctx, "key-1", request)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !duplicate || record == nil {
		t.Fatal("Expected stored record to be replayed")
	}
	if record.StatusCode != 201 {
		t.Errorf("Expected stored status 201, got %d", record.StatusCode)
	}
}

func TestIdempotencyService_KeyReuseWithDifferentRequest(t *testing.T) {
	svc := NewIdempotencyService(newFakeIdempotencyRepo())
	ctx := context.Background()

	if err := svc.StoreProcessedRequest(ctx, "key-1", map[string]string{"username": "alice"}, nil, 201); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	_, _, err := svc.CheckDuplicateRequest(ctx, "key-1", map[string]string{"username": "bob"})
	if !errors.Is(err, ErrIdempotencyKeyReuse) {
		t.Errorf("Expected ErrIdempotencyKeyReuse for key reuse with different request data, got %v", err)
	}
}

func TestIdempotencyService_ExpiredRecordIgnored(t *testing.T) {
	repo := newFakeIdempotencyRepo()
	svc := NewIdempotencyService(repo)
	ctx := context.Background()

	repo.records["key-1"] = &idempotency.Record{
		Key:       "key-1",
		ExpiresAt: time.Now().Add(-time.Minute),
	}

	record, duplicate, err := svc.CheckDuplicateRequest(ctx, "key-1", nil)
	if err != nil || duplicate || record != nil {
		t.Fatalf("Expected expired record to be ignored, got record=%v duplicate=%v err=%v", record, duplicate, err)
	}
	if _, ok := repo.records["key-1"]; ok {
		t.Error("Expected expired record to be deleted")
	}
}

func TestIdempotencyService_EmptyKeyIsNoop(t *testing.T) {
	svc := NewIdempotencyService(newFakeIdempotencyRepo())
	ctx := context.Background()

	record, duplicate, err := svc.CheckDuplicateRequest(ctx, "", nil)
	if err != nil || duplicate || record != nil {
		t.Error("Expected empty key to be a no-op on lookup")
	}

	if err := svc.StoreProcessedRequest(ctx, "", nil, nil, 201); err != nil {
		t.Error("Expected empty key to be a no-op on store")
	}
}
