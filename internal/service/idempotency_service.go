package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"usermgmt/internal/domain/idempotency"
	"usermgmt/pkg/logger"
)

// DefaultIdempotencyTTL is how long a processed request stays replayable.
const DefaultIdempotencyTTL = 24 * time.Hour

// ErrIdempotencyKeyReuse is returned when a key is presented again with
// different request data. It is the only client-attributable error from
// CheckDuplicateRequest; everything else is a store failure.
var ErrIdempotencyKeyReuse = errors.New("idempotency key already used with different request data")

// IdempotencyService lets the create endpoint answer retried requests with
// the originally stored response instead of running the create again.
type IdempotencyService struct {
	idempotencyRepo idempotency.Repository
}

// NewIdempotencyService creates a new idempotency service
func NewIdempotencyService(idempotencyRepo idempotency.Repository) *IdempotencyService {
	return &IdempotencyService{
		idempotencyRepo: idempotencyRepo,
	}
}

// CheckDuplicateRequest looks up a previously processed request for the key.
// It returns the stored record and true on a replay with identical request
// data, and an error when the key is reused with different data.
func (s *IdempotencyService) CheckDuplicateRequest(ctx context.Context, key string, requestData any) (*idempotency.Record, bool, error) {
	if key == "" {
		return nil, false, nil
	}

	existing, err := s.idempotencyRepo.GetByKey(ctx, key)
	if err != nil {
		logger.Error("Failed to check idempotency key: %v", err)
		return nil, false, fmt.Errorf("failed to check idempotency key: %w", err)
	}
	if existing == nil {
		return nil, false, nil
	}

	if existing.IsExpired() {
		if err := s.idempotencyRepo.Delete(ctx, key); err != nil {
			logger.Warn("Failed to delete expired idempotency key %s: %v", key, err)
		}
		return nil, false, nil
	}

	if existing.RequestHash != requestHash(requestData) {
		logger.Warn("Idempotency key %s used with different request data", key)
		return nil, false, ErrIdempotencyKeyReuse
	}

	logger.Info("Duplicate request detected for idempotency key: %s", key)
	return existing, true, nil
}

// StoreProcessedRequest records the response produced for the key
func (s *IdempotencyService) StoreProcessedRequest(ctx context.Context, key string, requestData any, responseData any, statusCode int) error {
	if key == "" {
		return nil
	}

	responseJSON, err := json.Marshal(responseData)
	if err != nil {
		logger.Error("Failed to marshal response data for idempotency key %s: %v", key, err)
		return fmt.Errorf("failed to marshal response data: %w", err)
	}

	record := &idempotency.Record{
		Key:          key,
		RequestHash:  requestHash(requestData),
		ResponseData: string(responseJSON),
		StatusCode:   statusCode,
		ProcessedAt:  time.Now(),
		ExpiresAt:    time.Now().Add(DefaultIdempotencyTTL),
	}

	if err := s.idempotencyRepo.Create(ctx, record); err != nil {
		logger.Error("Failed to store idempotency key %s: %v", key, err)
		return fmt.Errorf("failed to store idempotency key: %w", err)
	}

	return nil
}

func requestHash(requestData any) string {
	jsonData, _ := json.Marshal(requestData)
	hash := sha256.Sum256(jsonData)
	return hex.EncodeToString(hash[:])
}
