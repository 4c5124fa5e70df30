package idempotency

import (
	"context"
	"time"
)

// Record captures the outcome of a processed request so that a retry
// carrying the same Idempotency-Key can be answered with the original
// response instead of being executed again.
type Record struct {
	Key          string    `json:"key"`
	RequestHash  string    `json:"request_hash"`
	ResponseData string    `json:"response_data"`
	StatusCode   int       `json:"status_code"`
	ProcessedAt  time.Time `json:"processed_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// IsExpired reports whether the record is past its TTL
func (r *Record) IsExpired() bool {
	return time.Now().After(r.ExpiresAt)
}

// Repository defines storage for idempotency records. GetByKey returns
// (nil, nil) when the key is unknown.
type Repository interface {
	Create(ctx context.Context, record *Record) error
	GetByKey(ctx context.Context, key string) (*Record, error)
	Delete(ctx context.Context, key string) error
}
