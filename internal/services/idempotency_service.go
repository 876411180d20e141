// Package services – IdempotencyService
//
// IdempotencyService remembers which resource a client-supplied
// Idempotency-Key produced, so a retried POST can be answered with the
// original result instead of creating a duplicate.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-leads-backend/internal/repo"
)

// IdempotencyService stores and resolves idempotency records.
type IdempotencyService struct {
	DB  *gorm.DB
	TTL time.Duration

	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

func (s *IdempotencyService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Lookup returns the resource stored for (userID, scope, key) if the record
// has not expired.
func (s *IdempotencyService) Lookup(ctx context.Context, userID, scope, key string, now time.Time) (string, bool, error) {
	rec, err := repo.GetIdempotency(ctx, s.DB, userID, scope, key, now)
	if errors.Is(err, repo.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return rec.ResourceID, true, nil
}

// Remember records that key produced resourceID with the given HTTP status.
// A concurrent request that already stored the same key wins; that is not an
// error.
func (s *IdempotencyService) Remember(ctx context.Context, userID, scope, key, resourceID string, status int) error {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	_, err := repo.CreateIdempotency(ctx, s.DB, userID, scope, key, resourceID, status, ttl)
	if errors.Is(err, repo.ErrDuplicate) {
		return nil
	}
	return err
}

// Purge deletes expired records and returns how many were removed.
func (s *IdempotencyService) Purge(ctx context.Context) (int64, error) {
	return repo.PurgeExpiredIdempotency(ctx, s.DB, s.now())
}
