// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate queries used for
// conditional responses (ETag generation) in the HTTP layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-leads-backend/internal/domain"
)

// BuyersStats returns the number of leads matching f and the greatest
// UpdatedAt among them. When nothing matches, count is 0 and maxUpdatedAt is
// nil.
func BuyersStats(ctx context.Context, db *gorm.DB, f BuyerFilter) (count int64, maxUpdatedAt *time.Time, err error) {
	if count, err = CountBuyers(ctx, db, f); err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	q := f.apply(db.WithContext(ctx).Model(&domain.Buyer{}))
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}

// HistoryStats returns the number of history entries for a lead and the
// newest ChangedAt.
func HistoryStats(ctx context.Context, db *gorm.DB, buyerID string) (count int64, latest *time.Time, err error) {
	if count, err = CountHistory(ctx, db, buyerID); err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}
	var row struct {
		ChangedAt time.Time
	}
	q := db.WithContext(ctx).Model(&domain.BuyerHistory{}).Where("buyer_id = ?", buyerID)
	if err = q.Select("changed_at").Order("changed_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.ChangedAt, nil
}
