package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-leads-backend/internal/domain"
)

// CreateHistory appends an audit entry. The parent lead is never upserted.
func CreateHistory(ctx context.Context, db *gorm.DB, h *domain.BuyerHistory) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return db.WithContext(ctx).Omit(clause.Associations).Create(h).Error
}

// ListHistory returns the newest entries for a lead, most recent first.
func ListHistory(ctx context.Context, db *gorm.DB, buyerID string, limit int) ([]domain.BuyerHistory, error) {
	var out []domain.BuyerHistory
	err := db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("changed_at DESC, id DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CountHistory returns how many entries a lead has.
func CountHistory(ctx context.Context, db *gorm.DB, buyerID string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.BuyerHistory{}).Where("buyer_id = ?", buyerID).Count(&n).Error
	return n, err
}

// DeleteHistory removes every entry for a lead.
func DeleteHistory(ctx context.Context, db *gorm.DB, buyerID string) error {
	return db.WithContext(ctx).Where("buyer_id = ?", buyerID).Delete(&domain.BuyerHistory{}).Error
}
