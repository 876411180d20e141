// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Buyer model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions. They follow the "thin repository"
// approach: no business logic, only persistence and query composition.
//
// Error semantics:
//   - When a lead is not found, functions return gorm.ErrRecordNotFound
//     (exported here as ErrNotFound).
//   - UpdateBuyerIfUnchanged reports a lost compare-and-swap as (false, nil);
//     the caller decides what that means.
//   - Other DB errors are propagated unchanged.
package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-leads-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = gorm.ErrRecordNotFound

// BuyerFilter narrows list and export queries. Empty fields are ignored.
type BuyerFilter struct {
	Search       string // case-insensitive contains on full_name/email, contains on phone
	City         domain.City
	PropertyType domain.PropertyType
	Status       domain.Status
	Timeline     domain.Timeline
}

// BuyerSort orders list and export queries.
type BuyerSort struct {
	Field string // updatedAt|createdAt|fullName
	Desc  bool
}

var sortColumns = map[string]string{
	"updatedAt": "updated_at",
	"createdAt": "created_at",
	"fullName":  "full_name",
}

// SortFieldValid reports whether field is an accepted sort key.
func SortFieldValid(field string) bool {
	_, ok := sortColumns[field]
	return ok
}

func (s BuyerSort) clause() string {
	col, ok := sortColumns[s.Field]
	if !ok {
		col = "updated_at"
	}
	dir := "ASC"
	if s.Desc {
		dir = "DESC"
	}
	return fmt.Sprintf("%s %s, id %s", col, dir, dir)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (f BuyerFilter) apply(q *gorm.DB) *gorm.DB {
	if s := strings.TrimSpace(f.Search); s != "" {
		pat := "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
		q = q.Where(
			`(LOWER(full_name) LIKE ? ESCAPE '\' OR LOWER(COALESCE(email, '')) LIKE ? ESCAPE '\' OR phone LIKE ? ESCAPE '\')`,
			pat, pat, pat,
		)
	}
	if f.City != "" {
		q = q.Where("city = ?", f.City)
	}
	if f.PropertyType != "" {
		q = q.Where("property_type = ?", f.PropertyType)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Timeline != "" {
		q = q.Where("timeline = ?", f.Timeline)
	}
	return q
}

// CreateBuyer inserts b, assigning a UUID when ID is empty. Timestamps must
// already be set by the caller.
func CreateBuyer(ctx context.Context, db *gorm.DB, b *domain.Buyer) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return db.WithContext(ctx).Create(b).Error
}

// GetBuyer fetches a lead by ID, or ErrNotFound.
func GetBuyer(ctx context.Context, db *gorm.DB, id string) (*domain.Buyer, error) {
	var b domain.Buyer
	if err := db.WithContext(ctx).Where("id = ?", id).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// CountBuyers returns how many leads match f.
func CountBuyers(ctx context.Context, db *gorm.DB, f BuyerFilter) (int64, error) {
	var n int64
	err := f.apply(db.WithContext(ctx).Model(&domain.Buyer{})).Count(&n).Error
	return n, err
}

// ListBuyersPage returns one page of leads matching f in the given order.
// The primary key is always the final tiebreaker so pages are stable.
func ListBuyersPage(ctx context.Context, db *gorm.DB, f BuyerFilter, s BuyerSort, offset, limit int) ([]domain.Buyer, error) {
	var out []domain.Buyer
	err := f.apply(db.WithContext(ctx).Model(&domain.Buyer{})).
		Order(s.clause()).
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// StreamBuyers walks every lead matching f in order over a single cursor,
// handing each row to fn. Iteration stops at the first error from fn.
func StreamBuyers(ctx context.Context, db *gorm.DB, f BuyerFilter, s BuyerSort, fn func(domain.Buyer) error) error {
	q := f.apply(db.WithContext(ctx).Model(&domain.Buyer{})).Order(s.clause())
	rows, err := q.Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var b domain.Buyer
		if err := db.ScanRows(rows, &b); err != nil {
			return err
		}
		if err := fn(b); err != nil {
			return err
		}
	}
	return rows.Err()
}

// UpdateBuyerIfUnchanged writes every editable column of b plus its new
// UpdatedAt, but only while the stored updated_at still equals prev. It
// returns false when no row matched.
func UpdateBuyerIfUnchanged(ctx context.Context, db *gorm.DB, b *domain.Buyer, prev time.Time) (bool, error) {
	res := db.WithContext(ctx).
		Model(&domain.Buyer{}).
		Where("id = ? AND updated_at = ?", b.ID, prev).
		Updates(map[string]any{
			"full_name":     b.FullName,
			"email":         b.Email,
			"phone":         b.Phone,
			"city":          b.City,
			"property_type": b.PropertyType,
			"bhk":           b.BHK,
			"purpose":       b.Purpose,
			"budget_min":    b.BudgetMin,
			"budget_max":    b.BudgetMax,
			"timeline":      b.Timeline,
			"source":        b.Source,
			"status":        b.Status,
			"notes":         b.Notes,
			"tags":          b.Tags,
			"updated_at":    b.UpdatedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// DeleteBuyer removes a lead and its history. Run it inside a transaction.
// Returns ErrNotFound if the lead did not exist.
func DeleteBuyer(ctx context.Context, db *gorm.DB, id string) error {
	if err := DeleteHistory(ctx, db, id); err != nil {
		return err
	}
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Buyer{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
