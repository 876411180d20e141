// Package services – audit recording
//
// Diffs are computed over an explicit list of lead fields, comparing the
// representation each field has in the store: tags as the joined string,
// budgets as integers, optional strings as nil when absent.
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-leads-backend/internal/domain"
	"github.com/tbourn/go-leads-backend/internal/repo"
)

type auditField struct {
	name  string
	value func(domain.BuyerFields) any
}

var auditFields = []auditField{
	{"fullName", func(f domain.BuyerFields) any { return f.FullName }},
	{"email", func(f domain.BuyerFields) any { return optString(f.Email) }},
	{"phone", func(f domain.BuyerFields) any { return f.Phone }},
	{"city", func(f domain.BuyerFields) any { return string(f.City) }},
	{"propertyType", func(f domain.BuyerFields) any { return string(f.PropertyType) }},
	{"bhk", func(f domain.BuyerFields) any {
		if f.BHK == nil {
			return nil
		}
		return string(*f.BHK)
	}},
	{"purpose", func(f domain.BuyerFields) any { return string(f.Purpose) }},
	{"budgetMin", func(f domain.BuyerFields) any { return optInt(f.BudgetMin) }},
	{"budgetMax", func(f domain.BuyerFields) any { return optInt(f.BudgetMax) }},
	{"timeline", func(f domain.BuyerFields) any { return string(f.Timeline) }},
	{"source", func(f domain.BuyerFields) any { return string(f.Source) }},
	{"status", func(f domain.BuyerFields) any { return string(f.Status) }},
	{"notes", func(f domain.BuyerFields) any { return f.Notes }},
	{"tags", func(f domain.BuyerFields) any { return f.Tags.String() }},
}

func optString(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func optInt(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}

// Diff returns the fields whose stored representation differs between prev
// and next. An empty map means the update changes nothing.
func Diff(prev, next domain.BuyerFields) map[string]domain.FieldChange {
	out := make(map[string]domain.FieldChange)
	for _, af := range auditFields {
		from, to := af.value(prev), af.value(next)
		if from != to {
			out[af.name] = domain.FieldChange{From: from, To: to}
		}
	}
	return out
}

// recordFields writes a created/imported entry carrying the submitted fields.
func recordFields(ctx context.Context, tx *gorm.DB, b *domain.Buyer, action domain.HistoryAction, by string) error {
	f := b.Fields()
	return repo.CreateHistory(ctx, tx, &domain.BuyerHistory{
		BuyerID:   b.ID,
		ChangedBy: by,
		ChangedAt: b.UpdatedAt,
		Diff:      domain.HistoryDiff{Action: action, Fields: &f},
	})
}

// recordChanges writes an updated entry, or nothing when changes is empty.
func recordChanges(ctx context.Context, tx *gorm.DB, b *domain.Buyer, changes map[string]domain.FieldChange, by string) error {
	if len(changes) == 0 {
		return nil
	}
	return repo.CreateHistory(ctx, tx, &domain.BuyerHistory{
		BuyerID:   b.ID,
		ChangedBy: by,
		ChangedAt: b.UpdatedAt,
		Diff:      domain.HistoryDiff{Action: domain.ActionUpdated, Changes: changes},
	})
}
