package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-leads-backend/internal/domain"
	"github.com/tbourn/go-leads-backend/internal/repo"
)

// withOwners sets Owner on every lead whose owner is a known user.
func withOwners(ctx context.Context, db *gorm.DB, items []domain.Buyer) error {
	ids := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, b := range items {
		if !seen[b.OwnerID] {
			seen[b.OwnerID] = true
			ids = append(ids, b.OwnerID)
		}
	}
	owners, err := repo.OwnerSummaries(ctx, db, ids)
	if err != nil {
		return err
	}
	for i := range items {
		if o, ok := owners[items[i].OwnerID]; ok {
			items[i].Owner = &o
		}
	}
	return nil
}

func withOwner(ctx context.Context, db *gorm.DB, b *domain.Buyer) error {
	one := []domain.Buyer{*b}
	if err := withOwners(ctx, db, one); err != nil {
		return err
	}
	b.Owner = one[0].Owner
	return nil
}
