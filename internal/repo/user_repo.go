package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-leads-backend/internal/domain"
)

// GetUser fetches a user by ID, or ErrNotFound.
func GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// OwnerSummaries returns the public view of every user in ids, keyed by ID.
// Unknown IDs are absent from the map.
func OwnerSummaries(ctx context.Context, db *gorm.DB, ids []string) (map[string]domain.OwnerSummary, error) {
	out := make(map[string]domain.OwnerSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []domain.OwnerSummary
	err := db.WithContext(ctx).
		Model(&domain.User{}).
		Select("id", "name", "email").
		Where("id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.ID] = r
	}
	return out, nil
}

// GetUserByEmail fetches a user by (case-insensitive) email, or ErrNotFound.
func GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	var u domain.User
	err := db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// EnsureUser returns the user with email, creating it on first sight. A
// non-empty name overwrites the stored one. Concurrent first sign-ins for
// the same email converge on one row.
func EnsureUser(ctx context.Context, db *gorm.DB, email, name string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	u, err := GetUserByEmail(ctx, db, email)
	switch {
	case err == nil:
		if name != "" && name != u.Name {
			if err := db.WithContext(ctx).Model(u).Update("name", name).Error; err != nil {
				return nil, err
			}
			u.Name = name
		}
		return u, nil
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	u = &domain.User{ID: uuid.NewString(), Email: email, Name: name, CreatedAt: time.Now().UTC()}
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			return GetUserByEmail(ctx, db, email)
		}
		return nil, err
	}
	return u, nil
}
