package repo

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-leads-backend/internal/domain"
)

// newRepoDB opens a throwaway file-backed SQLite database with foreign keys
// enforced on every pooled connection.
func newRepoDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), fmt.Sprintf("repo_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(path+"?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func newLeadsDB(t *testing.T) *gorm.DB {
	t.Helper()
	return newRepoDB(t, &domain.User{}, &domain.Buyer{}, &domain.BuyerHistory{})
}

func strp(s string) *string { return &s }

// seedBuyer inserts a minimal valid lead; mut may adjust it first.
func seedBuyer(t *testing.T, db *gorm.DB, id string, at time.Time, mut func(*domain.Buyer)) *domain.Buyer {
	t.Helper()
	ts := domain.Timestamp(at)
	b := &domain.Buyer{
		ID:           id,
		FullName:     "Lead " + id,
		Phone:        "9000000000",
		City:         domain.CityChandigarh,
		PropertyType: domain.PropertyPlot,
		Purpose:      domain.PurposeBuy,
		Timeline:     domain.TimelineExploring,
		Source:       domain.SourceWebsite,
		Status:       domain.StatusNew,
		OwnerID:      "owner-1",
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	if mut != nil {
		mut(b)
	}
	if err := db.Create(b).Error; err != nil {
		t.Fatalf("seed buyer %s: %v", id, err)
	}
	return b
}
