package services

import (
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-leads-backend/internal/domain"
	"github.com/tbourn/go-leads-backend/internal/validation"
)

// ---------- test helpers ----------

func newSvcDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:leadsvc_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
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
	if err := db.AutoMigrate(&domain.User{}, &domain.Buyer{}, &domain.BuyerHistory{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// stepClock returns a clock that advances by one second per call.
func stepClock(start time.Time) func() time.Time {
	at := start
	return func() time.Time {
		at = at.Add(time.Second)
		return at
	}
}

func newBuyerSvc(t *testing.T) *BuyerService {
	t.Helper()
	s := NewBuyerService(newSvcDB(t), validation.New(validation.BHKStrict))
	s.Now = stepClock(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	return s
}

func i64(v int64) *int64 { return &v }

func validInput() validation.BuyerInput {
	return validation.BuyerInput{
		FullName:     "Asha Rao",
		Phone:        "9876543210",
		City:         "Mohali",
		PropertyType: "Apartment",
		BHK:          "2",
		Purpose:      "Buy",
		BudgetMin:    i64(5_000_000),
		BudgetMax:    i64(7_000_000),
		Timeline:     "0-3m",
		Source:       "Website",
		Tags:         []string{"urgent"},
	}
}

// editOf renders b as an update request carrying its concurrency token.
func editOf(b *domain.Buyer) validation.BuyerInput {
	in := validation.ToInput(b.Fields())
	in.UpdatedAt = b.UpdatedAt.Format(time.RFC3339Nano)
	return in
}
