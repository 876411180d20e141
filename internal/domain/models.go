// Package domain defines the persistence models for buyer leads, their
// change history, and the users that own them. These types are mapped with
// GORM and form the core data layer of the leads application.
package domain

import (
	"time"
)

// Buyer is a real-estate buyer lead owned by the user that created it.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Email, BHK, BudgetMin, BudgetMax: optional; nil means absent.
//   - Tags: ordered set persisted as a single comma-delimited column.
//   - OwnerID: creator; the only user allowed to mutate or delete the lead.
//   - CreatedAt: assigned once on insert.
//   - UpdatedAt: advances on every write and doubles as the optimistic
//     concurrency token. Managed by the service layer, not by GORM.
type Buyer struct {
	ID           string       `json:"id"           gorm:"type:char(36);primaryKey"`
	FullName     string       `json:"fullName"     gorm:"type:varchar(80);not null;index:idx_buyers_full_name"`
	Email        *string      `json:"email"        gorm:"type:varchar(254)"`
	Phone        string       `json:"phone"        gorm:"type:varchar(15);not null;index:idx_buyers_phone"`
	City         City         `json:"city"         gorm:"type:varchar(16);not null;index:idx_buyers_city"`
	PropertyType PropertyType `json:"propertyType" gorm:"type:varchar(16);not null;index:idx_buyers_property_type"`
	BHK          *BHK         `json:"bhk"          gorm:"column:bhk;type:varchar(8)"`
	Purpose      Purpose      `json:"purpose"      gorm:"type:varchar(8);not null;check:purpose IN ('Buy','Rent')"`
	BudgetMin    *int64       `json:"budgetMin"`
	BudgetMax    *int64       `json:"budgetMax"`
	Timeline     Timeline     `json:"timeline"     gorm:"type:varchar(16);not null;index:idx_buyers_timeline"`
	Source       Source       `json:"source"       gorm:"type:varchar(16);not null"`
	Status       Status       `json:"status"       gorm:"type:varchar(16);not null;default:New;index:idx_buyers_status"`
	Notes        string       `json:"notes"        gorm:"type:text;not null;default:''"`
	Tags         Tags         `json:"tags"         gorm:"type:text;not null;default:''"`
	OwnerID      string       `json:"ownerId"      gorm:"type:char(36);not null;index:idx_buyers_owner"`
	CreatedAt    time.Time    `json:"createdAt"    gorm:"not null;autoCreateTime:false;index:idx_buyers_created_at"`
	UpdatedAt    time.Time    `json:"updatedAt"    gorm:"not null;autoUpdateTime:false;index:idx_buyers_updated_at"`

	// Owner is filled in for API responses only.
	Owner *OwnerSummary `json:"owner,omitempty" gorm:"-"`
}

// TableName returns the database table name for Buyer.
func (Buyer) TableName() string { return "buyers" }

// Fields returns the user-editable portion of b.
func (b Buyer) Fields() BuyerFields {
	return BuyerFields{
		FullName:     b.FullName,
		Email:        b.Email,
		Phone:        b.Phone,
		City:         b.City,
		PropertyType: b.PropertyType,
		BHK:          b.BHK,
		Purpose:      b.Purpose,
		BudgetMin:    b.BudgetMin,
		BudgetMax:    b.BudgetMax,
		Timeline:     b.Timeline,
		Source:       b.Source,
		Status:       b.Status,
		Notes:        b.Notes,
		Tags:         b.Tags,
	}
}

// Apply overwrites every user-editable field of b with f.
func (b *Buyer) Apply(f BuyerFields) {
	b.FullName = f.FullName
	b.Email = f.Email
	b.Phone = f.Phone
	b.City = f.City
	b.PropertyType = f.PropertyType
	b.BHK = f.BHK
	b.Purpose = f.Purpose
	b.BudgetMin = f.BudgetMin
	b.BudgetMax = f.BudgetMax
	b.Timeline = f.Timeline
	b.Source = f.Source
	b.Status = f.Status
	b.Notes = f.Notes
	b.Tags = f.Tags
}

// BuyerFields is the validated, user-editable shape of a lead. It is what the
// validation layer produces and what history entries record for creates and
// imports.
type BuyerFields struct {
	FullName     string       `json:"fullName"`
	Email        *string      `json:"email,omitempty"`
	Phone        string       `json:"phone"`
	City         City         `json:"city"`
	PropertyType PropertyType `json:"propertyType"`
	BHK          *BHK         `json:"bhk,omitempty"`
	Purpose      Purpose      `json:"purpose"`
	BudgetMin    *int64       `json:"budgetMin,omitempty"`
	BudgetMax    *int64       `json:"budgetMax,omitempty"`
	Timeline     Timeline     `json:"timeline"`
	Source       Source       `json:"source"`
	Status       Status       `json:"status"`
	Notes        string       `json:"notes,omitempty"`
	Tags         Tags         `json:"tags,omitempty"`
}

// User is an authenticated principal. Leads reference it through OwnerID and
// history entries through ChangedBy.
type User struct {
	ID        string    `json:"id"        gorm:"type:char(36);primaryKey"`
	Email     string    `json:"email"     gorm:"type:varchar(254);not null;uniqueIndex:ux_users_email"`
	Name      string    `json:"name"      gorm:"type:varchar(80);not null;default:''"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// OwnerSummary is the public view of a lead's owner embedded in responses.
type OwnerSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Timestamp normalizes t to the precision the store round-trips exactly.
// Every persisted CreatedAt, UpdatedAt and ChangedAt passes through it.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
