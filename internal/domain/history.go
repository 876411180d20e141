package domain

import "time"

// HistoryAction names the mutation a history entry records.
type HistoryAction string

const (
	ActionCreated  HistoryAction = "created"
	ActionUpdated  HistoryAction = "updated"
	ActionImported HistoryAction = "imported"
)

// FieldChange is one changed field. From/To hold the stored representation:
// strings, int64 budgets, or nil when the value is absent.
type FieldChange struct {
	From any `json:"from"`
	To   any `json:"to"`
}

// HistoryDiff is the JSON payload of a history entry. Updates carry Changes;
// creates and imports carry the submitted Fields.
type HistoryDiff struct {
	Action  HistoryAction          `json:"action"`
	Changes map[string]FieldChange `json:"changes,omitempty"`
	Fields  *BuyerFields           `json:"fields,omitempty"`
}

// BuyerHistory is an append-only audit record for a lead. Entries are written
// in the same transaction as the mutation they describe and are removed
// together with their parent.
//
// ChangedAt equals the UpdatedAt the mutation produced, so history ordering
// matches the lead's own version ordering.
type BuyerHistory struct {
	ID        string      `json:"id"        gorm:"type:char(36);primaryKey"`
	BuyerID   string      `json:"buyerId"   gorm:"type:char(36);not null;index:idx_history_buyer_changed,priority:1"`
	ChangedBy string      `json:"changedBy" gorm:"type:char(36);not null"`
	ChangedAt time.Time   `json:"changedAt" gorm:"not null;index:idx_history_buyer_changed,priority:2"`
	Diff      HistoryDiff `json:"diff"      gorm:"type:text;not null;serializer:json"`

	// Owner is the lead's owner, filled in for API responses only.
	Owner *OwnerSummary `json:"owner,omitempty" gorm:"-"`

	Buyer Buyer `json:"-" gorm:"foreignKey:BuyerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for BuyerHistory.
func (BuyerHistory) TableName() string { return "buyer_history" }
