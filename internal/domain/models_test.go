package domain

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDomainDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:domain_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Enforce FKs so cascades actually execute.
	db.Exec("PRAGMA foreign_keys=ON;")
	return db
}

func strp(s string) *string { return &s }
func i64(v int64) *int64    { return &v }
func bhkp(b BHK) *BHK       { return &b }

func TestTableNames(t *testing.T) {
	if (Buyer{}).TableName() != "buyers" {
		t.Fatalf("Buyer.TableName() = %q", (Buyer{}).TableName())
	}
	if (BuyerHistory{}).TableName() != "buyer_history" {
		t.Fatalf("BuyerHistory.TableName() = %q", (BuyerHistory{}).TableName())
	}
	if (User{}).TableName() != "users" {
		t.Fatalf("User.TableName() = %q", (User{}).TableName())
	}
}

func TestMigrations_RoundTrip_AndCascade(t *testing.T) {
	db := newDomainDB(t)
	if err := db.AutoMigrate(&User{}, &Buyer{}, &BuyerHistory{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	m := db.Migrator()
	for _, idx := range []string{"idx_buyers_owner", "idx_buyers_updated_at", "idx_buyers_full_name"} {
		if !m.HasIndex(&Buyer{}, idx) {
			t.Fatalf("expected index %s on buyers", idx)
		}
	}
	if !m.HasIndex(&BuyerHistory{}, "idx_history_buyer_changed") {
		t.Fatalf("expected composite history index")
	}

	now := Timestamp(time.Now())
	b := &Buyer{
		ID: "b1", FullName: "Asha Rao", Email: strp("asha@example.com"), Phone: "9876543210",
		City: CityMohali, PropertyType: PropertyApartment, BHK: bhkp(BHK2), Purpose: PurposeBuy,
		BudgetMin: i64(5000000), BudgetMax: i64(7000000), Timeline: Timeline0to3m, Source: SourceWebsite,
		Status: StatusNew, Tags: Tags{"urgent", "hot"}, OwnerID: "u1", CreatedAt: now, UpdatedAt: now,
	}
	if err := db.Create(b).Error; err != nil {
		t.Fatalf("insert buyer: %v", err)
	}

	var got Buyer
	if err := db.First(&got, "id = ?", "b1").Error; err != nil {
		t.Fatalf("load buyer: %v", err)
	}
	if got.Tags.String() != "urgent,hot" || *got.BHK != BHK2 || *got.BudgetMax != 7000000 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if !got.UpdatedAt.Equal(now) {
		t.Fatalf("updatedAt lost precision: got %v want %v", got.UpdatedAt, now)
	}

	h := &BuyerHistory{
		ID: "h1", BuyerID: "b1", ChangedBy: "u1", ChangedAt: now,
		Diff: HistoryDiff{Action: ActionUpdated, Changes: map[string]FieldChange{"status": {From: "New", To: "Qualified"}}},
	}
	if err := db.Omit("Buyer").Create(h).Error; err != nil {
		t.Fatalf("insert history: %v", err)
	}
	var gh BuyerHistory
	if err := db.First(&gh, "id = ?", "h1").Error; err != nil {
		t.Fatalf("load history: %v", err)
	}
	if gh.Diff.Action != ActionUpdated || gh.Diff.Changes["status"].To != "Qualified" {
		t.Fatalf("diff did not round trip: %+v", gh.Diff)
	}

	// CASCADE: deleting the buyer removes its history.
	if err := db.Delete(&Buyer{}, "id = ?", "b1").Error; err != nil {
		t.Fatalf("delete buyer: %v", err)
	}
	var cnt int64
	db.Model(&BuyerHistory{}).Where("buyer_id = ?", "b1").Count(&cnt)
	if cnt != 0 {
		t.Fatalf("expected history to cascade-delete, got %d", cnt)
	}
}

func TestPurposeCheckConstraint(t *testing.T) {
	db := newDomainDB(t)
	if err := db.AutoMigrate(&Buyer{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	now := Timestamp(time.Now())
	bad := &Buyer{ID: "x", FullName: "Ab", Phone: "1234567890", City: CityOther, PropertyType: PropertyPlot,
		Purpose: "Lease", Timeline: TimelineExploring, Source: SourceCall, Status: StatusNew,
		OwnerID: "u", CreatedAt: now, UpdatedAt: now}
	if err := db.Create(bad).Error; err == nil {
		t.Fatalf("expected check constraint violation for purpose")
	}
}

func TestFieldsApply_Symmetric(t *testing.T) {
	f := BuyerFields{FullName: "Ravi", Phone: "1234567890", City: CityOther, PropertyType: PropertyPlot,
		Purpose: PurposeRent, Timeline: TimelineExploring, Source: SourceCall, Status: StatusDropped,
		Notes: "n", Tags: Tags{"a"}, BudgetMin: i64(1)}
	var b Buyer
	b.Apply(f)
	if got := b.Fields(); fmt.Sprintf("%+v", got) != fmt.Sprintf("%+v", f) {
		t.Fatalf("Fields(Apply(f)) != f: %+v vs %+v", got, f)
	}
}

func TestEnums_Valid(t *testing.T) {
	if !CityZirakpur.Valid() || City("Delhi").Valid() {
		t.Fatalf("city validity wrong")
	}
	if !TimelineOver6m.Valid() || Timeline("6m").Valid() {
		t.Fatalf("timeline validity wrong")
	}
	if !SourceWalkIn.Valid() || Source("walk-in").Valid() {
		t.Fatalf("source validity is case-sensitive")
	}
	if !PropertyVilla.RequiresBHK() || PropertyOffice.RequiresBHK() {
		t.Fatalf("RequiresBHK wrong")
	}
	if len(Statuses) != 7 || !StatusNegotiation.Valid() {
		t.Fatalf("statuses wrong")
	}
}

func TestTags_ScanValueJSON(t *testing.T) {
	var tg Tags
	if err := tg.Scan(" a , ,b,"); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if tg.String() != "a,b" {
		t.Fatalf("scan trim/drop failed: %q", tg.String())
	}
	if err := tg.Scan([]byte("x")); err != nil || tg.String() != "x" {
		t.Fatalf("scan bytes failed: %v %q", err, tg)
	}
	if err := tg.Scan(nil); err != nil || tg != nil {
		t.Fatalf("scan nil failed")
	}
	if err := tg.Scan(42); err == nil {
		t.Fatalf("expected error scanning int")
	}
	v, _ := Tags{"urgent", "hot"}.Value()
	if v != "urgent,hot" {
		t.Fatalf("value = %v", v)
	}
	raw, _ := json.Marshal(struct{ T Tags }{})
	if string(raw) != `{"T":[]}` {
		t.Fatalf("nil tags json = %s", raw)
	}
}

func TestTimestamp_TruncatesToMicros(t *testing.T) {
	in := time.Date(2024, 5, 1, 10, 0, 0, 123456789, time.FixedZone("IST", 19800))
	got := Timestamp(in)
	if got.Location() != time.UTC || got.Nanosecond() != 123456000 {
		t.Fatalf("Timestamp = %v", got)
	}
}
