package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/tbourn/go-leads-backend/internal/domain"
	"github.com/tbourn/go-leads-backend/internal/leadcsv"
	"github.com/tbourn/go-leads-backend/internal/repo"
)

const importHeader = "fullName,email,phone,city,propertyType,bhk,purpose,budgetMin,budgetMax,timeline,source,notes,tags,status\n"

func TestImport_PartialSuccess(t *testing.T) {
	s := newBuyerSvc(t)
	ctx := context.Background()
	doc := importHeader +
		"Asha Rao,asha@example.com,9876543210,Mohali,Apartment,2,Buy,100,200,0-3m,Website,,\"urgent,hot\",\n" +
		"Bad Phone,,12ab,Mohali,Plot,,Buy,,,3-6m,Call,,,\n" +
		"Ravi Kumar,,9123456789,Other,Office,,Rent,,,Exploring,Walk-in,first visit,,Qualified\n"

	res, err := s.Import(ctx, "u1", strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Imported != 2 || res.Total != 3 {
		t.Fatalf("imported=%d total=%d", res.Imported, res.Total)
	}
	if res.Message != "Successfully imported 2 buyers" {
		t.Fatalf("message = %q", res.Message)
	}
	if len(res.Errors) != 1 || res.Errors[0].Row != 3 {
		t.Fatalf("expected one error on row 3, got %+v", res.Errors)
	}
	if !strings.HasPrefix(res.Errors[0].Errors[0], "phone: ") {
		t.Fatalf("error should name the field: %v", res.Errors[0].Errors)
	}

	items, _, _ := s.List(ctx, ListQuery{Sort: repo.BuyerSort{Field: "fullName"}})
	if len(items) != 2 || items[0].FullName != "Asha Rao" || items[0].Tags.String() != "urgent,hot" {
		t.Fatalf("unexpected stored leads: %+v", items)
	}
	if items[1].Status != domain.StatusQualified || items[0].Status != domain.StatusNew || items[0].OwnerID != "u1" {
		t.Fatalf("status/owner not applied: %+v", items)
	}

	h, _ := s.History(ctx, items[0].ID)
	if len(h) != 1 || h[0].Diff.Action != domain.ActionImported {
		t.Fatalf("expected one imported history entry, got %+v", h)
	}
}

func TestImport_TooManyRowsHasNoSideEffects(t *testing.T) {
	s := newBuyerSvc(t)
	var b strings.Builder
	b.WriteString(importHeader)
	for i := 0; i < 201; i++ {
		fmt.Fprintf(&b, "Lead %d,,90000%05d,Mohali,Plot,,Buy,,,3-6m,Call,,,\n", i, i)
	}

	_, err := s.Import(context.Background(), "u1", strings.NewReader(b.String()))
	if !errors.Is(err, ErrTooManyRows) {
		t.Fatalf("expected ErrTooManyRows, got %v", err)
	}
	if n, _ := repo.CountBuyers(context.Background(), s.DB, repo.BuyerFilter{}); n != 0 {
		t.Fatalf("no rows should be stored, got %d", n)
	}
}

func TestImport_NoValidRows(t *testing.T) {
	s := newBuyerSvc(t)
	doc := importHeader + "X,,1,Nowhere,Plot,,Buy,,,3-6m,Call,,,\n"

	res, err := s.Import(context.Background(), "u1", strings.NewReader(doc))
	if !errors.Is(err, ErrNoValidRows) {
		t.Fatalf("expected ErrNoValidRows, got %v", err)
	}
	if res == nil || res.Imported != 0 || res.Total != 1 || len(res.Errors) != 1 || res.Errors[0].Row != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Message != "No valid rows to import" {
		t.Fatalf("message = %q", res.Message)
	}
}

func TestImport_MalformedAndOversized(t *testing.T) {
	s := newBuyerSvc(t)
	ctx := context.Background()

	_, err := s.Import(ctx, "u1", strings.NewReader(importHeader+"only,three,cells\n"))
	if !errors.Is(err, ErrCSVParse) || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("expected ErrCSVParse with line detail, got %v", err)
	}

	_, err = s.Import(ctx, "u1", strings.NewReader(importHeader+"\"unterminated,\n"))
	if !errors.Is(err, ErrCSVParse) {
		t.Fatalf("expected ErrCSVParse, got %v", err)
	}

	s.MaxImportBytes = 10
	if _, err := s.Import(ctx, "u1", strings.NewReader(importHeader)); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestCheckUpload(t *testing.T) {
	s := newBuyerSvc(t)
	cases := []struct {
		name, ct string
		size     int64
		want     error
	}{
		{"leads.csv", "application/octet-stream", 10, nil},
		{"leads.CSV", "", 10, nil},
		{"upload", "text/csv; charset=utf-8", 10, nil},
		{"upload", "application/vnd.ms-excel", 10, nil},
		{"leads.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", 10, ErrNotCSV},
		{"leads.csv", "text/csv", 6 << 20, ErrTooLarge},
	}
	for _, tc := range cases {
		if got := s.CheckUpload(tc.name, tc.ct, tc.size); !errors.Is(got, tc.want) {
			t.Fatalf("CheckUpload(%q, %q, %d) = %v, want %v", tc.name, tc.ct, tc.size, got, tc.want)
		}
	}
}

func TestExport_FiltersQuotingAndReimport(t *testing.T) {
	s := newBuyerSvc(t)
	ctx := context.Background()

	in := validInput()
	in.Tags = []string{"urgent", "hot"}
	in.Notes = `said "call back", maybe`
	if _, err := s.Create(ctx, "u1", in); err != nil {
		t.Fatalf("Create: %v", err)
	}
	other := validInput()
	other.City = "Panchkula"
	other.Email = "p@example.com"
	if _, err := s.Create(ctx, "u1", other); err != nil {
		t.Fatalf("Create: %v", err)
	}

	var buf bytes.Buffer
	n, err := s.Export(ctx, &buf, ListQuery{Filter: repo.BuyerFilter{City: domain.CityMohali}})
	if err != nil || n != 1 {
		t.Fatalf("Export = %d, %v", n, err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, strings.Join(leadcsv.Header, ",")+"\n") {
		t.Fatalf("missing header: %q", out)
	}
	if !strings.Contains(out, `"urgent,hot"`) || !strings.Contains(out, `"said ""call back"", maybe"`) {
		t.Fatalf("expected quoted cells: %q", out)
	}

	// Export output is importable and round-trips tags.
	s2 := newBuyerSvc(t)
	res, err := s2.Import(ctx, "u2", strings.NewReader(out))
	if err != nil || res.Imported != 1 {
		t.Fatalf("re-import = %+v, %v", res, err)
	}
	items, _, _ := s2.List(ctx, ListQuery{})
	if got := []string(items[0].Tags); len(got) != 2 || got[0] != "urgent" || got[1] != "hot" {
		t.Fatalf("tags did not round-trip: %v", got)
	}
	if items[0].Notes != in.Notes {
		t.Fatalf("notes did not round-trip: %q", items[0].Notes)
	}
}

func TestExport_EmptyStillHasHeader(t *testing.T) {
	s := newBuyerSvc(t)
	var buf bytes.Buffer
	n, err := s.Export(context.Background(), &buf, ListQuery{})
	if err != nil || n != 0 {
		t.Fatalf("Export = %d, %v", n, err)
	}
	if buf.String() != strings.Join(leadcsv.Header, ",")+"\n" {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestExportFilename(t *testing.T) {
	at := time.Date(2024, 5, 9, 23, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))
	if got := ExportFilename(at); got != "buyers-export-2024-05-09.csv" {
		t.Fatalf("ExportFilename = %q", got)
	}
}

func TestImport_HistoryFailureRollsBack(t *testing.T) {
	s := newBuyerSvc(t)
	ctx := context.Background()
	if err := s.DB.Exec("DROP TABLE buyer_history").Error; err != nil {
		t.Fatalf("drop history: %v", err)
	}

	csvBody := importHeader +
		"Asha Rao,,9876543210,Mohali,Apartment,2,Buy,,,0-3m,Website,,,\n" +
		"Ravi Kumar,,9876543211,Zirakpur,Plot,,Buy,,,3-6m,Call,,,\n"
	if _, err := s.Import(ctx, "u1", strings.NewReader(csvBody)); err == nil {
		t.Fatalf("expected error when history cannot be written")
	}
	if n, _ := repo.CountBuyers(ctx, s.DB, repo.BuyerFilter{}); n != 0 {
		t.Fatalf("import must be all-or-nothing, got %d stored", n)
	}
}

func TestExport_ReadErrorWritesNothing(t *testing.T) {
	s := newBuyerSvc(t)
	ctx := context.Background()
	if _, err := s.Create(ctx, "u1", validInput()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	for _, table := range []string{"buyer_history", "buyers"} {
		if err := s.DB.Migrator().DropTable(table); err != nil {
			t.Fatalf("drop %s: %v", table, err)
		}
	}

	var buf bytes.Buffer
	if _, err := s.Export(ctx, &buf, ListQuery{}); err == nil {
		t.Fatalf("expected export error")
	}
	if buf.Len() != 0 {
		t.Fatalf("nothing should reach the writer on failure, got %q", buf.String())
	}
}
