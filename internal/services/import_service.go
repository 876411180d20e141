// Package services – CSV import
//
// Import parses an uploaded CSV, validates every row with the same rules as
// the JSON API, and inserts the valid rows plus one "imported" history entry
// each inside a single transaction. Invalid rows are reported, not fatal;
// structural CSV errors and row-cap violations abort before anything is
// validated or written.
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/go-leads-backend/internal/domain"
	"github.com/tbourn/go-leads-backend/internal/leadcsv"
	"github.com/tbourn/go-leads-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RowError lists the "field: message" rejections for one CSV row. Row counts
// the header as row 1.
type RowError struct {
	Row    int      `json:"row"`
	Errors []string `json:"errors"`
}

// ImportResult summarizes an import.
type ImportResult struct {
	Message  string     `json:"message"`
	Imported int        `json:"imported"`
	Total    int        `json:"total"`
	Errors   []RowError `json:"errors,omitempty"`
}

var csvContentTypes = map[string]bool{
	"text/csv":                 true,
	"application/csv":          true,
	"application/vnd.ms-excel": true,
}

// CheckUpload rejects files that are neither CSV by content type nor by
// extension, and files larger than MaxImportBytes.
func (s *BuyerService) CheckUpload(filename, contentType string, size int64) error {
	mt, _, _ := mime.ParseMediaType(contentType)
	if !csvContentTypes[strings.ToLower(mt)] && !strings.EqualFold(filepath.Ext(filename), ".csv") {
		return ErrNotCSV
	}
	if s.MaxImportBytes > 0 && size > s.MaxImportBytes {
		return ErrTooLarge
	}
	return nil
}

// Import reads a CSV document from r and stores its valid rows for userID.
//
// On ErrNoValidRows the returned result is non-nil and carries the row
// errors. Any persistence failure rolls back the whole batch.
func (s *BuyerService) Import(ctx context.Context, userID string, r io.Reader) (*ImportResult, error) {
	tr := otel.Tracer("services/BuyerService")
	ctx, span := tr.Start(ctx, "Import",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	src := r
	if s.MaxImportBytes > 0 {
		data, err := io.ReadAll(io.LimitReader(r, s.MaxImportBytes+1))
		if err != nil {
			return nil, err
		}
		if int64(len(data)) > s.MaxImportBytes {
			return nil, ErrTooLarge
		}
		src = bytes.NewReader(data)
	}

	table, err := leadcsv.Read(src, s.MaxImportRows)
	switch {
	case errors.Is(err, leadcsv.ErrTooManyRows):
		return nil, fmt.Errorf("%w: maximum %d rows allowed", ErrTooManyRows, s.MaxImportRows)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrCSVParse, err)
	}

	res := &ImportResult{Total: len(table.Rows)}
	valid := make([]*domain.Buyer, 0, len(table.Rows))
	now := s.now()
	for _, row := range table.Rows {
		v := s.Validator.Row(row.Values)
		if !v.OK() {
			res.Errors = append(res.Errors, RowError{Row: row.Num, Errors: v.Messages()})
			continue
		}
		b := &domain.Buyer{OwnerID: userID, CreatedAt: now, UpdatedAt: now}
		b.Apply(*v.Fields)
		valid = append(valid, b)
	}
	span.SetAttributes(
		attribute.Int("import.total", res.Total),
		attribute.Int("import.valid", len(valid)),
	)

	if len(valid) == 0 {
		res.Message = "No valid rows to import"
		return res, ErrNoValidRows
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, b := range valid {
			if err := repo.CreateBuyer(ctx, tx, b); err != nil {
				return err
			}
			if err := recordFields(ctx, tx, b, domain.ActionImported, userID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	res.Imported = len(valid)
	res.Message = fmt.Sprintf("Successfully imported %d buyers", res.Imported)
	return res, nil
}
