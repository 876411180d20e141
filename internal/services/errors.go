// Package services defines the business logic for buyer leads: validated
// create/update with optimistic concurrency, audit history, and CSV
// import/export. This file centralizes service-level error values so that
// they can be consistently returned by service methods and checked by callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import (
	"errors"
	"strings"

	"github.com/tbourn/go-leads-backend/internal/validation"
)

// Lead errors.
var (
	// ErrBuyerNotFound indicates that the requested lead does not exist.
	ErrBuyerNotFound = errors.New("buyer not found")

	// ErrForbidden is returned when the caller does not own the lead it is
	// trying to change.
	ErrForbidden = errors.New("you can only modify your own buyers")

	// ErrStaleRecord is returned when the concurrency token supplied with an
	// update no longer matches the stored record.
	ErrStaleRecord = errors.New("record changed, please refresh")
)

// CSV errors.
var (
	// ErrNotCSV is returned when an upload is not a CSV file.
	ErrNotCSV = errors.New("please upload a CSV file")

	// ErrTooLarge is returned when an upload exceeds the configured byte cap.
	ErrTooLarge = errors.New("file too large")

	// ErrCSVParse wraps structural CSV errors (bad quoting, ragged rows).
	ErrCSVParse = errors.New("CSV parsing failed")

	// ErrTooManyRows is returned when an import exceeds the row cap.
	ErrTooManyRows = errors.New("too many rows")

	// ErrNoValidRows is returned when every row of an import failed
	// validation. The accompanying ImportResult still carries the row errors.
	ErrNoValidRows = errors.New("no valid rows to import")
)

// ValidationError carries field-level rejections for a single lead.
type ValidationError struct {
	Errors []validation.FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.String())
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Errors: []validation.FieldError{{Field: field, Message: msg}}}
}
