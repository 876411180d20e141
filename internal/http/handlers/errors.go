// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are lowercase snake_case and stable; clients branch on them. Generic
// codes mirror HTTP status semantics; domain-specific ones cover failures the
// status alone cannot convey.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "conflict",
//	  "message": "record changed, please refresh"
//	}
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-leads-backend/internal/auth"
	"github.com/tbourn/go-leads-backend/internal/services"
)

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeForbidden        = "forbidden"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"

	// Domain-specific:
	ErrCodeValidation   = "validation_failed"
	ErrCodeTooLarge     = "payload_too_large"
	ErrCodeCSVParse     = "csv_parse_error"
	ErrCodeTooManyRows  = "too_many_rows"
	ErrCodeNoValidRows  = "no_valid_rows"
	ErrCodeNotCSV       = "unsupported_file"
	ErrCodeExportFailed = "export_failed"
)

// serviceError maps a service-layer error onto the error envelope. Unknown
// errors become a logged 500.
func serviceError(c *gin.Context, err error) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		failWith(c, http.StatusBadRequest, ErrCodeValidation, "validation failed", ve.Errors)
	case errors.Is(err, services.ErrBuyerNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "buyer not found")
	case errors.Is(err, services.ErrForbidden):
		fail(c, http.StatusForbidden, ErrCodeForbidden, services.ErrForbidden.Error())
	case errors.Is(err, services.ErrStaleRecord):
		fail(c, http.StatusConflict, ErrCodeConflict, services.ErrStaleRecord.Error())
	case errors.Is(err, auth.ErrUnauthenticated):
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
	case errors.Is(err, services.ErrNotCSV):
		fail(c, http.StatusBadRequest, ErrCodeNotCSV, services.ErrNotCSV.Error())
	case errors.Is(err, services.ErrTooLarge):
		fail(c, http.StatusRequestEntityTooLarge, ErrCodeTooLarge, services.ErrTooLarge.Error())
	case errors.Is(err, services.ErrTooManyRows):
		fail(c, http.StatusBadRequest, ErrCodeTooManyRows, err.Error())
	case errors.Is(err, services.ErrCSVParse):
		fail(c, http.StatusBadRequest, ErrCodeCSVParse, err.Error())
	case errors.Is(err, context.Canceled):
		c.Abort()
	default:
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
	}
}

// outcome is the metrics label for a mutation result.
func outcome(err error) string {
	var ve *services.ValidationError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &ve):
		return "invalid"
	case errors.Is(err, services.ErrBuyerNotFound):
		return "not_found"
	case errors.Is(err, services.ErrForbidden):
		return "forbidden"
	case errors.Is(err, services.ErrStaleRecord):
		return "conflict"
	default:
		return "error"
	}
}
