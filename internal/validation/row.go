package validation

import (
	"strconv"
	"strings"

	"github.com/tbourn/go-leads-backend/internal/domain"
)

// Row validates one CSV record keyed by (trimmed) header name. Budgets arrive
// as strings and tags as a comma-delimited string; unknown columns such as
// createdAt/updatedAt from an export are ignored. Parse failures and rule
// failures are reported together.
func (val *Validator) Row(rec map[string]string) Result {
	get := func(k string) string { return strings.TrimSpace(rec[k]) }

	var parseErrs []FieldError
	budget := func(k string) *int64 {
		s := get(k)
		if s == "" {
			return nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			parseErrs = append(parseErrs, FieldError{Field: k, Message: labels[k] + " must be a whole number"})
			return nil
		}
		return &n
	}

	in := BuyerInput{
		FullName:     get("fullName"),
		Email:        get("email"),
		Phone:        get("phone"),
		City:         get("city"),
		PropertyType: get("propertyType"),
		BHK:          get("bhk"),
		Purpose:      get("purpose"),
		BudgetMin:    budget("budgetMin"),
		BudgetMax:    budget("budgetMax"),
		Timeline:     get("timeline"),
		Source:       get("source"),
		Status:       get("status"),
		Notes:        get("notes"),
		Tags:         []string(domain.ParseTags(rec["tags"])),
	}

	res := val.Buyer(in)
	if len(parseErrs) > 0 {
		return Result{Errors: append(parseErrs, res.Errors...)}
	}
	return res
}
