// Package validation turns loosely-typed lead input (JSON bodies and CSV rows)
// into validated domain.BuyerFields. Structural rules are expressed as
// go-playground/validator struct tags; cross-field rules (bhk vs property type,
// budget ordering, tag shape) are explicit code. Rejections are returned as a
// list of field errors, never as panics.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"

	"github.com/tbourn/go-leads-backend/internal/domain"
)

const (
	MaxNotesLen = 1000
	MaxTagLen   = 50
	MaxTags     = 20
)

// BHKPolicy decides what happens to a bhk value supplied for a property type
// that does not take one.
type BHKPolicy string

const (
	BHKStrict  BHKPolicy = "strict"  // reject with a field error
	BHKLenient BHKPolicy = "lenient" // drop silently
)

// FieldError is a single rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) String() string { return e.Field + ": " + e.Message }

// Result is the outcome of validating one lead. Fields is nil when Errors is
// non-empty.
type Result struct {
	Fields *domain.BuyerFields
	Errors []FieldError
}

// OK reports whether validation succeeded.
func (r Result) OK() bool { return len(r.Errors) == 0 && r.Fields != nil }

// Messages flattens Errors into "field: message" strings.
func (r Result) Messages() []string {
	out := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		out = append(out, e.String())
	}
	return out
}

// BuyerInput is the wire shape of a create or update request.
type BuyerInput struct {
	FullName     string   `json:"fullName"     validate:"required,min=2,max=80"`
	Email        string   `json:"email"        validate:"omitempty,email,max=254"`
	Phone        string   `json:"phone"        validate:"required,phone"`
	City         string   `json:"city"         validate:"required,oneof=Chandigarh Mohali Zirakpur Panchkula Other"`
	PropertyType string   `json:"propertyType" validate:"required,oneof=Apartment Villa Plot Office Retail"`
	BHK          string   `json:"bhk"          validate:"omitempty,oneof=1 2 3 4 Studio"`
	Purpose      string   `json:"purpose"      validate:"required,oneof=Buy Rent"`
	BudgetMin    *int64   `json:"budgetMin"    validate:"omitempty,min=0"`
	BudgetMax    *int64   `json:"budgetMax"    validate:"omitempty,min=0"`
	Timeline     string   `json:"timeline"     validate:"required,oneof=0-3m 3-6m >6m Exploring"`
	Source       string   `json:"source"       validate:"required,oneof=Website Referral Walk-in Call Other"`
	Status       string   `json:"status"       validate:"omitempty,oneof=New Qualified Contacted Visited Negotiation Converted Dropped"`
	Notes        string   `json:"notes"        validate:"max=1000"`
	Tags         []string `json:"tags"         validate:"max=20"`

	// UpdatedAt is the concurrency token on updates; ignored on create.
	UpdatedAt string `json:"updatedAt,omitempty" validate:"-"`
}

var phoneRe = regexp.MustCompile(`^\d{10,15}$`)

// Validator validates lead input. It is safe for concurrent use.
type Validator struct {
	v   *validator.Validate
	bhk BHKPolicy
}

// New builds a Validator. An unknown policy falls back to BHKStrict.
func New(policy BHKPolicy) *Validator {
	if policy != BHKLenient {
		policy = BHKStrict
	}
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})
	return &Validator{v: v, bhk: policy}
}

// Policy returns the configured bhk policy.
func (val *Validator) Policy() BHKPolicy { return val.bhk }

// Buyer validates in and returns the normalized fields. An empty status
// defaults to New.
func (val *Validator) Buyer(in BuyerInput) Result {
	in = normalize(in)

	var errs []FieldError
	if err := val.v.Struct(in); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return Result{Errors: []FieldError{{Field: "body", Message: "Invalid input"}}}
		}
		for _, fe := range ve {
			errs = append(errs, FieldError{Field: fe.Field(), Message: message(fe)})
		}
	}

	pt := domain.PropertyType(in.PropertyType)
	var bhk *domain.BHK
	switch {
	case pt.RequiresBHK() && in.BHK == "":
		errs = append(errs, FieldError{Field: "bhk", Message: "BHK is required for Apartment and Villa properties"})
	case !pt.RequiresBHK() && in.BHK != "" && pt.Valid():
		if val.bhk == BHKStrict {
			errs = append(errs, FieldError{Field: "bhk", Message: "BHK is only allowed for Apartment and Villa properties"})
		}
	case in.BHK != "":
		b := domain.BHK(in.BHK)
		bhk = &b
	}

	if in.BudgetMin != nil && in.BudgetMax != nil && *in.BudgetMax < *in.BudgetMin {
		errs = append(errs, FieldError{Field: "budgetMax", Message: "Budget max must be greater than or equal to budget min"})
	}

	tags, tagErrs := checkTags(in.Tags)
	errs = append(errs, tagErrs...)

	if len(errs) > 0 {
		return Result{Errors: errs}
	}

	status := domain.Status(in.Status)
	if status == "" {
		status = domain.StatusNew
	}
	f := &domain.BuyerFields{
		FullName:     in.FullName,
		Phone:        in.Phone,
		City:         domain.City(in.City),
		PropertyType: pt,
		BHK:          bhk,
		Purpose:      domain.Purpose(in.Purpose),
		BudgetMin:    in.BudgetMin,
		BudgetMax:    in.BudgetMax,
		Timeline:     domain.Timeline(in.Timeline),
		Source:       domain.Source(in.Source),
		Status:       status,
		Notes:        in.Notes,
		Tags:         tags,
	}
	if in.Email != "" {
		email := in.Email
		f.Email = &email
	}
	return Result{Fields: f}
}

// ToInput renders validated fields back into wire input.
func ToInput(f domain.BuyerFields) BuyerInput {
	in := BuyerInput{
		FullName:     f.FullName,
		Phone:        f.Phone,
		City:         string(f.City),
		PropertyType: string(f.PropertyType),
		Purpose:      string(f.Purpose),
		BudgetMin:    f.BudgetMin,
		BudgetMax:    f.BudgetMax,
		Timeline:     string(f.Timeline),
		Source:       string(f.Source),
		Status:       string(f.Status),
		Notes:        f.Notes,
		Tags:         []string(f.Tags),
	}
	if f.Email != nil {
		in.Email = *f.Email
	}
	if f.BHK != nil {
		in.BHK = string(*f.BHK)
	}
	return in
}

func normalize(in BuyerInput) BuyerInput {
	in.FullName = norm.NFC.String(strings.TrimSpace(in.FullName))
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.City = strings.TrimSpace(in.City)
	in.PropertyType = strings.TrimSpace(in.PropertyType)
	in.BHK = strings.TrimSpace(in.BHK)
	in.Purpose = strings.TrimSpace(in.Purpose)
	in.Timeline = strings.TrimSpace(in.Timeline)
	in.Source = strings.TrimSpace(in.Source)
	in.Status = strings.TrimSpace(in.Status)
	in.Notes = norm.NFC.String(strings.TrimSpace(in.Notes))
	return in
}

// checkTags trims, drops empties and de-duplicates in order.
func checkTags(raw []string) (domain.Tags, []FieldError) {
	if len(raw) == 0 {
		return nil, nil
	}
	seen := make(map[string]struct{}, len(raw))
	out := make(domain.Tags, 0, len(raw))
	var errs []FieldError
	for _, t := range raw {
		t = norm.NFC.String(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if strings.Contains(t, ",") {
			errs = append(errs, FieldError{Field: "tags", Message: "Tags must not contain commas"})
			continue
		}
		if utf8.RuneCountInString(t) > MaxTagLen {
			errs = append(errs, FieldError{Field: "tags", Message: "Each tag must be at most 50 characters"})
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	if len(out) == 0 {
		out = nil
	}
	return out, errs
}

var labels = map[string]string{
	"fullName":     "Full name",
	"email":        "Email",
	"phone":        "Phone",
	"city":         "City",
	"propertyType": "Property type",
	"bhk":          "BHK",
	"purpose":      "Purpose",
	"budgetMin":    "Budget min",
	"budgetMax":    "Budget max",
	"timeline":     "Timeline",
	"source":       "Source",
	"status":       "Status",
	"notes":        "Notes",
	"tags":         "Tags",
}

func message(fe validator.FieldError) string {
	label := labels[fe.Field()]
	if label == "" {
		label = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return "Invalid email"
	case "phone":
		return "Phone must be 10-15 digits"
	case "oneof":
		return "Invalid " + strings.ToLower(label)
	case "min":
		if fe.Kind() == reflect.String {
			return label + " must be at least " + fe.Param() + " characters"
		}
		return label + " must be at least " + fe.Param()
	case "max":
		switch fe.Kind() {
		case reflect.String:
			return label + " must be at most " + fe.Param() + " characters"
		case reflect.Slice:
			return "At most " + fe.Param() + " tags allowed"
		}
		return label + " must be at most " + fe.Param()
	}
	return "Invalid " + strings.ToLower(label)
}

// Email checks a standalone address, such as a sign-in email. It returns nil
// when the address is acceptable.
func (val *Validator) Email(s string) *FieldError {
	if strings.TrimSpace(s) == "" {
		return &FieldError{Field: "email", Message: "Email is required"}
	}
	if err := val.v.Var(s, "email,max=254"); err != nil {
		return &FieldError{Field: "email", Message: "Invalid email"}
	}
	return nil
}
