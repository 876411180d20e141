package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Tags is an ordered set of short labels. It is stored as one
// comma-delimited text column and rendered as a JSON array.
type Tags []string

// String returns the stored representation.
func (t Tags) String() string { return strings.Join(t, ",") }

// ParseTags splits a stored or CSV tag column, trimming each entry and
// dropping empty ones.
func ParseTags(s string) Tags {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make(Tags, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Value implements driver.Valuer.
func (t Tags) Value() (driver.Value, error) { return t.String(), nil }

// Scan implements sql.Scanner.
func (t *Tags) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = nil
	case string:
		*t = ParseTags(v)
	case []byte:
		*t = ParseTags(string(v))
	default:
		return fmt.Errorf("domain: cannot scan %T into Tags", src)
	}
	return nil
}

// MarshalJSON renders nil as an empty array.
func (t Tags) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(t))
}
