package leadcsv

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/tbourn/go-leads-backend/internal/domain"
)

// Header is the fixed export column order. Import accepts the same layout.
var Header = []string{
	"fullName", "email", "phone", "city", "propertyType", "bhk", "purpose",
	"budgetMin", "budgetMax", "timeline", "source", "notes", "tags",
	"status", "createdAt", "updatedAt",
}

// Writer renders leads as CSV rows under Header.
type Writer struct {
	cw *csv.Writer
	n  int
}

// NewWriter writes the header row immediately.
func NewWriter(w io.Writer) (*Writer, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return nil, err
	}
	return &Writer{cw: cw}, nil
}

// Write appends one lead.
func (w *Writer) Write(b domain.Buyer) error {
	if err := w.cw.Write(Record(b)); err != nil {
		return err
	}
	w.n++
	return nil
}

// Count is the number of data rows written.
func (w *Writer) Count() int { return w.n }

// Flush pushes buffered rows to the underlying writer.
func (w *Writer) Flush() error {
	w.cw.Flush()
	return w.cw.Error()
}

// Record renders b in Header order. Absent optionals are empty cells, tags
// are comma-joined and timestamps are RFC 3339 in UTC.
func Record(b domain.Buyer) []string {
	return []string{
		b.FullName,
		deref(b.Email),
		b.Phone,
		string(b.City),
		string(b.PropertyType),
		bhk(b.BHK),
		string(b.Purpose),
		num(b.BudgetMin),
		num(b.BudgetMax),
		string(b.Timeline),
		string(b.Source),
		b.Notes,
		b.Tags.String(),
		string(b.Status),
		b.CreatedAt.UTC().Format(time.RFC3339Nano),
		b.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func bhk(b *domain.BHK) string {
	if b == nil {
		return ""
	}
	return string(*b)
}

func num(n *int64) string {
	if n == nil {
		return ""
	}
	return strconv.FormatInt(*n, 10)
}
