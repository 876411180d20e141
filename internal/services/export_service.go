package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/tbourn/go-leads-backend/internal/domain"
	"github.com/tbourn/go-leads-backend/internal/leadcsv"
	"github.com/tbourn/go-leads-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ExportFilename is the attachment name for an export taken at t.
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("buyers-export-%s.csv", t.UTC().Format("2006-01-02"))
}

// Export streams every lead matching q (pagination ignored) to w as CSV and
// returns the number of data rows written. Rows are written as they are read
// from a single database cursor. On a read error nothing still buffered is
// written to w.
func (s *BuyerService) Export(ctx context.Context, w io.Writer, q ListQuery) (int, error) {
	tr := otel.Tracer("services/BuyerService")
	ctx, span := tr.Start(ctx, "Export",
		trace.WithAttributes(attribute.String("sort", q.Sort.Field)),
	)
	defer span.End()

	cw, err := leadcsv.NewWriter(w)
	if err != nil {
		return 0, err
	}
	err = repo.StreamBuyers(ctx, s.DB, q.Filter, q.Sort, func(b domain.Buyer) error {
		return cw.Write(b)
	})
	span.SetAttributes(attribute.Int("export.rows", cw.Count()))
	if err != nil {
		// Buffered output, header included, is dropped so callers that have
		// not sent anything yet can still report the failure.
		span.RecordError(err)
		return cw.Count(), err
	}
	return cw.Count(), cw.Flush()
}
