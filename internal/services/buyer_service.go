// Package services – BuyerService
//
// This file implements BuyerService, the application-level component that
// owns the lifecycle of buyer leads. It validates input, enforces ownership,
// applies optimistic concurrency on updates (the stored updatedAt is the
// version token), and writes the lead together with its audit history in a
// single transaction.
//
// Observability: all public methods are OpenTelemetry-instrumented; spans
// include lead/user identifiers and pagination parameters where applicable.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-leads-backend/internal/domain"
	"github.com/tbourn/go-leads-backend/internal/repo"
	"github.com/tbourn/go-leads-backend/internal/utils"
	"github.com/tbourn/go-leads-backend/internal/validation"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
	historyLimit    = 5
)

// BuyerService coordinates lead persistence, validation and auditing.
type BuyerService struct {
	DB        *gorm.DB
	Validator *validation.Validator

	// RequireToken rejects updates that omit updatedAt.
	RequireToken bool

	// Import caps.
	MaxImportRows  int
	MaxImportBytes int64

	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

// NewBuyerService constructs a BuyerService with default import caps.
func NewBuyerService(db *gorm.DB, v *validation.Validator) *BuyerService {
	return &BuyerService{
		DB:             db,
		Validator:      v,
		MaxImportRows:  200,
		MaxImportBytes: 5 << 20,
	}
}

// ListQuery is a validated list/export request.
type ListQuery struct {
	Filter repo.BuyerFilter
	Sort   repo.BuyerSort
	Page   int
	Limit  int
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

func (s *BuyerService) now() time.Time {
	if s.Now != nil {
		return domain.Timestamp(s.Now())
	}
	return domain.Timestamp(time.Now())
}

// nextVersion returns a token strictly after prev.
func nextVersion(prev, now time.Time) time.Time {
	if now.After(prev) {
		return now
	}
	return prev.Add(time.Microsecond)
}

// Create validates in and stores a new lead owned by userID, recording a
// "created" history entry in the same transaction.
func (s *BuyerService) Create(ctx context.Context, userID string, in validation.BuyerInput) (*domain.Buyer, error) {
	tr := otel.Tracer("services/BuyerService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	// New leads always start as New; a client-supplied status or token is ignored.
	in.Status = ""
	in.UpdatedAt = ""

	res := s.Validator.Buyer(in)
	if !res.OK() {
		return nil, &ValidationError{Errors: res.Errors}
	}

	now := s.now()
	b := &domain.Buyer{OwnerID: userID, CreatedAt: now, UpdatedAt: now}
	b.Apply(*res.Fields)

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.CreateBuyer(ctx, tx, b); err != nil {
			return err
		}
		return recordFields(ctx, tx, b, domain.ActionCreated, userID)
	})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("buyer.id", b.ID))
	if err := withOwner(ctx, s.DB, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Get returns a lead by ID. Any authenticated user may read any lead.
func (s *BuyerService) Get(ctx context.Context, id string) (*domain.Buyer, error) {
	tr := otel.Tracer("services/BuyerService")
	ctx, span := tr.Start(ctx, "Get",
		trace.WithAttributes(attribute.String("buyer.id", id)),
	)
	defer span.End()

	b, err := repo.GetBuyer(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrBuyerNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := withOwner(ctx, s.DB, b); err != nil {
		return nil, err
	}
	return b, nil
}

// List returns one page of leads matching q.
func (s *BuyerService) List(ctx context.Context, q ListQuery) ([]domain.Buyer, Pagination, error) {
	tr := otel.Tracer("services/BuyerService")
	ctx, span := tr.Start(ctx, "List",
		trace.WithAttributes(
			attribute.Int("page", q.Page),
			attribute.Int("page_size", q.Limit),
			attribute.String("sort", q.Sort.Field),
		),
	)
	defer span.End()

	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = defaultPageSize
	}
	if q.Limit > maxPageSize {
		q.Limit = maxPageSize
	}
	pg := Pagination{Page: q.Page, Limit: q.Limit}

	total, err := repo.CountBuyers(ctx, s.DB, q.Filter)
	if err != nil {
		return nil, pg, err
	}
	pg.Total = total
	pg.TotalPages = utils.TotalPages(total, q.Limit)
	if total == 0 {
		return []domain.Buyer{}, pg, nil
	}

	items, err := repo.ListBuyersPage(ctx, s.DB, q.Filter, q.Sort, utils.PageOffset(q.Page, q.Limit), q.Limit)
	if err != nil {
		return nil, pg, err
	}
	if err := withOwners(ctx, s.DB, items); err != nil {
		return nil, pg, err
	}
	return items, pg, nil
}

// ListVersion returns the match count and newest updatedAt for f. Handlers
// derive a weak ETag from it.
func (s *BuyerService) ListVersion(ctx context.Context, f repo.BuyerFilter) (int64, *time.Time, error) {
	return repo.BuyersStats(ctx, s.DB, f)
}

// Update applies in to lead id on behalf of userID.
//
// When in.UpdatedAt is set it must equal the stored updatedAt exactly, or
// ErrStaleRecord is returned without writing anything. The write itself is a
// compare-and-swap on updatedAt, so concurrent writers holding the same token
// cannot both succeed. An empty status keeps the stored status. The lead row
// is always rewritten (updatedAt advances); a history entry is recorded only
// when at least one field changed.
func (s *BuyerService) Update(ctx context.Context, userID, id string, in validation.BuyerInput) (*domain.Buyer, error) {
	tr := otel.Tracer("services/BuyerService")
	ctx, span := tr.Start(ctx, "Update",
		trace.WithAttributes(
			attribute.String("buyer.id", id),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	var token *time.Time
	if raw := strings.TrimSpace(in.UpdatedAt); raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, invalid("updatedAt", "Invalid updatedAt timestamp")
		}
		t = t.UTC()
		token = &t
	} else if s.RequireToken {
		return nil, invalid("updatedAt", "updatedAt is required")
	}
	keepStatus := strings.TrimSpace(in.Status) == ""

	res := s.Validator.Buyer(in)
	if !res.OK() {
		return nil, &ValidationError{Errors: res.Errors}
	}

	cur, err := repo.GetBuyer(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrBuyerNotFound
	}
	if err != nil {
		return nil, err
	}
	if cur.OwnerID != userID {
		return nil, ErrForbidden
	}
	if token != nil && !token.Equal(cur.UpdatedAt) {
		return nil, ErrStaleRecord
	}

	fields := *res.Fields
	if keepStatus {
		fields.Status = cur.Status
	}
	changes := Diff(cur.Fields(), fields)
	span.SetAttributes(attribute.Int("diff.fields", len(changes)))

	prev := cur.UpdatedAt
	next := *cur
	next.Apply(fields)
	next.UpdatedAt = nextVersion(prev, s.now())

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := repo.UpdateBuyerIfUnchanged(ctx, tx, &next, prev)
		if err != nil {
			return err
		}
		if !ok {
			return ErrStaleRecord
		}
		return recordChanges(ctx, tx, &next, changes, userID)
	})
	if err != nil {
		return nil, err
	}
	if err := withOwner(ctx, s.DB, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

// Delete removes lead id and its history. Only the owner may delete.
func (s *BuyerService) Delete(ctx context.Context, userID, id string) error {
	tr := otel.Tracer("services/BuyerService")
	ctx, span := tr.Start(ctx, "Delete",
		trace.WithAttributes(
			attribute.String("buyer.id", id),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	cur, err := repo.GetBuyer(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrBuyerNotFound
	}
	if err != nil {
		return err
	}
	if cur.OwnerID != userID {
		return ErrForbidden
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return repo.DeleteBuyer(ctx, tx, id)
	})
	if errors.Is(err, repo.ErrNotFound) {
		return ErrBuyerNotFound
	}
	return err
}

// History returns the newest history entries for lead id, newest first.
func (s *BuyerService) History(ctx context.Context, id string) ([]domain.BuyerHistory, error) {
	tr := otel.Tracer("services/BuyerService")
	ctx, span := tr.Start(ctx, "History",
		trace.WithAttributes(attribute.String("buyer.id", id)),
	)
	defer span.End()

	b, err := repo.GetBuyer(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrBuyerNotFound
		}
		return nil, err
	}
	items, err := repo.ListHistory(ctx, s.DB, id, historyLimit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.BuyerHistory{}
	}
	if err := withOwner(ctx, s.DB, b); err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Owner = b.Owner
	}
	return items, nil
}
