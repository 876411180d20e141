// Buyer lead HTTP handlers.
//
// This file exposes REST endpoints for buyer leads:
//   - GET    /buyers                (list, filtered/sorted/paginated, ETag support)
//   - POST   /buyers                (create, Idempotency-Key replay)
//   - GET    /buyers/{id}           (read)
//   - PUT    /buyers/{id}           (update, optimistic concurrency via updatedAt)
//   - DELETE /buyers/{id}           (delete, cascades history)
//   - GET    /buyers/{id}/history   (last 5 audit entries)
//
// Handlers are transport-thin: they parse input, call application services,
// and translate results into HTTP responses.
package handlers

import (
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-leads-backend/internal/domain"
	"github.com/tbourn/go-leads-backend/internal/http/middleware"
	"github.com/tbourn/go-leads-backend/internal/repo"
	"github.com/tbourn/go-leads-backend/internal/services"
	"github.com/tbourn/go-leads-backend/internal/utils"
	"github.com/tbourn/go-leads-backend/internal/validation"
)

//
// Service contracts (context-aware)
//

// BuyerService defines lead operations consumed by HTTP handlers.
//
// Implementations must be safe for concurrent use and honor the provided
// context for cancellation.
type BuyerService interface {
	Create(ctx context.Context, userID string, in validation.BuyerInput) (*domain.Buyer, error)
	Get(ctx context.Context, id string) (*domain.Buyer, error)
	List(ctx context.Context, q services.ListQuery) ([]domain.Buyer, services.Pagination, error)
	// ListVersion returns the match count and newest updatedAt for f.
	ListVersion(ctx context.Context, f repo.BuyerFilter) (int64, *time.Time, error)
	Update(ctx context.Context, userID, id string, in validation.BuyerInput) (*domain.Buyer, error)
	Delete(ctx context.Context, userID, id string) error
	History(ctx context.Context, id string) ([]domain.BuyerHistory, error)

	CheckUpload(filename, contentType string, size int64) error
	Import(ctx context.Context, userID string, r io.Reader) (*services.ImportResult, error)
	Export(ctx context.Context, w io.Writer, q services.ListQuery) (int, error)
}

// SessionService signs users in for the development login endpoint.
type SessionService interface {
	Login(ctx context.Context, email, name string) (*services.Session, error)
}

// IdempotencyStore records the resource produced for an Idempotency-Key.
type IdempotencyStore interface {
	Remember(ctx context.Context, userID, scope, key, resourceID string, status int) error
}

// ScopeCreateBuyer is the idempotency scope of POST /buyers.
const ScopeCreateBuyer = "buyers.create"

//
// Handler wiring
//

// Handlers groups HTTP endpoints for leads and sessions.
type Handlers struct {
	buyers   BuyerService
	sessions SessionService
	idem     IdempotencyStore

	// Now is the clock used for export filenames; nil means time.Now.
	Now func() time.Time
}

// New constructs a Handlers instance bound to the given services. sessions
// and idem may be nil when the corresponding features are disabled.
func New(buyers BuyerService, sessions SessionService, idem IdempotencyStore) *Handlers {
	return &Handlers{buyers: buyers, sessions: sessions, idem: idem}
}

func (h *Handlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

//
// DTOs
//

// ListBuyersResponse wraps a page of leads and pagination information.
type ListBuyersResponse struct {
	Data       []domain.Buyer      `json:"data"`
	Pagination services.Pagination `json:"pagination"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message" example:"Buyer deleted successfully"`
}

//
// Helpers
//

// parseListQuery reads filter, sort and pagination parameters. Unknown enum
// values and sort keys are rejected; page and limit are clamped.
func parseListQuery(c *gin.Context) (services.ListQuery, error) {
	const (
		defaultPage  = 1
		defaultLimit = 10
		maxLimit     = 100
	)
	q := services.ListQuery{
		Page:  utils.AtoiDefault(c.Query("page"), defaultPage),
		Limit: utils.Clamp(utils.AtoiDefault(c.Query("limit"), defaultLimit), 1, maxLimit),
	}
	if q.Page < 1 {
		q.Page = 1
	}

	f := repo.BuyerFilter{Search: strings.TrimSpace(c.Query("search"))}
	if v := c.Query("city"); v != "" {
		if !domain.City(v).Valid() {
			return q, fmt.Errorf("invalid city %q", v)
		}
		f.City = domain.City(v)
	}
	if v := c.Query("propertyType"); v != "" {
		if !domain.PropertyType(v).Valid() {
			return q, fmt.Errorf("invalid propertyType %q", v)
		}
		f.PropertyType = domain.PropertyType(v)
	}
	if v := c.Query("status"); v != "" {
		if !domain.Status(v).Valid() {
			return q, fmt.Errorf("invalid status %q", v)
		}
		f.Status = domain.Status(v)
	}
	if v := c.Query("timeline"); v != "" {
		if !domain.Timeline(v).Valid() {
			return q, fmt.Errorf("invalid timeline %q", v)
		}
		f.Timeline = domain.Timeline(v)
	}
	q.Filter = f

	s := repo.BuyerSort{Field: c.DefaultQuery("sortBy", "updatedAt"), Desc: true}
	if !repo.SortFieldValid(s.Field) {
		return q, fmt.Errorf("invalid sortBy %q", s.Field)
	}
	switch strings.ToLower(c.DefaultQuery("sortOrder", "desc")) {
	case "desc":
	case "asc":
		s.Desc = false
	default:
		return q, fmt.Errorf("invalid sortOrder %q", c.Query("sortOrder"))
	}
	q.Sort = s
	return q, nil
}

// listETag derives a weak validator from the query and the matching set's
// size and newest updatedAt.
func listETag(q services.ListQuery, count int64, maxTS *time.Time) string {
	var ts int64
	if maxTS != nil {
		ts = maxTS.UnixNano()
	}
	hs := fnv.New64a()
	fmt.Fprintf(hs, "%+v|%+v|%d|%d|%d|%d", q.Filter, q.Sort, q.Page, q.Limit, count, ts)
	return fmt.Sprintf(`W/"buyers:%x"`, hs.Sum64())
}

//
// Handlers
//

// ListBuyers godoc
// @ID          listBuyers
// @Summary     List buyer leads (paginated)
// @Description Returns a page of leads matching the filters. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Buyers
// @Produce     json
// @Security    BearerAuth
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"buyers:abc123\")
// @Param       page           query   int     false "Page number"                  minimum(1) default(1)
// @Param       limit          query   int     false "Items per page"               minimum(1) maximum(100) default(10)
// @Param       search         query   string  false "Matches name, email or phone"
// @Param       city           query   string  false "City"           Enums(Chandigarh, Mohali, Zirakpur, Panchkula, Other)
// @Param       propertyType   query   string  false "Property type"  Enums(Apartment, Villa, Plot, Office, Retail)
// @Param       status         query   string  false "Status"         Enums(New, Qualified, Contacted, Visited, Negotiation, Converted, Dropped)
// @Param       timeline       query   string  false "Timeline"       Enums(0-3m, 3-6m, >6m, Exploring)
// @Param       sortBy         query   string  false "Sort key"       Enums(updatedAt, createdAt, fullName) default(updatedAt)
// @Param       sortOrder      query   string  false "Sort order"     Enums(asc, desc) default(desc)
//
// @Success     200  {object} handlers.ListBuyersResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Invalid query parameters"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /buyers [get]
func (h *Handlers) ListBuyers(c *gin.Context) {
	ctx := c.Request.Context()
	q, err := parseListQuery(c)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}

	// ETag pre-check (best effort).
	if count, maxTS, err := h.buyers.ListVersion(ctx, q.Filter); err == nil {
		etag := listETag(q, count, maxTS)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	items, pg, err := h.buyers.List(ctx, q)
	if err != nil {
		serviceError(c, err)
		return
	}
	ok(c, http.StatusOK, ListBuyersResponse{Data: items, Pagination: pg})
}

// GetBuyer godoc
// @ID          getBuyer
// @Summary     Get a buyer lead
// @Tags        Buyers
// @Produce     json
// @Security    BearerAuth
// @Param       id   path  string  true  "Buyer ID (UUID)"  format(uuid)
// @Success     200  {object} domain.Buyer
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     404  {object} handlers.ErrorResponse "Buyer not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /buyers/{id} [get]
func (h *Handlers) GetBuyer(c *gin.Context) {
	b, err := h.buyers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	ok(c, http.StatusOK, b)
}

// CreateBuyer godoc
// @ID          createBuyer
// @Summary     Create a buyer lead
// @Description Validates and stores a lead owned by the current user and records a "created" history entry.
// @Description Supports safe retries via the Idempotency-Key header (same key → same lead).
// @Tags        Buyers
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       body             body    validation.BuyerInput  true  "Lead payload"
//
// @Success     201  {object}  domain.Buyer
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     429  {object}  handlers.ErrorResponse  "Rate limited"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /buyers [post]
func (h *Handlers) CreateBuyer(c *gin.Context) {
	ctx := c.Request.Context()
	uid := middleware.UserID(c)

	// Idempotency (replay path).
	if rid, found := middleware.ReplayOf(c); found {
		if prev, err := h.buyers.Get(ctx, rid); err == nil {
			c.Header("Idempotency-Replayed", "true")
			ok(c, http.StatusCreated, prev)
			return
		}
	}

	var in validation.BuyerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	b, err := h.buyers.Create(ctx, uid, in)
	middleware.ObserveMutation("create", outcome(err))
	if err != nil {
		serviceError(c, err)
		return
	}

	// Idempotency (store path) – best effort.
	if key, found := middleware.GetIdempotencyKey(c); found && h.idem != nil {
		if err := h.idem.Remember(ctx, uid, ScopeCreateBuyer, key, b.ID, http.StatusCreated); err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Msg("idempotency record not stored")
		}
	}

	ok(c, http.StatusCreated, b)
}

// UpdateBuyer godoc
// @ID          updateBuyer
// @Summary     Update a buyer lead
// @Description Replaces the editable fields of a lead owned by the current user.
// @Description Send the updatedAt you last read; a mismatch returns 409 and nothing is written.
// @Tags        Buyers
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       id    path  string  true  "Buyer ID (UUID)"  format(uuid)
// @Param       body  body  validation.BuyerInput  true  "Lead payload with updatedAt"
//
// @Success     200  {object} domain.Buyer
// @Failure     400  {object} handlers.ErrorResponse "Validation failed"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     403  {object} handlers.ErrorResponse "Not the owner"
// @Failure     404  {object} handlers.ErrorResponse "Buyer not found"
// @Failure     409  {object} handlers.ErrorResponse "Record changed"
// @Failure     429  {object} handlers.ErrorResponse "Rate limited"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /buyers/{id} [put]
func (h *Handlers) UpdateBuyer(c *gin.Context) {
	var in validation.BuyerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	b, err := h.buyers.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), in)
	middleware.ObserveMutation("update", outcome(err))
	if err != nil {
		serviceError(c, err)
		return
	}
	ok(c, http.StatusOK, b)
}

// DeleteBuyer godoc
// @ID          deleteBuyer
// @Summary     Delete a buyer lead
// @Description Deletes a lead owned by the current user together with its history.
// @Tags        Buyers
// @Produce     json
// @Security    BearerAuth
// @Param       id   path  string  true  "Buyer ID (UUID)"  format(uuid)
// @Success     200  {object} handlers.MessageResponse
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     403  {object} handlers.ErrorResponse "Not the owner"
// @Failure     404  {object} handlers.ErrorResponse "Buyer not found"
// @Failure     429  {object} handlers.ErrorResponse "Rate limited"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /buyers/{id} [delete]
func (h *Handlers) DeleteBuyer(c *gin.Context) {
	err := h.buyers.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	middleware.ObserveMutation("delete", outcome(err))
	if err != nil {
		serviceError(c, err)
		return
	}
	ok(c, http.StatusOK, MessageResponse{Message: "Buyer deleted successfully"})
}

// BuyerHistory godoc
// @ID          buyerHistory
// @Summary     Recent changes to a buyer lead
// @Description Returns the last 5 history entries, newest first.
// @Tags        Buyers
// @Produce     json
// @Security    BearerAuth
// @Param       id   path  string  true  "Buyer ID (UUID)"  format(uuid)
// @Success     200  {array}  domain.BuyerHistory
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     404  {object} handlers.ErrorResponse "Buyer not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /buyers/{id}/history [get]
func (h *Handlers) BuyerHistory(c *gin.Context) {
	items, err := h.buyers.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	ok(c, http.StatusOK, items)
}
