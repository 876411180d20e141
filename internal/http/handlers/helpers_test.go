package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-leads-backend/internal/domain"
	"github.com/tbourn/go-leads-backend/internal/http/middleware"
	"github.com/tbourn/go-leads-backend/internal/services"
	"github.com/tbourn/go-leads-backend/internal/validation"
)

func init() { gin.SetMode(gin.TestMode) }

// ---------- test DB + wiring ----------

func newHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Unique DSN per call to avoid cross-test contamination
	dsn := fmt.Sprintf("file:lead_handlers_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := db.AutoMigrate(&domain.User{}, &domain.Buyer{}, &domain.BuyerHistory{}, &domain.Idempotency{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type testEnv struct {
	db     *gorm.DB
	buyers *services.BuyerService
	idem   *services.IdempotencyService
	h      *Handlers
	r      *gin.Engine
}

// newEnv wires real services over SQLite. Requests act as the user named in
// the X-Test-User header.
func newEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newHandlerDB(t)
	buyers := services.NewBuyerService(db, validation.New(validation.BHKStrict))
	idem := &services.IdempotencyService{DB: db, TTL: time.Hour}
	h := New(buyers, nil, idem)
	h.Now = func() time.Time { return time.Date(2024, 5, 9, 12, 0, 0, 0, time.UTC) }

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if u := c.GetHeader("X-Test-User"); u != "" {
			c.Set("userID", u)
		}
		c.Next()
	})
	g := r.Group("/api/v1")
	g.GET("/buyers", h.ListBuyers)
	g.POST("/buyers",
		middleware.IdempotencyValidator(ScopeCreateBuyer, middleware.IdempotencyOptions{}, idem.Lookup),
		h.CreateBuyer,
	)
	g.GET("/buyers/export", h.ExportBuyers)
	g.POST("/buyers/import", h.ImportBuyers)
	g.GET("/buyers/:id", h.GetBuyer)
	g.PUT("/buyers/:id", h.UpdateBuyer)
	g.DELETE("/buyers/:id", h.DeleteBuyer)
	g.GET("/buyers/:id/history", h.BuyerHistory)

	return &testEnv{db: db, buyers: buyers, idem: idem, h: h, r: r}
}

func (e *testEnv) do(method, path, user string, body any, hdr map[string]string) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func (e *testEnv) upload(user, filename, contentType, content string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := make(map[string][]string)
	hdr["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename)}
	hdr["Content-Type"] = []string{contentType}
	part, _ := mw.CreatePart(hdr)
	_, _ = io.WriteString(part, content)
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/buyers/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Test-User", user)
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %T: %v; body=%s", v, err, w.Body.String())
	}
	return v
}

func i64(v int64) *int64 { return &v }

func validBody() validation.BuyerInput {
	return validation.BuyerInput{
		FullName:     "Asha Rao",
		Email:        "asha@example.com",
		Phone:        "9876543210",
		City:         "Mohali",
		PropertyType: "Apartment",
		BHK:          "2",
		Purpose:      "Buy",
		BudgetMin:    i64(5_000_000),
		BudgetMax:    i64(7_000_000),
		Timeline:     "0-3m",
		Source:       "Website",
		Tags:         []string{"urgent", "hot"},
	}
}
