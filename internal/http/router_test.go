package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-leads-backend/internal/auth"
	"github.com/tbourn/go-leads-backend/internal/config"
	"github.com/tbourn/go-leads-backend/internal/http/middleware"
	"github.com/tbourn/go-leads-backend/internal/ratelimit"
	"github.com/tbourn/go-leads-backend/internal/repo"
)

// --- test DB helper (pure-Go sqlite, no CGO) ---
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_pragma=foreign_keys(1)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func testConfig() config.Config {
	return config.Config{
		APIBasePath: "/api/v1",
		RateRPS:     100,
		RateBurst:   50,
		Limits: config.LimitsConfig{
			Store:  "memory",
			Window: time.Minute,
			Create: 2,
			Update: 5,
			Delete: 5,
			Import: 1,
		},
		Session:        config.SessionConfig{Secret: "0123456789abcdef0123", TTL: time.Hour, DevLogin: true},
		Import:         config.ImportConfig{MaxRows: 200, MaxBytes: 1 << 10},
		BHKPolicy:      "strict",
		IdempotencyTTL: time.Hour,
		OTEL:           config.OTELConfig{ServiceName: "test-svc"},
	}
}

func newTokens(t *testing.T, cfg config.Config) *auth.TokenManager {
	t.Helper()
	tm, err := auth.NewTokenManager(cfg.Session.Secret, cfg.Session.TTL)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	return tm
}

func newRouter(t *testing.T, cfg config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, Deps{
		DB:      newTestDB(t),
		Limiter: ratelimit.NewMemory(),
		Tokens:  newTokens(t, cfg),
	}, cfg)
	return r
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterRoutes_CORSAllowAll_Health_Metrics_Fallbacks(t *testing.T) {
	r := newRouter(t, testConfig())

	// /health pings the store
	w := serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("health body = %s", w.Body.String())
	}
	// CORS (AllowAllOrigins) → header "*"
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("AllowAllOrigins expected '*', got %q", got)
	}

	// /metrics is wired
	w = serve(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK || w.Body.Len() == 0 {
		t.Fatalf("GET /metrics bad: code=%d len=%d", w.Code, w.Body.Len())
	}

	// NoRoute → 404
	w = serve(r, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("GET /nope expected 404, got %d", w.Code)
	}

	// NoMethod → 405 (POST /health)
	w = serve(r, httptest.NewRequest(http.MethodPost, "/health", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /health expected 405, got %d", w.Code)
	}
}

func TestRegisterRoutes_HealthUnavailable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	db := newTestDB(t)
	r := gin.New()
	RegisterRoutes(r, Deps{DB: db, Limiter: ratelimit.NewMemory(), Tokens: newTokens(t, cfg)}, cfg)

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	_ = sqlDB.Close()

	w := serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("closed db: GET /health = %d", w.Code)
	}
}

func TestRegisterRoutes_CORSWithOrigins_HeaderEcho(t *testing.T) {
	// httptest requests carry Host example.com; a cross-site origin must
	// differ from it or the cors middleware treats the call as same-origin.
	const origin = "http://app.example.org"
	cfg := testConfig()
	cfg.CORS = config.CORSConfig{AllowedOrigins: []string{origin}}
	r := newRouter(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", origin)
	w := serve(r, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != origin {
		t.Fatalf("expected origin echo, got %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Fatalf("expected credentials allowed, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example.net")
	w = serve(r, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("unlisted origin: GET /health = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unlisted origin must not be echoed, got %q", got)
	}
}

func Test_limitBody_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/echo", limitBody(10), func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.String(http.StatusRequestEntityTooLarge, "too large")
			return
		}
		c.String(http.StatusOK, "ok")
	})

	w := serve(r, httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString("short")))
	if w.Code != http.StatusOK {
		t.Fatalf("small body = %d", w.Code)
	}

	w = serve(r, httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString("this body is far too long")))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("large body = %d", w.Code)
	}
}

func Test_groupWithPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, tc := range []struct {
		prefix, path string
	}{
		{"", "/ping"},
		{"/", "/ping"},
		{"/api/v9", "/api/v9/ping"},
	} {
		r := gin.New()
		groupWithPrefix(r, tc.prefix).GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

		w := serve(r, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if w.Code != http.StatusNoContent {
			t.Fatalf("prefix %q: GET %s = %d", tc.prefix, tc.path, w.Code)
		}
	}
}

func TestRegisterRoutes_BuyersRequireSession(t *testing.T) {
	r := newRouter(t, testConfig())

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/buyers", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous list = %d", w.Code)
	}
}

func TestRegisterRoutes_DevLoginDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Session.DevLogin = false
	r := newRouter(t, cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/session", strings.NewReader(`{"email":"a@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	w := serve(r, req)
	// DELETE /auth/session still exists, so the method is the mismatch.
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("login with dev login off = %d", w.Code)
	}
}

func login(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/session", strings.NewReader(`{"email":"`+email+`"}`))
	req.Header.Set("Content-Type", "application/json")
	w := serve(r, req)
	if w.Code != http.StatusOK {
		t.Fatalf("login = %d body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil || out.Token == "" {
		t.Fatalf("login body: %v %s", err, w.Body.String())
	}
	return out.Token
}

const buyerJSON = `{"fullName":"Asha Rao","phone":"9876543210","city":"Mohali","propertyType":"Apartment","bhk":"2","purpose":"Buy","timeline":"0-3m","source":"Website"}`

func TestPipeline_Smoke(t *testing.T) {
	r := newRouter(t, testConfig())
	token := login(t, r, "agent@example.com")

	post := func(key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/buyers", strings.NewReader(buyerJSON))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		if key != "" {
			req.Header.Set(middleware.HeaderIdempotencyKey, key)
		}
		return serve(r, req)
	}

	w := post("first")
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d body=%s", w.Code, w.Body.String())
	}
	if rid := w.Header().Get("X-Request-ID"); rid == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}
	if got := w.Header().Get(middleware.HeaderRateLimit); got != "2" {
		t.Fatalf("X-RateLimit-Limit = %q", got)
	}
	if got := w.Header().Get(middleware.HeaderRateRemaining); got != "1" {
		t.Fatalf("X-RateLimit-Remaining = %q", got)
	}

	// A replay answers from the stored key without spending quota.
	w = post("first")
	if w.Code != http.StatusCreated || w.Header().Get("Idempotency-Replayed") != "true" {
		t.Fatalf("replay = %d replayed=%q", w.Code, w.Header().Get("Idempotency-Replayed"))
	}

	if w = post(""); w.Code != http.StatusCreated {
		t.Fatalf("second create = %d", w.Code)
	}
	w = post("")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("third create = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After on 429")
	}

	// Reads are not quota-limited and see both leads.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/buyers", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = serve(r, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list = %d", w.Code)
	}
	var page struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("list body: %v", err)
	}
	if len(page.Data) != 2 {
		t.Fatalf("list returned %d rows, want 2", len(page.Data))
	}
}

func TestPipeline_ImportBodyCap(t *testing.T) {
	r := newRouter(t, testConfig())
	token := login(t, r, "agent@example.com")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "big.csv")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	// Past MaxBytes plus the multipart allowance.
	_, _ = fw.Write(bytes.Repeat([]byte("x"), 1<<10+multipartSlack+1))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/buyers/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := serve(r, req)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("oversized import = %d body=%s", w.Code, w.Body.String())
	}
}
