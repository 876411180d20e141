// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// compression, CORS, security headers, sessions, idempotency, and rate
// limiting.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-leads-backend/internal/auth"
	"github.com/tbourn/go-leads-backend/internal/config"
	"github.com/tbourn/go-leads-backend/internal/http/handlers"
	"github.com/tbourn/go-leads-backend/internal/http/middleware"
	"github.com/tbourn/go-leads-backend/internal/ratelimit"
	"github.com/tbourn/go-leads-backend/internal/services"
	"github.com/tbourn/go-leads-backend/internal/validation"
)

// jsonBodyLimit caps JSON request bodies.
const jsonBodyLimit = 1 << 20

// multipartSlack covers multipart framing around an uploaded file.
const multipartSlack = 64 << 10

// Deps are the long-lived collaborators the routes need.
type Deps struct {
	DB      *gorm.DB
	Limiter ratelimit.Limiter
	Tokens  *auth.TokenManager
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine.
//
// Global middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Access logging (redacted unless GIN_MODE=debug)
//  4. Recovery: capture panics after logger
//  5. Metrics
//  6. gzip
//  7. CORS and security headers
//
// Lead routes then run RequireSession → edge token bucket → per-route body
// cap → idempotency (create only) → per-action quota → handler.
func RegisterRoutes(r *gin.Engine, deps Deps, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	if cfg.GinMode == gin.DebugMode {
		r.Use(middleware.Logger())
	} else {
		r.Use(middleware.RedactingLogger(middleware.RedactOptions{
			MaskHeaders: []string{"X-API-Key"},
		}))
	}
	r.Use(middleware.Recovery())

	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	allowHeaders := []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderIdempotencyKey, "If-None-Match"}
	exposeHeaders := []string{
		"X-Request-ID", "Content-Length", "Content-Disposition", "ETag", "Retry-After",
		middleware.HeaderRateLimit, middleware.HeaderRateRemaining, middleware.HeaderRateReset,
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header.
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: true, // session cookie
			MaxAge:           12 * time.Hour,
		}))
	}

	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) {
		if sqlDB, err := deps.DB.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← db
	v := validation.New(validation.BHKPolicy(cfg.BHKPolicy))
	buyerSvc := services.NewBuyerService(deps.DB, v)
	buyerSvc.RequireToken = cfg.RequireConcurrencyToken
	buyerSvc.MaxImportRows = cfg.Import.MaxRows
	buyerSvc.MaxImportBytes = cfg.Import.MaxBytes

	sessSvc := &services.SessionService{DB: deps.DB, Tokens: deps.Tokens, Validator: v}
	idemSvc := &services.IdempotencyService{DB: deps.DB, TTL: cfg.IdempotencyTTL}

	var login handlers.SessionService
	if cfg.Session.DevLogin {
		login = sessSvc
	}
	h := handlers.New(buyerSvc, login, idemSvc)

	edge := middleware.NewEdgeLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	quota := func(action string, limit int) gin.HandlerFunc {
		return middleware.ActionLimit(deps.Limiter, action, limit, cfg.Limits.Window)
	}
	idem := middleware.IdempotencyValidator(handlers.ScopeCreateBuyer, middleware.IdempotencyOptions{MaxLen: 200}, idemSvc.Lookup)

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath) // e.g. "/api/v1"
	{
		if cfg.Session.DevLogin {
			api.POST("/auth/session", edge.Handler(), limitBody(jsonBodyLimit), h.Login)
		}
		api.DELETE("/auth/session", h.Logout)

		authed := api.Group("", middleware.RequireSession(sessSvc), edge.Handler())
		authed.GET("/auth/me", h.Me)

		b := authed.Group("/buyers")
		b.GET("", h.ListBuyers)
		b.POST("", limitBody(jsonBodyLimit), idem, quota("create", cfg.Limits.Create), h.CreateBuyer)
		b.GET("/export", h.ExportBuyers)
		b.POST("/import", limitBody(cfg.Import.MaxBytes+multipartSlack), quota("import", cfg.Limits.Import), h.ImportBuyers)
		b.GET("/:id", h.GetBuyer)
		b.PUT("/:id", limitBody(jsonBodyLimit), quota("update", cfg.Limits.Update), h.UpdateBuyer)
		b.DELETE("/:id", quota("delete", cfg.Limits.Delete), h.DeleteBuyer)
		b.GET("/:id/history", h.BuyerHistory)
	}
}

// limitBody caps the request body at maxBytes using http.MaxBytesReader.
// Requests exceeding the cap cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
