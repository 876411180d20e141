// Command server runs the buyer-leads HTTP API.
//
//	@title						Buyer Leads API
//	@version					1.0
//	@description				CRUD, CSV import/export and audit history for real-estate buyer leads.
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the session token.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	_ "github.com/tbourn/go-leads-backend/docs"
	"github.com/tbourn/go-leads-backend/internal/auth"
	"github.com/tbourn/go-leads-backend/internal/config"
	httpapi "github.com/tbourn/go-leads-backend/internal/http"
	"github.com/tbourn/go-leads-backend/internal/observability"
	"github.com/tbourn/go-leads-backend/internal/ratelimit"
	"github.com/tbourn/go-leads-backend/internal/repo"
	"github.com/tbourn/go-leads-backend/internal/services"
	"github.com/tbourn/go-leads-backend/internal/sysutil"
)

// Set via -ldflags "-X main.version=...".
var version = ""

// purgeInterval is how often expired idempotency keys are removed.
const purgeInterval = 15 * time.Minute

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("could not read .env")
	}
	cfg := config.MustLoad()
	ver := sysutil.FirstNonEmpty(version, os.Getenv("APP_VERSION"), "dev")
	sysutil.SetupLogger(os.Stderr, cfg.LogLevel, cfg.LogPretty, cfg.OTEL.ServiceName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, ver)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup")
	}

	db, err := repo.Open(cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("open database")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	limiter, closeLimiter := newLimiter(ctx, cfg)
	defer closeLimiter()

	tokens, err := auth.NewTokenManager(cfg.Session.Secret, cfg.Session.TTL)
	if err != nil {
		log.Fatal().Err(err).Msg("session tokens")
	}
	if cfg.Session.Secret == "" {
		log.Warn().Msg("SESSION_SECRET unset; sessions will not survive a restart")
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, httpapi.Deps{
		DB:      db,
		Limiter: limiter,
		Tokens:  tokens,
	}, cfg)

	go purgeIdempotency(ctx, &services.IdempotencyService{DB: db, TTL: cfg.IdempotencyTTL})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("version", ver).
			Str("db", cfg.DB.Driver).
			Str("limits", cfg.Limits.Store).
			Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := shutdownOTel(shCtx); err != nil {
		log.Error().Err(err).Msg("otel shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// newLimiter builds the quota store selected by RATE_LIMIT_STORE.
func newLimiter(ctx context.Context, cfg config.Config) (ratelimit.Limiter, func()) {
	if cfg.Limits.Store != "redis" {
		return ratelimit.NewMemory(), func() {}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		// Quotas fail open, so the API can still serve while Redis is down.
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable")
	}
	return ratelimit.NewRedis(client, "ratelimit:"), func() { _ = client.Close() }
}

func purgeIdempotency(ctx context.Context, svc *services.IdempotencyService) {
	t := time.NewTicker(purgeInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := svc.Purge(ctx)
			if err != nil {
				log.Error().Err(err).Msg("purge idempotency keys")
				continue
			}
			if n > 0 {
				log.Debug().Int64("removed", n).Msg("purged idempotency keys")
			}
		}
	}
}
