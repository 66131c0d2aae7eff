// Command server runs the portfolio API.
//
// @title                      Portfolio API
// @version                    1.0.0
// @description                Portfolio backend: profile, skills, contact form and utility endpoints.
// @BasePath                   /api
// @schemes                    http https
// @produce                    json
// @consumes                   json
// @tag.name                   Portfolio
// @tag.description            Profile and skills
// @tag.name                   Contact
// @tag.description            Contact-form submissions
// @tag.name                   Utility
// @tag.description            The Friday check
// @tag.name                   Meta
// @tag.description            Health, service metadata and the endpoint catalogue
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-portfolio-backend/docs"
	"github.com/tbourn/go-portfolio-backend/internal/config"
	httpapi "github.com/tbourn/go-portfolio-backend/internal/http"
	"github.com/tbourn/go-portfolio-backend/internal/mailer"
	"github.com/tbourn/go-portfolio-backend/internal/observability"
	"github.com/tbourn/go-portfolio-backend/internal/ratelimit"
	"github.com/tbourn/go-portfolio-backend/internal/repo"
	"github.com/tbourn/go-portfolio-backend/internal/sysutil"
	"github.com/tbourn/go-portfolio-backend/internal/tracking"
)

// purgeInterval is how often expired idempotency records are deleted.
const purgeInterval = time.Hour

func main() {
	os.Exit(serve())
}

// serve returns the process exit code so deferred cleanup runs before exit.
// A panic recovered in development still exits non-zero.
func serve() (code int) {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}

	sysutil.SetupLogger(os.Stdout, cfg.LogLevel, cfg.LogPretty, cfg.OTEL.ServiceName)
	sup := sysutil.NewSupervisor(cfg.IsProduction())
	defer sup.Recover("main")
	code = 1

	if err := run(cfg, sup); err != nil {
		log.Error().Err(err).Msg("server exited")
		return 1
	}
	return 0
}

func run(cfg config.Config, sup *sysutil.Supervisor) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("env", cfg.Env).
		Str("version", cfg.Version).
		Str("port", cfg.Port).
		Msg("starting portfolio API")

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, observability.Build{
		Version:     cfg.Version,
		Environment: cfg.Env,
	})
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	db, err := repo.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	log.Info().Msg("database ready")

	store, closeStore := rateStore(ctx, cfg.RateLimit)
	defer closeStore()

	sender, err := newMailer(cfg.Email)
	if err != nil {
		return fmt.Errorf("mailer: %w", err)
	}
	sup.Go("smtp-verify", func() {
		vctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := sender.Verify(vctx); err != nil && !errors.Is(err, mailer.ErrNotConfigured) {
			log.Warn().Err(err).Msg("smtp verification failed; notifications may not be delivered")
		}
	})

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	docs.SwaggerInfo.Version = cfg.Version

	r := gin.New()
	httpapi.RegisterRoutes(r, db, httpapi.Deps{
		Store:   store,
		Mailer:  sender,
		Tracker: tracking.New(cfg.ErrorTrackingEnabled),
	}, cfg)

	sup.Go("idempotency-purge", func() { purgeLoop(ctx, db) })

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	sup.Go("http", func() {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	})

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	}

	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	sup.Wait()
	log.Info().Msg("server stopped")
	return nil
}

// rateStore returns the Redis store when configured and reachable, and the
// in-memory store otherwise.
func rateStore(ctx context.Context, cfg config.RateLimitConfig) (ratelimit.Store, func()) {
	if cfg.Store != "redis" {
		return ratelimit.NewMemory(), func() {}
	}
	client, err := ratelimit.Dial(ctx, cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable; rate limits are per-process")
		return ratelimit.NewMemory(), func() {}
	}
	log.Info().Msg("rate limits backed by redis")
	return ratelimit.NewRedis(client, "portfolio:rl:"), func() { _ = client.Close() }
}

func newMailer(cfg config.EmailConfig) (mailer.Sender, error) {
	s, err := mailer.NewSMTP(mailer.Config{
		Host:       cfg.Host,
		Port:       cfg.Port,
		Username:   cfg.User,
		Password:   cfg.Pass,
		From:       cfg.From,
		Encryption: cfg.Encryption,
		RatePerSec: cfg.RatePerSec,
		Timeout:    10 * time.Second,
	})
	if errors.Is(err, mailer.ErrNotConfigured) {
		log.Info().Msg("EMAIL_HOST not set; contact notifications disabled")
		return mailer.Noop{}, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func purgeLoop(ctx context.Context, db *gorm.DB) {
	t := time.NewTicker(purgeInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := repo.PurgeExpiredIdempotency(ctx, db, now.UTC())
			if err != nil {
				log.Warn().Err(err).Msg("idempotency purge failed")
				continue
			}
			if n > 0 {
				log.Debug().Int64("deleted", n).Msg("expired idempotency keys purged")
			}
		}
	}
}
