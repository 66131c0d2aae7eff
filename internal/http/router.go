// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, access logging, panic recovery, metrics,
// security headers, CORS, sanitization, idempotency, and rate limiting.
//
// Every stage reports failures with c.Error and aborts; ErrorTerminal is the
// only place an error envelope is rendered.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-portfolio-backend/internal/apperror"
	"github.com/tbourn/go-portfolio-backend/internal/config"
	"github.com/tbourn/go-portfolio-backend/internal/domain"
	"github.com/tbourn/go-portfolio-backend/internal/http/handlers"
	"github.com/tbourn/go-portfolio-backend/internal/http/middleware"
	"github.com/tbourn/go-portfolio-backend/internal/mailer"
	"github.com/tbourn/go-portfolio-backend/internal/ratelimit"
	"github.com/tbourn/go-portfolio-backend/internal/repo"
	"github.com/tbourn/go-portfolio-backend/internal/services"
	"github.com/tbourn/go-portfolio-backend/internal/tracking"
)

// contactRepoShim adapts the repository free functions to the
// services.ContactRepo interface.
type contactRepoShim struct{}

func (contactRepoShim) CreateContact(ctx context.Context, db *gorm.DB, c *domain.Contact) error {
	return repo.CreateContact(ctx, db, c)
}

func (contactRepoShim) GetContact(ctx context.Context, db *gorm.DB, id string) (*domain.Contact, error) {
	return repo.GetContact(ctx, db, id)
}

func (contactRepoShim) CountContacts(ctx context.Context, db *gorm.DB, f repo.ContactFilter) (int64, error) {
	return repo.CountContacts(ctx, db, f)
}

func (contactRepoShim) ListContactsPage(ctx context.Context, db *gorm.DB, f repo.ContactFilter, offset, limit int) ([]domain.Contact, error) {
	return repo.ListContactsPage(ctx, db, f, offset, limit)
}

func (contactRepoShim) UpdateContactStatus(ctx context.Context, db *gorm.DB, id, status string) error {
	return repo.UpdateContactStatus(ctx, db, id, status)
}

func (contactRepoShim) ContactsStats(ctx context.Context, db *gorm.DB, f repo.ContactFilter) (int64, *time.Time, error) {
	return repo.ContactsStats(ctx, db, f)
}

func (contactRepoShim) GetIdempotency(ctx context.Context, db *gorm.DB, clientKey, scope, key string, now time.Time) (*domain.Idempotency, error) {
	return repo.GetIdempotency(ctx, db, clientKey, scope, key, now)
}

func (contactRepoShim) CreateIdempotency(ctx context.Context, db *gorm.DB, clientKey, scope, key, resourceID string, status int, ttl time.Duration) (*domain.Idempotency, error) {
	return repo.CreateIdempotency(ctx, db, clientKey, scope, key, resourceID, status, ttl)
}

// catalogRepoShim serves both services.SkillRepo and services.ProfileRepo.
type catalogRepoShim struct{}

func (catalogRepoShim) GetActiveProfile(ctx context.Context, db *gorm.DB) (*domain.Profile, error) {
	return repo.GetActiveProfile(ctx, db)
}

func (catalogRepoShim) ListActiveSkills(ctx context.Context, db *gorm.DB) ([]domain.Skill, error) {
	return repo.ListActiveSkills(ctx, db)
}

func (catalogRepoShim) ListSkillsByCategory(ctx context.Context, db *gorm.DB, category string) ([]domain.Skill, error) {
	return repo.ListSkillsByCategory(ctx, db, category)
}

func (catalogRepoShim) SkillsLastUpdated(ctx context.Context, db *gorm.DB) (*time.Time, error) {
	return repo.SkillsLastUpdated(ctx, db)
}

// Deps are the process-level collaborators the router needs besides the DB.
type Deps struct {
	// Store backs every limiter class. Defaults to an in-memory store.
	Store ratelimit.Store
	// Mailer delivers contact notifications. Defaults to mailer.Noop.
	Mailer mailer.Sender
	// Tracker receives non-operational errors. Defaults to tracking.Noop.
	Tracker tracking.Tracker
	// Clock defaults to time.Now.
	Clock func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Store == nil {
		d.Store = ratelimit.NewMemory()
	}
	if d.Mailer == nil {
		d.Mailer = mailer.Noop{}
	}
	if d.Tracker == nil {
		d.Tracker = tracking.Noop{}
	}
	if d.Clock == nil {
		d.Clock = time.Now
	}
	return d
}

// bodyLimit caps every request body at 1 MiB.
const bodyLimit = 1 << 20

// RegisterRoutes attaches all middleware and HTTP endpoints to r.
//
// Middleware order matters:
//  1. OpenTelemetry: the span covers error rendering too
//  2. gzip: wraps the writer the terminal renders through
//  3. ErrorTerminal: renders whatever a later stage forwarded
//  4. Request context: correlation id and scoped logger
//  5. Access log, then panic recovery, then metrics
//  6. Security headers, HTTPS redirect, suspicious-input monitor
//  7. Body cap, CORS, sanitization
//  8. Idempotency validator (before rate limiting so replays bypass it)
//  9. General limiter on /api, per-route limiter, handler
func RegisterRoutes(r *gin.Engine, db *gorm.DB, deps Deps, cfg config.Config) {
	deps = deps.withDefaults()
	prod := cfg.IsProduction()
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(middleware.ErrorTerminal(middleware.ErrorOptions{Production: prod, Tracker: deps.Tracker}))
	r.Use(middleware.RequestContextDecorator())
	r.Use(middleware.AccessLogger(middleware.AccessLogOptions{
		MaskHeaders:   []string{"X-API-Key"},
		SlowThreshold: cfg.SlowRequestThreshold,
	}))
	r.Use(middleware.Recovery())
	r.Use(middleware.Metrics())

	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   prod,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		EnablePolicy: true,
	}))
	r.Use(middleware.EnforceHTTPS(prod && cfg.Security.HTTPSOnly))
	r.Use(middleware.SecurityMonitor())

	r.Use(middleware.LimitBody(bodyLimit))
	r.Use(middleware.CORS(middleware.CORSOptions{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Development:    cfg.IsDevelopment(),
	})...)
	r.Use(middleware.Sanitize())

	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{MaxLen: 200},
		func(ctx context.Context, clientKey, key string) (bool, error) {
			_, err := repo.GetIdempotency(ctx, db, clientKey, services.ScopeContact, key, deps.Clock().UTC())
			if errors.Is(err, repo.ErrNotFound) {
				return false, nil
			}
			return err == nil, err
		},
	))

	notFound := func(c *gin.Context) {
		_ = c.Error(apperror.NotFound(fmt.Sprintf("Route %s %s not found", c.Request.Method, c.Request.URL.Path)))
		c.Abort()
	}
	r.NoRoute(notFound)
	r.NoMethod(notFound)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	contactSvc := services.NewContactService(db, contactRepoShim{})
	contactSvc.Mailer = deps.Mailer
	contactSvc.NotifyTo = cfg.Email.To
	contactSvc.OwnerName = cfg.OwnerName
	if cfg.IdempotencyTTL > 0 {
		contactSvc.IdempotencyTTL = cfg.IdempotencyTTL
	}
	contactSvc.Now = func() time.Time { return deps.Clock().UTC() }

	h := handlers.New(
		contactSvc,
		services.NewSkillService(db, catalogRepoShim{}),
		services.NewProfileService(db, catalogRepoShim{}),
		handlers.Options{
			ServiceName:  cfg.OTEL.ServiceName,
			Version:      cfg.Version,
			Environment:  cfg.Env,
			Author:       cfg.OwnerName,
			Clock:        deps.Clock,
			Location:     cfg.Location(),
			TimezoneName: cfg.TimezoneName,
		},
	)

	limits := middleware.NewLimits(deps.Store, middleware.LimitsConfig{
		GeneralWindow: cfg.RateLimit.Window,
		GeneralMax:    cfg.RateLimit.MaxRequests,
		ReadOnlyMax:   cfg.RateLimit.ReadOnlyMax,
		ContactWindow: cfg.RateLimit.ContactWindow,
		ContactMax:    cfg.RateLimit.ContactMax,
		StrictWindow:  cfg.RateLimit.StrictWindow,
		StrictMax:     cfg.RateLimit.StrictMax,
	})

	r.GET("/", h.Root)

	api := r.Group("/api", limits.General.Handler())
	{
		api.GET("/health", h.Health)
		api.GET("/info", h.Info)
		api.GET("/docs", h.Docs)
		api.GET("/isitnotfriday", limits.ReadOnly.Handler(), h.IsItNotFriday)

		api.GET("/about", limits.ReadOnly.Handler(), h.GetAbout)
		api.GET("/skills", limits.ReadOnly.Handler(), h.ListSkills)
		api.GET("/skills/:category", limits.ReadOnly.Handler(), h.GetSkillCategory)

		api.POST("/contact", limits.Contact.Handler(), h.SubmitContact)
		api.GET("/contact", limits.Strict.Handler(), h.ListContacts)
		api.GET("/contact/:id", limits.Strict.Handler(), h.GetContact)
		api.PATCH("/contact/:id", limits.Strict.Handler(), h.UpdateContactStatus)
	}
}
