// Package handlers exposes the REST endpoints of the portfolio API.
//
// Handlers are transport-thin: they bind and validate input, call the
// application services, and translate results into success envelopes.
// Every failure is forwarded with fail() to middleware.ErrorTerminal.
package handlers

import (
	"context"
	"time"

	"github.com/tbourn/go-portfolio-backend/internal/domain"
	"github.com/tbourn/go-portfolio-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// ContactService defines the contact-form operations consumed by handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ContactService interface {
	// Submit persists a validated submission and sends notification e-mail.
	Submit(ctx context.Context, in services.ContactInput) (*domain.Contact, error)
	// ListPage returns a newest-first page and the total count.
	ListPage(ctx context.Context, status string, page, limit int) ([]domain.Contact, int64, error)
	// Get returns one submission by id.
	Get(ctx context.Context, id string) (*domain.Contact, error)
	// UpdateStatus moves a submission to another status.
	UpdateStatus(ctx context.Context, id, status string) (*domain.Contact, error)
	// Stats returns the count and latest update, used for ETags.
	Stats(ctx context.Context, status string) (int64, *time.Time, error)
	// Replay returns the submission previously created under key.
	Replay(ctx context.Context, clientKey, key string) (*domain.Contact, bool, error)
	// Remember records that key produced submission id.
	Remember(ctx context.Context, clientKey, key, id string, status int) error
}

// SkillService defines skill catalogue reads.
type SkillService interface {
	Catalog(ctx context.Context) (*services.SkillCatalog, error)
	Category(ctx context.Context, category string) (string, []domain.Skill, error)
}

// ProfileService defines the about document read.
type ProfileService interface {
	About(ctx context.Context) (*services.About, error)
}

//
// Handler wiring
//

// Options carries static metadata and the clock used by utility endpoints.
type Options struct {
	// ServiceName is reported by /api/info (e.g. "portfolio-api").
	ServiceName string
	Version     string
	Environment string
	// Author is the portfolio owner's display name.
	Author string
	// Clock defaults to time.Now.
	Clock func() time.Time
	// Location is the zone for the day check. Defaults to time.Local.
	Location *time.Location
	// TimezoneName overrides the reported zone name (an IANA name).
	TimezoneName string
}

// Handlers groups HTTP endpoints for contact, profile, skills and utility
// routes. It depends on abstract service interfaces to keep transport
// concerns separate from business logic.
type Handlers struct {
	contacts ContactService
	skills   SkillService
	profile  ProfileService
	opts     Options
}

// New constructs a Handlers bound to the given services.
func New(contacts ContactService, skills SkillService, profile ProfileService, opts Options) *Handlers {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.ServiceName == "" {
		opts.ServiceName = "portfolio-api"
	}
	RegisterValidators()
	return &Handlers{contacts: contacts, skills: skills, profile: profile, opts: opts}
}

func (h *Handlers) now() time.Time { return h.opts.Clock() }
