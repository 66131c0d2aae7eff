// Package services – ContactService
//
// This file implements ContactService, which owns the lifecycle of contact
// form submissions. It normalizes submitter input, persists the composed
// record, and then sends the operator notification and the submitter
// confirmation. Both e-mails are best-effort: a delivery failure is logged
// as a warning and never fails the submission, because the record is already
// stored when the first send is attempted.
//
// It also exposes the admin read side (paginated listing, lookup by id,
// aggregate stats for ETags) and the idempotency bookkeeping that lets a
// client retry a submission without creating a duplicate.
//
// Observability: public methods are OpenTelemetry-instrumented.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/tbourn/go-portfolio-backend/internal/domain"
	"github.com/tbourn/go-portfolio-backend/internal/mailer"
	"github.com/tbourn/go-portfolio-backend/internal/repo"
)

// ScopeContact is the idempotency scope for contact submissions.
const ScopeContact = "contact"

// ContactRepo defines the repository contract required by ContactService.
type ContactRepo interface {
	// CreateContact validates and inserts a submission.
	CreateContact(ctx context.Context, db *gorm.DB, c *domain.Contact) error

	// GetContact fetches a submission by UUID.
	GetContact(ctx context.Context, db *gorm.DB, id string) (*domain.Contact, error)

	// CountContacts returns the total matching f for pagination.
	CountContacts(ctx context.Context, db *gorm.DB, f repo.ContactFilter) (int64, error)

	// ListContactsPage returns a newest-first page of submissions.
	ListContactsPage(ctx context.Context, db *gorm.DB, f repo.ContactFilter, offset, limit int) ([]domain.Contact, error)

	// UpdateContactStatus moves a submission to another lifecycle status.
	UpdateContactStatus(ctx context.Context, db *gorm.DB, id, status string) error

	// ContactsStats returns the count and latest update among matches.
	ContactsStats(ctx context.Context, db *gorm.DB, f repo.ContactFilter) (int64, *time.Time, error)

	// GetIdempotency returns a live idempotency record or repo.ErrNotFound.
	GetIdempotency(ctx context.Context, db *gorm.DB, clientKey, scope, key string, now time.Time) (*domain.Idempotency, error)

	// CreateIdempotency stores an idempotency record.
	CreateIdempotency(ctx context.Context, db *gorm.DB, clientKey, scope, key, resourceID string, status int, ttl time.Duration) (*domain.Idempotency, error)
}

// ContactInput is an already-validated submission plus client metadata.
type ContactInput struct {
	Name      string
	Email     string
	Subject   string
	Message   string
	IPAddress string
	UserAgent string
}

// ContactService coordinates submission persistence and notification e-mail.
type ContactService struct {
	DB     *gorm.DB
	Repo   ContactRepo
	Mailer mailer.Sender

	// NotifyTo receives operator notifications. Empty disables them.
	NotifyTo string
	// OwnerName signs the submitter confirmation.
	OwnerName string
	// IdempotencyTTL is how long a submission can be replayed by key.
	IdempotencyTTL time.Duration

	// Now is swapped in tests.
	Now func() time.Time
}

// NewContactService constructs a ContactService with a no-op mailer and a
// 24h idempotency window.
func NewContactService(db *gorm.DB, r ContactRepo) *ContactService {
	return &ContactService{
		DB:             db,
		Repo:           r,
		Mailer:         mailer.Noop{},
		IdempotencyTTL: 24 * time.Hour,
		Now:            func() time.Time { return time.Now().UTC() },
	}
}

func (s *ContactService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// ComposeMessage builds the stored body from subject and message.
func ComposeMessage(subject, message string) string {
	return "Subject: " + subject + "\n\n" + message
}

// Submit normalizes in, persists the composed submission, and sends the
// notification and confirmation e-mails best-effort.
func (s *ContactService) Submit(ctx context.Context, in ContactInput) (*domain.Contact, error) {
	ctx, span := otel.Tracer("services/ContactService").Start(ctx, "Submit")
	defer span.End()

	name := strings.TrimSpace(in.Name)
	email := cases.Lower(language.Und).String(strings.TrimSpace(in.Email))
	subject := strings.TrimSpace(in.Subject)
	message := strings.TrimSpace(in.Message)

	c := &domain.Contact{
		Name:        name,
		Email:       email,
		Subject:     subject,
		Message:     ComposeMessage(subject, message),
		SubmittedAt: s.now(),
		IPAddress:   in.IPAddress,
		UserAgent:   in.UserAgent,
		Status:      domain.ContactStatusNew,
	}
	if err := s.Repo.CreateContact(ctx, s.DB, c); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("contact.id", c.ID))

	log := zerolog.Ctx(ctx)
	log.Info().
		Str("event", "contact_submitted").
		Str("submission_id", c.ID).
		Str("subject", subject).
		Msg("contact form submitted")

	sub := mailer.Submission{
		Name:        name,
		Email:       email,
		Subject:     subject,
		Message:     message,
		SubmittedAt: c.SubmittedAt,
		IPAddress:   in.IPAddress,
	}
	// The record is stored; a dropped client connection must not abort delivery.
	sendCtx := context.WithoutCancel(ctx)
	if s.NotifyTo != "" {
		s.deliver(sendCtx, mailer.ContactNotification(s.NotifyTo, sub), c.ID)
	}
	s.deliver(sendCtx, mailer.ContactConfirmation(s.OwnerName, sub), c.ID)

	return c, nil
}

func (s *ContactService) deliver(ctx context.Context, m mailer.Message, submissionID string) {
	if s.Mailer == nil {
		return
	}
	if err := s.Mailer.Send(ctx, m); err != nil {
		trace.SpanFromContext(ctx).AddEvent("email_failed",
			trace.WithAttributes(attribute.String("email.kind", m.Kind)))
		zerolog.Ctx(ctx).Warn().
			Err(err).
			Str("reason", err.Error()).
			Str("kind", m.Kind).
			Str("submission_id", submissionID).
			Msg("failed to send contact email")
	}
}

// ListPage returns a newest-first page of submissions and the total count.
// status may be empty; otherwise it must be a known contact status.
func (s *ContactService) ListPage(ctx context.Context, status string, page, limit int) ([]domain.Contact, int64, error) {
	ctx, span := otel.Tracer("services/ContactService").Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.String("contact.status", status),
			attribute.Int("page", page),
			attribute.Int("limit", limit),
		),
	)
	defer span.End()

	if status != "" && !domain.IsValidContactStatus(status) {
		return nil, 0, ErrInvalidStatus
	}
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	f := repo.ContactFilter{Status: status}

	total, err := s.Repo.CountContacts(ctx, s.DB, f)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Contact{}, 0, nil
	}
	items, err := s.Repo.ListContactsPage(ctx, s.DB, f, (page-1)*limit, limit)
	return items, total, err
}

// Get returns a single submission. Malformed ids surface as the repository's
// *repo.InvalidIDError; missing rows as ErrContactNotFound.
func (s *ContactService) Get(ctx context.Context, id string) (*domain.Contact, error) {
	ctx, span := otel.Tracer("services/ContactService").Start(ctx, "Get",
		trace.WithAttributes(attribute.String("contact.id", id)))
	defer span.End()

	c, err := s.Repo.GetContact(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrContactNotFound
	}
	return c, err
}

// UpdateStatus moves a submission to status and returns the updated record.
func (s *ContactService) UpdateStatus(ctx context.Context, id, status string) (*domain.Contact, error) {
	ctx, span := otel.Tracer("services/ContactService").Start(ctx, "UpdateStatus",
		trace.WithAttributes(
			attribute.String("contact.id", id),
			attribute.String("contact.status", status),
		),
	)
	defer span.End()

	if !domain.IsValidContactStatus(status) {
		return nil, ErrInvalidStatus
	}
	if err := s.Repo.UpdateContactStatus(ctx, s.DB, id, status); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

// Stats returns the count and latest update among submissions with status.
func (s *ContactService) Stats(ctx context.Context, status string) (int64, *time.Time, error) {
	return s.Repo.ContactsStats(ctx, s.DB, repo.ContactFilter{Status: status})
}

// Replay returns the submission previously stored under (clientKey, key).
// ok is false when the key is unknown or expired.
func (s *ContactService) Replay(ctx context.Context, clientKey, key string) (c *domain.Contact, ok bool, err error) {
	if key == "" {
		return nil, false, nil
	}
	rec, err := s.Repo.GetIdempotency(ctx, s.DB, clientKey, ScopeContact, key, s.now())
	if errors.Is(err, repo.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	c, err = s.Repo.GetContact(ctx, s.DB, rec.ResourceID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return c, true, nil
}

// Remember records that key produced submission id. A concurrent request
// that already stored the key wins; that case is not an error.
func (s *ContactService) Remember(ctx context.Context, clientKey, key, id string, status int) error {
	if key == "" {
		return nil
	}
	_, err := s.Repo.CreateIdempotency(ctx, s.DB, clientKey, ScopeContact, key, id, status, s.IdempotencyTTL)
	if errors.Is(err, repo.ErrDuplicate) {
		return nil
	}
	return err
}
