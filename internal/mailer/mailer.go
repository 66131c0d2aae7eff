// Package mailer delivers the API's outbound e-mail.
//
// Two Sender implementations exist:
//
//   - SMTP: RFC 5322 multipart/alternative messages over net/smtp with
//     STARTTLS (default), implicit TLS ("ssl") or no encryption ("none").
//     Sends are throttled with a token bucket so a burst of contact
//     submissions cannot exhaust the provider's quota.
//   - Noop: drops messages after logging them at debug level. Used when no
//     SMTP host is configured (development, tests).
//
// Every attempt increments email_sent_total{kind,result}.
package mailer

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// ErrNotConfigured is returned by Verify when no transport is configured.
var ErrNotConfigured = errors.New("mailer: smtp is not configured")

// Message is a single outbound e-mail. Text is required; HTML is optional
// and is sent as the preferred alternative when present.
type Message struct {
	Kind    string // metrics label, e.g. "contact_notification"
	To      []string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, m Message) error
	// Verify checks that the transport is reachable and accepts the
	// configured credentials.
	Verify(ctx context.Context) error
}

var emailSent = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "email_sent_total",
		Help: "Outbound e-mail attempts by message kind and result.",
	},
	[]string{"kind", "result"},
)

func init() {
	prometheus.MustRegister(emailSent)
}

func observe(kind string, err error) {
	if kind == "" {
		kind = "generic"
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	emailSent.WithLabelValues(kind, result).Inc()
}

// Noop discards messages.
type Noop struct{}

// Send logs the message envelope at debug level and returns nil.
func (Noop) Send(ctx context.Context, m Message) error {
	zerolog.Ctx(ctx).Debug().
		Str("kind", m.Kind).
		Int("recipients", len(m.To)).
		Str("subject", m.Subject).
		Msg("email skipped: smtp not configured")
	observe(m.Kind, nil)
	return nil
}

// Verify always reports ErrNotConfigured.
func (Noop) Verify(context.Context) error { return ErrNotConfigured }
