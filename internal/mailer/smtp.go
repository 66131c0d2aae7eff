package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Encryption modes.
const (
	EncryptionStartTLS = "starttls"
	EncryptionSSL      = "ssl"
	EncryptionNone     = "none"
)

// Config holds SMTP transport settings.
type Config struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string // bare address or "Name <addr>"
	Encryption string
	RatePerSec float64 // <= 0 disables throttling
	Timeout    time.Duration
}

// SMTP sends mail through an SMTP relay.
type SMTP struct {
	cfg     Config
	from    mail.Address
	limiter *rate.Limiter
	now     func() time.Time
}

// NewSMTP validates cfg and returns a ready transport.
func NewSMTP(cfg Config) (*SMTP, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, ErrNotConfigured
	}
	if cfg.Port <= 0 {
		cfg.Port = 587
	}
	switch cfg.Encryption {
	case "":
		cfg.Encryption = EncryptionStartTLS
	case EncryptionStartTLS, EncryptionSSL, EncryptionNone:
	default:
		return nil, fmt.Errorf("mailer: unknown encryption %q", cfg.Encryption)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	fromRaw := cfg.From
	if fromRaw == "" {
		fromRaw = cfg.Username
	}
	from, err := mail.ParseAddress(fromRaw)
	if err != nil {
		return nil, fmt.Errorf("mailer: invalid from address %q: %w", fromRaw, err)
	}

	limit := rate.Inf
	if cfg.RatePerSec > 0 {
		limit = rate.Limit(cfg.RatePerSec)
	}
	return &SMTP{
		cfg:     cfg,
		from:    *from,
		limiter: rate.NewLimiter(limit, 1),
		now:     time.Now,
	}, nil
}

func (s *SMTP) addr() string {
	return net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
}

// Send waits for a throttle slot and delivers m.
func (s *SMTP) Send(ctx context.Context, m Message) (err error) {
	defer func() { observe(m.Kind, err) }()

	if len(m.To) == 0 {
		return fmt.Errorf("mailer: message has no recipients")
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("mailer: throttle: %w", err)
	}
	body, err := s.render(m)
	if err != nil {
		return err
	}
	c, err := s.dial(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.Mail(s.from.Address); err != nil {
		return fmt.Errorf("MAIL FROM: %w", err)
	}
	for _, rcpt := range m.To {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("RCPT TO %s: %w", rcpt, err)
		}
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("writing message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing data: %w", err)
	}
	return c.Quit()
}

// Verify connects, negotiates encryption, authenticates and quits.
func (s *SMTP) Verify(ctx context.Context) error {
	c, err := s.dial(ctx)
	if err != nil {
		return err
	}
	defer c.Close()
	return c.Quit()
}

// dial returns a client that has completed encryption and authentication.
func (s *SMTP) dial(ctx context.Context) (*smtp.Client, error) {
	d := &net.Dialer{Timeout: s.cfg.Timeout}
	addr := s.addr()
	tlsConfig := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}

	var (
		conn net.Conn
		err  error
	)
	if s.cfg.Encryption == EncryptionSSL {
		conn, err = (&tls.Dialer{NetDialer: d, Config: tlsConfig}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = d.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", addr, err)
	}
	deadline := time.Now().Add(s.cfg.Timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	_ = conn.SetDeadline(deadline)

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("creating smtp client: %w", err)
	}
	if s.cfg.Encryption == EncryptionStartTLS {
		if err := c.StartTLS(tlsConfig); err != nil {
			c.Close()
			return nil, fmt.Errorf("starting TLS: %w", err)
		}
	}
	if s.cfg.Username != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
			if err := c.Auth(auth); err != nil {
				c.Close()
				return nil, fmt.Errorf("authenticating: %w", err)
			}
		}
	}
	return c, nil
}

// headerSafe strips CR and LF so user input cannot inject headers.
func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}

// render builds a multipart/alternative RFC 5322 message.
func (s *SMTP) render(m Message) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	to := make([]string, 0, len(m.To))
	for _, addr := range m.To {
		to = append(to, headerSafe(addr))
	}
	headers := [][2]string{
		{"From", s.from.String()},
		{"To", strings.Join(to, ", ")},
		{"Reply-To", headerSafe(m.ReplyTo)},
		{"Subject", mime.QEncoding.Encode("utf-8", headerSafe(m.Subject))},
		{"Date", s.now().UTC().Format(time.RFC1123Z)},
		{"Message-ID", "<" + uuid.NewString() + "@" + s.cfg.Host + ">"},
		{"MIME-Version", "1.0"},
		{"Content-Type", "multipart/alternative; boundary=" + mw.Boundary()},
	}
	var head bytes.Buffer
	for _, kv := range headers {
		if kv[1] != "" {
			fmt.Fprintf(&head, "%s: %s\r\n", kv[0], kv[1])
		}
	}
	head.WriteString("\r\n")

	if err := writePart(mw, "text/plain; charset=UTF-8", m.Text); err != nil {
		return nil, err
	}
	if m.HTML != "" {
		if err := writePart(mw, "text/html; charset=UTF-8", m.HTML); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	return append(head.Bytes(), buf.Bytes()...), nil
}

func writePart(mw *multipart.Writer, contentType, body string) error {
	pw, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {contentType},
		"Content-Transfer-Encoding": {"quoted-printable"},
	})
	if err != nil {
		return err
	}
	qp := quotedprintable.NewWriter(pw)
	if _, err := qp.Write([]byte(body)); err != nil {
		return err
	}
	return qp.Close()
}
