// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements AccessLogger, the structured access log. It scrubs
// obvious PII from request metadata before emitting logs.
//
// Design goals:
//   - Default-safe: never logs request or response bodies
//   - Redacts common identifiers (emails, phone numbers, UUIDs)
//   - Masks sensitive headers (Authorization, Cookie, Set-Cookie, plus custom)
//   - Severity follows the response status; slow requests get a warn line
//
// Usage:
//
//	r.Use(middleware.RequestContextDecorator())
//	r.Use(middleware.AccessLogger(middleware.AccessLogOptions{
//	    MaskHeaders:   []string{"X-Api-Key"},
//	    SlowThreshold: time.Second,
//	}))
//
// The logger is taken from the RequestContext, so each line already carries
// correlation_id, client_ip and user_agent.
package middleware

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// maxQueryLogLength caps the number of bytes of the raw query string logged.
const maxQueryLogLength = 2048

// AccessLogOptions configures AccessLogger.
//
// MaskHeaders specifies extra HTTP header names whose values will be fully
// replaced with "[REDACTED]". Matching is case-insensitive and merged with
// built-in sensitive headers ("Authorization", "Cookie", "Set-Cookie").
//
// SlowThreshold, when > 0, emits an extra "slow request" warning for
// requests that take longer.
type AccessLogOptions struct {
	MaskHeaders   []string
	SlowThreshold time.Duration
}

var (
	uuidRE  = regexp.MustCompile(`(?i)\b[0-9a-f]{8}\-[0-9a-f]{4}\-[1-5][0-9a-f]{3}\-[89ab][0-9a-f]{3}\-[0-9a-f]{12}\b`)
	emailRE = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)
	// Digits-only so hex runs inside UUIDs never match.
	phoneRE = regexp.MustCompile(`\b(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`)
)

// redactor scrubs PII from strings and header sets.
type redactor struct {
	mask map[string]struct{}
}

func newRedactor(extra []string) redactor {
	mask := map[string]struct{}{
		"authorization": {},
		"cookie":        {},
		"set-cookie":    {},
	}
	for _, h := range extra {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			mask[h] = struct{}{}
		}
	}
	return redactor{mask: mask}
}

// redact replaces ids, then e-mails, then phone numbers. The phone pattern
// is the loosest so it runs last.
func (redactor) redact(s string) string {
	if s == "" {
		return s
	}
	s = uuidRE.ReplaceAllString(s, "[REDACTED:id]")
	s = emailRE.ReplaceAllString(s, "[REDACTED:email]")
	return phoneRE.ReplaceAllString(s, "[REDACTED:phone]")
}

func (r redactor) headers(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, vv := range h {
		if _, ok := r.mask[strings.ToLower(k)]; ok {
			out[k] = "[REDACTED]"
			continue
		}
		out[k] = r.redact(strings.Join(vv, ", "))
	}
	return out
}

// AccessLogger returns a Gin middleware that logs HTTP requests and
// responses with sensitive values scrubbed.
//
// Behavior:
//   - Logs method, route, query string, status, sizes, latency and request
//     headers with scrubbing applied.
//   - INFO for 2xx/3xx, WARN for 4xx, ERROR for 5xx.
//   - A separate WARN "slow request" line when latency exceeds
//     opts.SlowThreshold.
func AccessLogger(opts AccessLogOptions) gin.HandlerFunc {
	rd := newRedactor(opts.MaskHeaders)

	return func(c *gin.Context) {
		start := time.Now()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		safeQuery := truncate(rd.redact(c.Request.URL.RawQuery), maxQueryLogLength)
		safeHeaders := rd.headers(c.Request.Header)

		c.Next()

		latency := time.Since(start)
		status := FinalStatus(c)
		lg := LoggerFrom(c)

		ev := lg.Info()
		switch {
		case status >= 500:
			ev = lg.Error()
		case status >= 400:
			ev = lg.Warn()
		}
		ev.
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", safeQuery).
			Int("status", status).
			Int64("bytes_in", c.Request.ContentLength).
			Int("bytes_out", c.Writer.Size()).
			Dur("latency", latency).
			Interface("headers", safeHeaders).
			Msg("http_request")

		if opts.SlowThreshold > 0 && latency > opts.SlowThreshold {
			lg.Warn().
				Str("event", "slow_request").
				Str("method", c.Request.Method).
				Str("path", path).
				Dur("latency", latency).
				Dur("threshold", opts.SlowThreshold).
				Msg("slow request")
		}
	}
}
