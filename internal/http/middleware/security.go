// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides SecurityHeaders, a hardening middleware that attaches a
// conservative set of HTTP security headers suitable for JSON APIs running
// behind a reverse proxy, and SecurityMonitor, which flags requests that look
// like probing (path traversal, SQL or script injection) in the logs.
//
// Design notes:
//   - No CSP here (only relevant when serving HTML)
//   - HSTS is opt-in and only applied when the request is actually HTTPS
//   - SecurityMonitor only logs; it never blocks a request
package middleware

import (
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// SecurityOptions configures HTTP security headers emitted by SecurityHeaders.
//
// EnableHSTS controls whether to emit Strict-Transport-Security for HTTPS
// requests (never for plain HTTP). It is switched on in production.
//
// HSTSMaxAge is the lifetime for HSTS. Defaults to one year.
//
// NoStore, when true, adds Cache-Control: no-store (plus legacy Pragma/Expires)
// to prevent caching of sensitive API responses.
//
// EnablePolicy controls whether browser feature policies are sent
// (Permissions-Policy and X-Permitted-Cross-Domain-Policies).
type SecurityOptions struct {
	EnableHSTS   bool
	HSTSMaxAge   time.Duration
	NoStore      bool
	EnablePolicy bool
}

// SecurityHeaders returns a Gin middleware that adds security headers to
// each response.
//
// Behavior:
//   - Always sets:
//     X-Content-Type-Options: nosniff
//     X-Frame-Options: DENY
//     X-XSS-Protection: 1; mode=block
//     Referrer-Policy: strict-origin-when-cross-origin
//   - Always removes Server and X-Powered-By.
//   - Optionally sets (when EnablePolicy):
//     Permissions-Policy: geolocation=(), microphone=(), camera=()
//     X-Permitted-Cross-Domain-Policies: none
//   - Optionally sets (when NoStore):
//     Cache-Control: no-store, Pragma: no-cache, Expires: 0
//   - Optionally sets (when EnableHSTS && request is HTTPS):
//     Strict-Transport-Security: max-age=<seconds>; includeSubDomains; preload
//   - Exposes X-Request-ID via Access-Control-Expose-Headers so browser
//     clients can read it.
func SecurityHeaders(opt SecurityOptions) gin.HandlerFunc {
	maxAge := int(opt.HSTSMaxAge.Seconds())
	if maxAge <= 0 {
		maxAge = int((365 * 24 * time.Hour).Seconds())
	}
	hsts := "max-age=" + strconv.Itoa(maxAge) + "; includeSubDomains; preload"

	return func(c *gin.Context) {
		h := c.Writer.Header()

		h.Del("Server")
		h.Del("X-Powered-By")

		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-XSS-Protection", "1; mode=block")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

		if opt.EnablePolicy {
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
			h.Set("X-Permitted-Cross-Domain-Policies", "none")
		}

		if opt.NoStore {
			h.Set("Cache-Control", "no-store")
			h.Set("Pragma", "no-cache")
			h.Set("Expires", "0")
		}

		if opt.EnableHSTS && isHTTPS(c.Request) {
			h.Set("Strict-Transport-Security", hsts)
		}

		if rid := h.Get(HeaderRequestID); rid != "" {
			const hdr = "Access-Control-Expose-Headers"
			cur := h.Get(hdr)
			if cur == "" {
				h.Set(hdr, HeaderRequestID)
			} else if !strings.Contains(cur, HeaderRequestID) {
				h.Set(hdr, cur+", "+HeaderRequestID)
			}
		}

		c.Next()
	}
}

// isHTTPS reports whether the incoming request used HTTPS either directly
// (r.TLS != nil) or via a reverse proxy that set X-Forwarded-Proto: https.
func isHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// suspiciousPatterns are matched against the decoded URL and query.
var suspiciousPatterns = []struct {
	name string
	re   *regexp.Regexp
}{
	{"path_traversal", regexp.MustCompile(`\.\./`)},
	{"sql_injection_attempt", regexp.MustCompile(`(?i)union.*select`)},
	{"xss_attempt", regexp.MustCompile(`(?i)<script`)},
	{"javascript_injection", regexp.MustCompile(`(?i)javascript:`)},
	{"vbscript_injection", regexp.MustCompile(`(?i)vbscript:`)},
	{"event_handler_injection", regexp.MustCompile(`(?i)onload`)},
}

// SuspiciousPattern returns the name of the first probing pattern found in
// s, or "".
func SuspiciousPattern(s string) string {
	for _, p := range suspiciousPatterns {
		if p.re.MatchString(s) {
			return p.name
		}
	}
	return ""
}

// SecurityMonitor logs a security warning for requests whose URL or query
// looks like an injection or traversal probe. It never blocks.
func SecurityMonitor() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Request.URL.RequestURI()
		probe := raw
		if dec, err := url.QueryUnescape(raw); err == nil {
			probe = dec
		}
		if name := SuspiciousPattern(probe); name != "" {
			LoggerFrom(c).Warn().
				Str("event", "security_event").
				Str("type", name).
				Str("method", c.Request.Method).
				Str("url", truncate(raw, maxQueryLogLength)).
				Msg("suspicious request detected")
		}
		c.Next()
	}
}
