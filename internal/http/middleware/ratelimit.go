// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements the named rate limiters. Each limiter class (general,
// readOnly, contact, strict) is a ratelimit.Limit evaluated against a shared
// ratelimit.Store, keyed by client IP:
//
//   - general:  every /api route
//   - readOnly: about, skills, isitnotfriday
//   - contact:  POST /api/contact, with failed requests refunded
//   - strict:   admin contact reads
//
// Every evaluated request gets the draft-standard RateLimit-Limit,
// RateLimit-Remaining and RateLimit-Reset headers. A denied request is
// forwarded to the error terminal as a RateLimit error carrying the retry
// delay, which the terminal turns into Retry-After and "retryAfter".
//
// Notes:
//   - Store failures fail open: the request proceeds and the failure is
//     logged at error level.
//   - Idempotent replays (see IdempotencyValidator) bypass limiting.
package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tbourn/go-portfolio-backend/internal/apperror"
	"github.com/tbourn/go-portfolio-backend/internal/ratelimit"
)

// Rate-limit response headers.
const (
	HeaderRateLimitLimit     = "RateLimit-Limit"
	HeaderRateLimitRemaining = "RateLimit-Remaining"
	HeaderRateLimitReset     = "RateLimit-Reset"
)

// rateLimited counts denied requests per limiter class.
var rateLimited = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "rate_limit_denied_total",
		Help: "Requests rejected by a rate limiter, by limiter name.",
	},
	[]string{"limiter"},
)

func init() {
	prometheus.MustRegister(rateLimited)
}

// keyFunc selects the identity used to key a rate-limit window.
type keyFunc func(*gin.Context) string

// KeyByIP keys windows by client address.
func KeyByIP() keyFunc {
	return func(c *gin.Context) string { return "ip:" + c.ClientIP() }
}

// LimiterOptions configures a RateLimiter.
type LimiterOptions struct {
	Limit ratelimit.Limit
	// Message is the human message of the 429 error.
	Message string
	// SkipFailed refunds the hit when the final status is >= 400.
	SkipFailed bool
	// KeyFn defaults to KeyByIP.
	KeyFn keyFunc
}

// RateLimiter is one named limiter class.
type RateLimiter struct {
	store ratelimit.Store
	opts  LimiterOptions
}

// NewRateLimiter builds a limiter over store.
func NewRateLimiter(store ratelimit.Store, opts LimiterOptions) *RateLimiter {
	if opts.KeyFn == nil {
		opts.KeyFn = KeyByIP()
	}
	if opts.Message == "" {
		opts.Message = "Too many requests, please try again later."
	}
	return &RateLimiter{store: store, opts: opts}
}

// Name returns the limiter class name.
func (rl *RateLimiter) Name() string { return rl.opts.Limit.Name }

// IsRateBypass reports whether IdempotencyValidator marked this request for
// rate-limit bypass (i.e., it is a replay of a previously completed request).
func IsRateBypass(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyRateBypass)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

func setRateHeaders(c *gin.Context, r ratelimit.Result) {
	h := c.Writer.Header()
	h.Set(HeaderRateLimitLimit, strconv.Itoa(r.Limit))
	h.Set(HeaderRateLimitRemaining, strconv.Itoa(r.Remaining))
	h.Set(HeaderRateLimitReset, strconv.Itoa(int(math.Ceil(r.ResetAfter.Seconds()))))
}

// Handler returns the Gin middleware for this limiter.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsRateBypass(c) || c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := rl.opts.KeyFn(c)
		res, err := rl.store.Allow(ctx, key, rl.opts.Limit)
		if err != nil {
			LoggerFrom(c).Error().
				Err(err).
				Str("limiter", rl.opts.Limit.Name).
				Msg("rate limit store unavailable; allowing request")
			c.Next()
			return
		}
		setRateHeaders(c, res)

		if !res.Allowed {
			rateLimited.WithLabelValues(rl.opts.Limit.Name).Inc()
			LoggerFrom(c).Warn().
				Str("event", "security_event").
				Str("type", "rate_limit_exceeded").
				Str("limiter", rl.opts.Limit.Name).
				Dur("retry_after", res.RetryAfter).
				Msg("rate limit exceeded")
			_ = c.Error(apperror.RateLimit(rl.opts.Message, res.RetryAfter))
			c.Abort()
			return
		}

		c.Next()

		if rl.opts.SkipFailed && failed(c) {
			if err := rl.store.Release(ctx, key, rl.opts.Limit); err != nil {
				LoggerFrom(c).Warn().Err(err).Str("limiter", rl.opts.Limit.Name).Msg("rate limit refund failed")
			}
		}
	}
}

func failed(c *gin.Context) bool {
	return FinalStatus(c) >= http.StatusBadRequest
}

// Limits holds the four limiter classes.
type Limits struct {
	General  *RateLimiter
	ReadOnly *RateLimiter
	Contact  *RateLimiter
	Strict   *RateLimiter
}

// LimitsConfig holds the window and max for each class.
type LimitsConfig struct {
	GeneralWindow time.Duration
	GeneralMax    int
	ReadOnlyMax   int
	ContactWindow time.Duration
	ContactMax    int
	StrictWindow  time.Duration
	StrictMax     int
}

// NewLimits builds the four limiter classes over one store. readOnly shares
// the general window.
func NewLimits(store ratelimit.Store, cfg LimitsConfig) Limits {
	return Limits{
		General: NewRateLimiter(store, LimiterOptions{
			Limit:   ratelimit.Limit{Name: "general", Max: cfg.GeneralMax, Window: cfg.GeneralWindow},
			Message: "Too many requests from this IP, please try again later.",
		}),
		ReadOnly: NewRateLimiter(store, LimiterOptions{
			Limit:   ratelimit.Limit{Name: "readOnly", Max: cfg.ReadOnlyMax, Window: cfg.GeneralWindow},
			Message: "Too many requests, please try again later.",
		}),
		Contact: NewRateLimiter(store, LimiterOptions{
			Limit:      ratelimit.Limit{Name: "contact", Max: cfg.ContactMax, Window: cfg.ContactWindow},
			Message:    "Too many contact form submissions, please try again later.",
			SkipFailed: true,
		}),
		Strict: NewRateLimiter(store, LimiterOptions{
			Limit:   ratelimit.Limit{Name: "strict", Max: cfg.StrictMax, Window: cfg.StrictWindow},
			Message: "Too many requests to this endpoint, please try again later.",
		}),
	}
}
