// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides the request context decorator. Every inbound request
// gets a RequestContext carrying:
//
//   - a correlation id, echoed in X-Request-ID and in every error body
//   - the client address and user agent
//   - a zerolog.Logger pre-bound with all of the above
//
// The RequestContext is stored in the Gin context (keys "requestContext" and
// "logger") and in the request's context.Context, so handlers, services, the
// error terminal and the tracker all read the same values without deriving
// them again. zerolog.Ctx(ctx) returns the scoped logger downstream.
//
// Correlation ids are "<base36 unix millis>-<9 random base36 chars>". They are
// unique with overwhelming probability across the process lifetime; they are
// not secrets. A well-formed inbound X-Request-ID is reused so a proxy can
// stitch its own logs to ours.
package middleware

import (
	"context"
	"errors"
	"math/rand/v2"
	"regexp"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// HeaderRequestID is the HTTP header used to propagate the correlation ID.
	HeaderRequestID = "X-Request-ID"

	ctxKeyLogger         = "logger"
	ctxKeyRequestContext = "requestContext"

	base36Digits = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// inboundIDRE accepts proxy-supplied correlation ids.
var inboundIDRE = regexp.MustCompile(`^[A-Za-z0-9._-]{1,128}$`)

// RequestContext is the per-request scope shared by every stage.
type RequestContext struct {
	CorrelationID string
	ClientAddress string
	UserAgent     string
	StartedAt     time.Time
	Logger        *zerolog.Logger
}

type requestContextKey struct{}

// NewCorrelationID returns a fresh correlation id.
func NewCorrelationID() string {
	var suffix [9]byte
	for i := range suffix {
		suffix[i] = base36Digits[rand.IntN(len(base36Digits))]
	}
	return strconv.FormatInt(time.Now().UnixMilli(), 36) + "-" + string(suffix[:])
}

// RequestContextDecorator builds the RequestContext for each request.
//
// After the rest of the chain returns it checks whether the client dropped
// the connection and logs that at warn level; in-flight work is not
// cancelled by this middleware.
func RequestContextDecorator() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if !inboundIDRE.MatchString(id) {
			id = NewCorrelationID()
		}

		l := log.With().
			Str("correlation_id", id).
			Str("client_ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Logger()

		rc := &RequestContext{
			CorrelationID: id,
			ClientAddress: c.ClientIP(),
			UserAgent:     c.Request.UserAgent(),
			StartedAt:     time.Now(),
			Logger:        &l,
		}

		c.Set(ctxKeyRequestContext, rc)
		c.Set(ctxKeyLogger, &l)
		c.Writer.Header().Set(HeaderRequestID, id)

		ctx := l.WithContext(c.Request.Context())
		ctx = context.WithValue(ctx, requestContextKey{}, rc)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if errors.Is(c.Request.Context().Err(), context.Canceled) {
			l.Warn().
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Dur("elapsed", time.Since(rc.StartedAt)).
				Msg("request aborted by client")
		}
	}
}

// RequestContextFrom returns the RequestContext attached by
// RequestContextDecorator. When the decorator did not run a minimal context
// is derived from the request so callers never need nil checks.
func RequestContextFrom(c *gin.Context) *RequestContext {
	if v, ok := c.Get(ctxKeyRequestContext); ok {
		if rc, ok := v.(*RequestContext); ok {
			return rc
		}
	}
	if rc := FromContext(c.Request.Context()); rc != nil {
		return rc
	}
	l := log.With().Logger()
	return &RequestContext{
		CorrelationID: c.Writer.Header().Get(HeaderRequestID),
		ClientAddress: c.ClientIP(),
		UserAgent:     c.Request.UserAgent(),
		Logger:        &l,
	}
}

// FromContext returns the RequestContext stored in ctx, or nil.
func FromContext(ctx context.Context) *RequestContext {
	rc, _ := ctx.Value(requestContextKey{}).(*RequestContext)
	return rc
}

// CorrelationID returns the request's correlation id ("" when absent).
func CorrelationID(c *gin.Context) string {
	return RequestContextFrom(c).CorrelationID
}

// LoggerFrom returns the request-scoped zerolog.Logger.
//
// If a logger was not previously attached, a fallback logger is returned
// (without request-scoped fields). Callers can safely use the result
// without nil checks.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(ctxKeyLogger); ok {
		if lg, ok := v.(*zerolog.Logger); ok {
			return lg
		}
	}
	l := log.With().Logger()
	return &l
}
