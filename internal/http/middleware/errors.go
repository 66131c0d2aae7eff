// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements ErrorTerminal, the only stage allowed to write an
// error-shaped body. Every other stage forwards failures with
//
//	_ = c.Error(err)
//	c.Abort()
//
// and returns. After the chain unwinds the terminal:
//
//  1. normalizes the last recorded error into an *apperror.Error
//  2. logs it (>= 500 at error with request detail outside production,
//     4xx at warn, 401/403 additionally as a security event)
//  3. hands non-operational errors to the tracking.Tracker
//  4. renders the envelope below, setting Retry-After for rate limits
//
// Response shape:
//
//	{
//	  "success": false,
//	  "error": {
//	    "message": "Validation failed",
//	    "code": "VALIDATION_ERROR",
//	    "statusCode": 400,
//	    "timestamp": "2024-06-21T10:00:00Z",
//	    "correlationId": "lx2k9a0-4f8d2k1zq",
//	    "details": [{"field": "name", "message": "...", "rejectedValue": "A"}],
//	    "retryAfter": 60,
//	    "stack": "..."            // outside production only
//	  }
//	}
//
// When a response was already written the error is logged and nothing else
// is sent, so a request never gets two responses.
package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-portfolio-backend/internal/apperror"
	"github.com/tbourn/go-portfolio-backend/internal/tracking"
)

// ctxKeyRequestBody holds the decoded request body stashed by Sanitize for
// error logs.
const ctxKeyRequestBody = "request.body"

const maxBodyLogLength = 4096

// ErrorBody is the "error" member of a failure envelope.
type ErrorBody struct {
	Message       string                `json:"message"                 example:"Validation failed"`
	Code          string                `json:"code"                    example:"VALIDATION_ERROR"`
	StatusCode    int                   `json:"statusCode"              example:"400"`
	Timestamp     string                `json:"timestamp"               example:"2024-06-21T10:00:00Z"`
	CorrelationID string                `json:"correlationId"           example:"lx2k9a0-4f8d2k1zq"`
	Details       []apperror.FieldError `json:"details,omitempty"`
	RetryAfter    *int                  `json:"retryAfter,omitempty"    example:"60"`
	Service       string                `json:"service,omitempty"`
	Stack         string                `json:"stack,omitempty"`
}

// ErrorEnvelope is the body of every error response.
type ErrorEnvelope struct {
	Success bool      `json:"success" example:"false"`
	Error   ErrorBody `json:"error"`
}

// ErrorOptions configures ErrorTerminal.
type ErrorOptions struct {
	// Production hides stacks, uncategorized messages and request detail.
	Production bool
	// Tracker receives non-operational errors. Nil means tracking.Noop.
	Tracker tracking.Tracker
}

// ErrorTerminal returns the terminal error-rendering middleware. Register it
// first so it observes every other stage.
func ErrorTerminal(opts ErrorOptions) gin.HandlerFunc {
	tracker := opts.Tracker
	if tracker == nil {
		tracker = tracking.Noop{}
	}

	return func(c *gin.Context) {
		c.Next()

		var ae *apperror.Error
		switch {
		case len(c.Errors) > 0:
			ae = apperror.Normalize(c.Errors.Last().Err, opts.Production)
		case !c.Writer.Written() && c.Writer.Status() >= http.StatusBadRequest:
			// A stage aborted with a bare status.
			ae = fromStatus(c.Writer.Status())
		default:
			return
		}

		rc := RequestContextFrom(c)
		logError(c, rc, ae, opts.Production)

		if !ae.Operational() {
			tracker.Capture(c.Request.Context(), tracking.Event{
				Err:           ae,
				Code:          ae.Code(),
				Status:        ae.Status(),
				CorrelationID: rc.CorrelationID,
				Method:        c.Request.Method,
				Route:         c.FullPath(),
				ClientIP:      rc.ClientAddress,
				UserAgent:     rc.UserAgent,
			})
		}

		if c.Writer.Written() {
			rc.Logger.Warn().
				Str("code", ae.Code()).
				Msg("error after response was written; not rendered")
			return
		}

		body := ErrorBody{
			Message:       ae.Message(),
			Code:          ae.Code(),
			StatusCode:    ae.Status(),
			Timestamp:     ae.Timestamp().UTC().Format(time.RFC3339),
			CorrelationID: rc.CorrelationID,
			Details:       ae.Details(),
			Service:       ae.Service(),
		}
		if opts.Production && !ae.Operational() {
			body.Message = "Internal server error"
		}
		if !opts.Production {
			body.Stack = ae.Stack()
		}
		if ra := ae.RetryAfter(); ra > 0 {
			secs := int(math.Ceil(ra.Seconds()))
			body.RetryAfter = &secs
			c.Header("Retry-After", strconv.Itoa(secs))
		}

		c.JSON(ae.Status(), ErrorEnvelope{Success: false, Error: body})
	}
}

func logError(c *gin.Context, rc *RequestContext, ae *apperror.Error, production bool) {
	lg := rc.Logger
	status := ae.Status()

	ev := lg.Warn()
	if status >= http.StatusInternalServerError {
		ev = lg.Error()
	}
	ev = ev.
		Err(ae).
		Str("code", ae.Code()).
		Int("status", status).
		Bool("operational", ae.Operational()).
		Str("method", c.Request.Method).
		Str("url", c.Request.URL.String())

	if status >= http.StatusInternalServerError && !production {
		if v, ok := c.Get(ctxKeyRequestBody); ok {
			if b, ok := v.([]byte); ok {
				ev = ev.Str("body", truncate(string(b), maxBodyLogLength))
			}
		}
		params := make(map[string]string, len(c.Params))
		for _, p := range c.Params {
			params[p.Key] = p.Value
		}
		ev = ev.Interface("params", params).Str("query", c.Request.URL.RawQuery)
	}
	if svc := ae.Service(); svc != "" {
		ev = ev.Str("service", svc)
	}
	ev.Msg(ae.Message())

	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		lg.Warn().
			Str("event", "security_event").
			Str("type", ae.Code()).
			Str("method", c.Request.Method).
			Str("url", c.Request.URL.String()).
			Str("origin", c.GetHeader("Origin")).
			Msg("security event")
	}
}

// FinalStatus returns the status the client receives. Stages that run
// inside the terminal see forwarded errors before they are rendered, so for
// those the status is taken from the normalized error.
func FinalStatus(c *gin.Context) int {
	if len(c.Errors) > 0 && !c.Writer.Written() {
		return apperror.Normalize(c.Errors.Last().Err, true).Status()
	}
	return c.Writer.Status()
}

// fromStatus maps a bare error status onto the taxonomy.
func fromStatus(status int) *apperror.Error {
	switch {
	case status == http.StatusNotFound:
		return apperror.NotFound("")
	case status == http.StatusUnauthorized:
		return apperror.Authentication("")
	case status == http.StatusForbidden:
		return apperror.Authorization("")
	case status == http.StatusTooManyRequests:
		return apperror.RateLimit("", 0)
	case status == http.StatusServiceUnavailable:
		return apperror.ExternalService("", "", nil)
	case status < http.StatusInternalServerError:
		return apperror.Validation(http.StatusText(status))
	default:
		return apperror.Internal(http.StatusText(status), nil)
	}
}
