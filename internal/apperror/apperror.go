// Package apperror defines the closed set of failure kinds the API can report
// and the typed error that carries them through the request pipeline.
//
// Every error that reaches a client is an *Error. Its HTTP status and its
// machine-readable code are derived from Kind alone, so two errors of the
// same kind always render with the same status/code no matter which layer
// produced them.
//
// Conventions:
//   - Handlers, services and middleware create errors with the constructors
//     in this file (or return raw errors and let Normalize map them).
//   - Nothing outside the error terminal formats an error body.
//   - An *Error is never mutated after construction; With* helpers return copies.
//
// Example response produced from an *Error:
//
//	HTTP/1.1 404 Not Found
//	{
//	  "success": false,
//	  "error": {
//	    "message": "No active profile found",
//	    "code": "NOT_FOUND_ERROR",
//	    "statusCode": 404,
//	    "timestamp": "2024-06-21T10:00:00Z",
//	    "correlationId": "lx2k9a0-4f8d2k1zq"
//	  }
//	}
package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"
)

// Kind enumerates the failure categories understood by the API.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindRateLimit
	KindDatabase
	KindExternalService
)

// Machine-readable codes, one per Kind.
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeAuthentication  = "AUTHENTICATION_ERROR"
	CodeAuthorization   = "AUTHORIZATION_ERROR"
	CodeNotFound        = "NOT_FOUND_ERROR"
	CodeRateLimit       = "RATE_LIMIT_ERROR"
	CodeDatabase        = "DATABASE_ERROR"
	CodeExternalService = "EXTERNAL_SERVICE_ERROR"
	CodeInternal        = "INTERNAL_SERVER_ERROR"
)

type kindInfo struct {
	status      int
	code        string
	operational bool
	name        string
}

var kinds = map[Kind]kindInfo{
	KindValidation:      {http.StatusBadRequest, CodeValidation, true, "validation"},
	KindAuthentication:  {http.StatusUnauthorized, CodeAuthentication, true, "authentication"},
	KindAuthorization:   {http.StatusForbidden, CodeAuthorization, true, "authorization"},
	KindNotFound:        {http.StatusNotFound, CodeNotFound, true, "not_found"},
	KindRateLimit:       {http.StatusTooManyRequests, CodeRateLimit, true, "rate_limit"},
	KindDatabase:        {http.StatusInternalServerError, CodeDatabase, true, "database"},
	KindExternalService: {http.StatusServiceUnavailable, CodeExternalService, true, "external_service"},
	KindInternal:        {http.StatusInternalServerError, CodeInternal, false, "internal"},
}

func infoFor(k Kind) kindInfo {
	if ki, ok := kinds[k]; ok {
		return ki
	}
	return kinds[KindInternal]
}

// StatusFor returns the HTTP status associated with k.
// Unknown kinds are treated as KindInternal.
func StatusFor(k Kind) int { return infoFor(k).status }

// CodeFor returns the stable machine code associated with k.
func CodeFor(k Kind) string { return infoFor(k).code }

// IsOperational reports whether errors of kind k are expected failure modes.
// Only KindInternal is non-operational.
func IsOperational(k Kind) bool { return infoFor(k).operational }

// String implements fmt.Stringer.
func (k Kind) String() string { return infoFor(k).name }

// FieldError describes a single field-level validation failure.
type FieldError struct {
	Field    string `json:"field"`
	Message  string `json:"message"`
	Value    any    `json:"rejectedValue,omitempty"`
	Location string `json:"location,omitempty"`
}

// Error is the typed failure consumed by the error terminal.
type Error struct {
	kind       Kind
	message    string
	details    []FieldError
	retryAfter time.Duration
	service    string
	timestamp  time.Time
	cause      error
	stack      string
}

// now is swapped in tests.
var now = func() time.Time { return time.Now().UTC() }

func newError(k Kind, msg string, cause error) *Error {
	if strings.TrimSpace(msg) == "" {
		msg = defaultMessage(k)
	}
	return &Error{
		kind:      k,
		message:   msg,
		timestamp: now(),
		cause:     cause,
		stack:     callers(3),
	}
}

func defaultMessage(k Kind) string {
	switch k {
	case KindValidation:
		return "Validation failed"
	case KindAuthentication:
		return "Authentication required"
	case KindAuthorization:
		return "Insufficient permissions"
	case KindNotFound:
		return "Resource not found"
	case KindRateLimit:
		return "Rate limit exceeded"
	case KindDatabase:
		return "Database operation failed"
	case KindExternalService:
		return "External service unavailable"
	default:
		return "Internal server error"
	}
}

// Validation creates a 400 error with optional field-level details.
func Validation(msg string, details ...FieldError) *Error {
	e := newError(KindValidation, msg, nil)
	if len(details) > 0 {
		e.details = append([]FieldError(nil), details...)
	}
	return e
}

// Authentication creates a 401 error.
func Authentication(msg string) *Error { return newError(KindAuthentication, msg, nil) }

// Authorization creates a 403 error.
func Authorization(msg string) *Error { return newError(KindAuthorization, msg, nil) }

// NotFound creates a 404 error.
func NotFound(msg string) *Error { return newError(KindNotFound, msg, nil) }

// RateLimit creates a 429 error that tells the client when to retry.
func RateLimit(msg string, retryAfter time.Duration) *Error {
	e := newError(KindRateLimit, msg, nil)
	if retryAfter > 0 {
		e.retryAfter = retryAfter
	}
	return e
}

// Database creates a 500 error for storage failures. cause is kept for logs.
func Database(msg string, cause error) *Error { return newError(KindDatabase, msg, cause) }

// ExternalService creates a 503 error for a failing collaborator such as SMTP.
func ExternalService(msg, service string, cause error) *Error {
	e := newError(KindExternalService, msg, cause)
	e.service = service
	return e
}

// Internal creates a non-operational 500 error.
func Internal(msg string, cause error) *Error { return newError(KindInternal, msg, cause) }

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code(), e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code(), e.message)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error { return e.cause }

func (e *Error) Kind() Kind { return e.kind }
func (e *Error) Status() int { return StatusFor(e.kind) }
func (e *Error) Code() string { return CodeFor(e.kind) }
func (e *Error) Operational() bool { return IsOperational(e.kind) }
func (e *Error) Message() string { return e.message }
func (e *Error) RetryAfter() time.Duration { return e.retryAfter }
func (e *Error) Service() string { return e.service }
func (e *Error) Timestamp() time.Time { return e.timestamp }
func (e *Error) Stack() string { return e.stack }

// Details returns a copy of the field-level details.
func (e *Error) Details() []FieldError {
	if len(e.details) == 0 {
		return nil
	}
	return append([]FieldError(nil), e.details...)
}

// WithCause returns a copy of e that wraps cause.
func (e *Error) WithCause(cause error) *Error {
	cp := *e
	cp.details = e.Details()
	cp.cause = cause
	return &cp
}

// WithMessage returns a copy of e with a different human message.
func (e *Error) WithMessage(msg string) *Error {
	cp := *e
	cp.details = e.Details()
	cp.message = msg
	return &cp
}

// WithDetails returns a copy of e carrying details in place of its own.
func (e *Error) WithDetails(details ...FieldError) *Error {
	cp := *e
	cp.details = append([]FieldError(nil), details...)
	return &cp
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) && ae != nil {
		return ae, true
	}
	return nil, false
}

// IsKind reports whether err carries an *Error of kind k.
func IsKind(err error, k Kind) bool {
	ae, ok := As(err)
	return ok && ae.kind == k
}

// callers renders a compact stack trace starting skip frames above itself.
func callers(skip int) string {
	pcs := make([]uintptr, 16)
	n := runtime.Callers(skip, pcs)
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs[:n])
	var b strings.Builder
	for {
		f, more := frames.Next()
		if !strings.HasPrefix(f.Function, "runtime.") {
			fmt.Fprintf(&b, "%s\n\t%s:%d\n", f.Function, f.File, f.Line)
		}
		if !more {
			break
		}
	}
	return b.String()
}
