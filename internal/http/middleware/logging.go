// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides the panic-safe Recovery handler. A recovered panic is
// logged with its stack and forwarded to the error terminal as an Internal
// error; Recovery itself never writes a response body.
//
// Place it after RequestContextDecorator and AccessLogger so the panic is
// captured with the correlation id and still shows up in the access log.
package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-portfolio-backend/internal/apperror"
)

// Recovery intercepts panics, logs a stack trace, and forwards an Internal
// error so the terminal renders the standard envelope.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				LoggerFrom(c).Error().
					Interface("panic", rec).
					Bytes("stack", debug.Stack()).
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Msg("panic recovered")

				var cause error
				if err, ok := rec.(error); ok {
					cause = err
				} else {
					cause = fmt.Errorf("%v", rec)
				}
				_ = c.Error(apperror.Internal("panic: "+cause.Error(), cause))
				c.Abort()
			}
		}()
		c.Next()
	}
}

// truncate returns s unchanged when within max length, otherwise it truncates
// s to max bytes and appends an ellipsis. A max <= 0 disables truncation.
//
// Note: This operates on bytes (not runes) which is acceptable for logging.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
