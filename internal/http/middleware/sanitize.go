// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides the body stages: LimitBody caps request size and
// Sanitize scrubs JSON bodies before binding.
//
// Sanitize is a best-effort filter, not an HTML sanitizer. For every string
// in a JSON body (at any depth) it removes <script>...</script> blocks,
// "javascript:" and inline event-handler prefixes such as "onclick=". The
// cleaned document is re-encoded and put back on the request so handlers
// bind the filtered values. A body must hold exactly one JSON value; trailing
// data is rejected as malformed.
package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-portfolio-backend/internal/apperror"
)

var (
	scriptBlockRE  = regexp.MustCompile(`(?is)<script\b.*?</script\s*>`)
	jsSchemeRE     = regexp.MustCompile(`(?i)javascript:`)
	eventHandlerRE = regexp.MustCompile(`(?i)on\w+\s*=`)
)

// LimitBody caps the request body at maxBytes. Reads past the cap fail with
// *http.MaxBytesError, which the error terminal reports as a validation
// failure.
func LimitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// SanitizeString applies the script/event-handler filter to s.
func SanitizeString(s string) string {
	s = scriptBlockRE.ReplaceAllString(s, "")
	s = jsSchemeRE.ReplaceAllString(s, "")
	return eventHandlerRE.ReplaceAllString(s, "")
}

// SanitizeValue walks a decoded JSON value and filters every string.
func SanitizeValue(v any) any {
	switch t := v.(type) {
	case string:
		return SanitizeString(t)
	case map[string]any:
		for k, vv := range t {
			t[k] = SanitizeValue(vv)
		}
		return t
	case []any:
		for i, vv := range t {
			t[i] = SanitizeValue(vv)
		}
		return t
	default:
		return v
	}
}

// IsJSON reports whether the request declares a JSON body. Handlers that
// decode JSON must check it too, or non-JSON bodies would skip Sanitize.
func IsJSON(c *gin.Context) bool {
	return strings.Contains(strings.ToLower(c.ContentType()), "json")
}

// Sanitize filters JSON request bodies. Non-JSON and empty bodies pass
// through untouched. A body that cannot be read or is not valid JSON is
// forwarded to the error terminal.
func Sanitize() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil || c.Request.Body == http.NoBody || !IsJSON(c) {
			c.Next()
			return
		}

		raw, err := io.ReadAll(c.Request.Body)
		_ = c.Request.Body.Close()
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		if len(bytes.TrimSpace(raw)) == 0 {
			c.Request.Body = io.NopCloser(bytes.NewReader(raw))
			c.Next()
			return
		}

		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var doc any
		if err := dec.Decode(&doc); err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
			_ = c.Error(apperror.Validation("Malformed JSON body", apperror.FieldError{
				Field: "body", Message: "unexpected data after the JSON value", Location: "body",
			}))
			c.Abort()
			return
		}

		out, err := json.Marshal(SanitizeValue(doc))
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.Set(ctxKeyRequestBody, out)
		c.Request.Body = io.NopCloser(bytes.NewReader(out))
		c.Request.ContentLength = int64(len(out))
		c.Next()
	}
}
