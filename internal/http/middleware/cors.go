// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides the CORS stage. It is two handlers:
//
//   - CORSGate rejects a request whose Origin header is present but not in
//     the allow-list by forwarding apperror.ErrCORSRejected, so the client
//     gets the standard 403 envelope rather than a bare status. Requests
//     without an Origin (curl, server-to-server, same-origin navigation) are
//     always allowed.
//   - gin-contrib/cors then answers preflights and sets the
//     Access-Control-* response headers for allowed origins.
//
// An empty allow-list rejects every request that carries an Origin. In
// development the local dev-server origins are always added.
package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-portfolio-backend/internal/apperror"
)

// devOrigins are added to the allow-list outside production.
var devOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:5173",
}

// CORSOptions configures the CORS stage.
type CORSOptions struct {
	AllowedOrigins []string
	// Development adds common local dev-server origins.
	Development bool
}

func (o CORSOptions) origins() []string {
	out := make([]string, 0, len(o.AllowedOrigins)+len(devOrigins))
	seen := make(map[string]bool)
	add := func(list []string) {
		for _, v := range list {
			v = strings.TrimRight(strings.TrimSpace(v), "/")
			if v != "" && !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	add(o.AllowedOrigins)
	if o.Development {
		add(devOrigins)
	}
	return out
}

// CORS returns the gate followed by the gin-contrib/cors handler.
func CORS(opts CORSOptions) []gin.HandlerFunc {
	origins := opts.origins()
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}

	gate := func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			c.Next()
			return
		}
		if _, ok := allowed[origin]; !ok {
			_ = c.Error(apperror.ErrCORSRejected)
			c.Abort()
			return
		}
		c.Next()
	}

	cfg := cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", HeaderRequestID, HeaderIdempotencyKey},
		ExposeHeaders:    []string{HeaderRequestID, "Content-Length", "RateLimit-Limit", "RateLimit-Remaining", "RateLimit-Reset", "Retry-After", HeaderIdempotencyReplayed},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		// Nothing passes the gate; cors.New rejects an empty origin config.
		return []gin.HandlerFunc{gate}
	}
	return []gin.HandlerFunc{gate, cors.New(cfg)}
}
