package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// EnforceHTTPS redirects plain-HTTP requests to their HTTPS equivalent with
// 301 Moved Permanently. A request counts as secure when it arrived over TLS
// or a proxy set X-Forwarded-Proto: https. When enabled is false the
// middleware is a pass-through.
func EnforceHTTPS(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled || isHTTPS(c.Request) {
			c.Next()
			return
		}
		c.Redirect(http.StatusMovedPermanently, "https://"+c.Request.Host+c.Request.URL.RequestURI())
		c.Abort()
	}
}
