package web

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// staticHeaders are sent unchanged on every response.
var staticHeaders = [][2]string{
	{"X-Frame-Options", "DENY"},
	{"X-Content-Type-Options", "nosniff"},
	{"Referrer-Policy", "same-origin"},
	{"Cross-Origin-Opener-Policy", "same-origin"},
	{"Permissions-Policy", "camera=(), geolocation=(), microphone=()"},
}

// The catalog pages are plain forms; nothing needs to run scripts.
var baseDirectives = []string{
	"default-src 'self'",
	"script-src 'none'",
	"style-src 'self'",
	"img-src 'self'",
	"frame-ancestors 'none'",
	"base-uri 'none'",
}

// contentSecurityPolicy allows forms to post back to the host the request
// arrived on, which differs from 'self' behind a TLS-terminating proxy.
func contentSecurityPolicy(host string) string {
	formAction := "form-action 'self'"
	if host != "" {
		formAction += " https://" + host
	}
	return strings.Join(append(baseDirectives[:len(baseDirectives):len(baseDirectives)], formAction), "; ")
}

// SecurityHeadersMiddleware adds browser hardening headers to every response.
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range staticHeaders {
			c.Header(h[0], h[1])
		}
		c.Header("Content-Security-Policy", contentSecurityPolicy(c.Request.Host))
		c.Next()
	}
}
