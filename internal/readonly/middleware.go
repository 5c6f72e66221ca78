// Package readonly turns the catalog into a browse-only site by rejecting
// every state-changing request.
package readonly

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextKeyReadOnly holds the flag templates use to hide edit controls.
const ContextKeyReadOnly = "read_only"

const blockedMessage = "The catalog is in read-only mode"

var safeMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodOptions: true,
}

type Middleware struct {
	enabled bool
}

func NewMiddleware(enabled bool) *Middleware {
	return &Middleware{enabled: enabled}
}

func (m *Middleware) IsEnabled() bool {
	return m.enabled
}

// Handler answers 403 to unsafe methods while read-only mode is on.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyReadOnly, m.enabled)
		if m.enabled && !safeMethods[c.Request.Method] {
			block(c)
			return
		}
		c.Next()
	}
}

func block(c *gin.Context) {
	jsonClient := strings.HasPrefix(c.Request.URL.Path, "/api/") ||
		strings.Contains(c.GetHeader("Accept"), "application/json")

	switch {
	case c.GetHeader("HX-Request") == "true":
		// Keep the current page instead of swapping in the error
		c.Header("HX-Reswap", "none")
		c.String(http.StatusForbidden, blockedMessage)
	case jsonClient:
		c.JSON(http.StatusForbidden, gin.H{
			"error":     blockedMessage,
			"code":      "read_only",
			"read_only": true,
		})
	default:
		c.String(http.StatusForbidden, blockedMessage)
	}
	c.Abort()
}

// IsReadOnly reports the flag stored by Handler.
func IsReadOnly(c *gin.Context) bool {
	return c.GetBool(ContextKeyReadOnly)
}
