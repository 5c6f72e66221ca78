package web

import (
	"crypto/rand"
	"encoding/hex"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

// CSRFTokenHeader carries the token for JSON clients.
const CSRFTokenHeader = "X-CSRF-Token"

const csrfRejectedPage = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Form expired</title></head>
<body>
<h1>Form expired</h1>
<p>The submission could not be verified. Reload the page and try again.</p>
<p><a href="/">Back to the catalog</a></p>
</body>
</html>`

// CSRFMiddleware rejects unsafe requests that lack a valid token. Plain
// HTTP is accepted when secure is false, for local use without TLS.
func CSRFMiddleware(secret []byte, secure bool) gin.HandlerFunc {
	protect := csrf.Protect(secret,
		csrf.Secure(secure),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteStrictMode),
		csrf.Path("/"),
		csrf.RequestHeader(CSRFTokenHeader),
		csrf.ErrorHandler(http.HandlerFunc(rejectCSRF)),
	)

	return func(c *gin.Context) {
		if !secure && c.Request.TLS == nil {
			c.Request = csrf.PlaintextHTTPRequest(c.Request)
		}

		// gorilla/csrf only calls the wrapped handler for accepted requests
		accepted := false
		protect(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			accepted = true
			c.Request = r
			c.Next()
		})).ServeHTTP(c.Writer, c.Request)

		if !accepted {
			c.Abort()
		}
	}
}

func wantsJSON(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/") ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}

func rejectCSRF(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"CSRF token invalid or missing","code":"csrf_failed"}`))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(csrfRejectedPage))
}

// GetCSRFToken returns the masked token for the current request, or an
// empty string when protection is off.
func GetCSRFToken(c *gin.Context) string {
	return csrf.Token(c.Request)
}

// CSRFTokenField renders the hidden form input carrying the token.
func CSRFTokenField(c *gin.Context) template.HTML {
	return csrf.TemplateField(c.Request)
}

// GenerateSecret returns 32 random bytes, hex encoded.
func GenerateSecret() (string, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return "", err
	}
	return hex.EncodeToString(key), nil
}

// DecodeSecret turns a configured secret into key bytes. Hex secrets are
// decoded, anything else is used verbatim.
func DecodeSecret(secret string) []byte {
	if key, err := hex.DecodeString(secret); err == nil && len(key) > 0 {
		return key
	}
	return []byte(secret)
}
