package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/biblioteka/internal/config"
	"github.com/mrlokans/biblioteka/internal/database"
)

var testSecret = []byte("test-secret-key-32-bytes-long!!!")

func init() {
	gin.SetMode(gin.TestMode)
}

func TestCSRFMiddleware_AllowsGET(t *testing.T) {
	router := gin.New()
	router.Use(CSRFMiddleware(testSecret, false))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, string(CSRFTokenField(c)))
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `name="gorilla.csrf.Token"`)
}

func TestCSRFMiddleware_BlocksPOSTWithoutToken(t *testing.T) {
	reached := false
	router := gin.New()
	router.Use(CSRFMiddleware(testSecret, false))
	router.POST("/titles/add", func(c *gin.Context) {
		reached = true
		c.Status(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/titles/add", nil))

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.False(t, reached, "handler must not run when the token is missing")
	assert.Contains(t, rr.Body.String(), "Form expired")
}

func TestCSRFMiddleware_JSONError(t *testing.T) {
	router := gin.New()
	router.Use(CSRFMiddleware(testSecret, false))
	router.POST("/api/titles", func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/titles", nil))

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.JSONEq(t, `{"error":"CSRF token invalid or missing","code":"csrf_failed"}`, rr.Body.String())
}

func TestCSRFMiddleware_AcceptsValidToken(t *testing.T) {
	router := gin.New()
	router.Use(CSRFMiddleware(testSecret, false))
	router.GET("/form", func(c *gin.Context) {
		c.String(http.StatusOK, GetCSRFToken(c))
	})
	router.POST("/form", func(c *gin.Context) {
		c.String(http.StatusOK, "saved")
	})

	get := httptest.NewRecorder()
	router.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/form", nil))
	require.Equal(t, http.StatusOK, get.Code)
	token := get.Body.String()
	require.NotEmpty(t, token)

	form := url.Values{"gorilla.csrf.Token": {token}}
	req := httptest.NewRequest(http.MethodPost, "/form", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, cookie := range get.Result().Cookies() {
		req.AddCookie(cookie)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "saved", rr.Body.String())
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeadersMiddleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "catalog.example"
	router.ServeHTTP(rr, req)

	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, rr.Header().Get("Content-Security-Policy"), "form-action 'self' https://catalog.example")
	assert.Contains(t, rr.Header().Get("Content-Security-Policy"), "script-src 'none'")
}

func TestContentSecurityPolicy_WithoutHost(t *testing.T) {
	policy := contentSecurityPolicy("")

	assert.True(t, strings.HasSuffix(policy, "form-action 'self'"))
	assert.Equal(t, policy, contentSecurityPolicy(""), "directives must not accumulate between calls")
}

func TestSecrets(t *testing.T) {
	secret, err := GenerateSecret()
	require.NoError(t, err)
	assert.Len(t, secret, 64)
	assert.Len(t, DecodeSecret(secret), 32)
	assert.Equal(t, []byte("plain text secret"), DecodeSecret("plain text secret"))
}

func setupSessions(t *testing.T, withDB bool) *SessionManager {
	t.Helper()
	cfg := config.Session{Lifetime: time.Hour}
	if !withDB {
		sm, err := NewSessionManager(nil, cfg)
		require.NoError(t, err)
		return sm
	}

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sm, err := NewSessionManager(sqlDB, cfg)
	require.NoError(t, err)
	return sm
}

func TestSessionManager_FlashRoundTrip(t *testing.T) {
	for name, withDB := range map[string]bool{"sqlite store": true, "memory store": false} {
		t.Run(name, func(t *testing.T) {
			sm := setupSessions(t, withDB)

			router := gin.New()
			router.Use(sm.SessionLoadSave())
			router.POST("/save", func(c *gin.Context) {
				sm.PutFlash(c.Request, FlashSuccess, "Title saved")
				c.Redirect(http.StatusSeeOther, "/")
			})
			router.GET("/", func(c *gin.Context) {
				flash := sm.PopFlash(c.Request)
				if flash == nil {
					c.String(http.StatusOK, "none")
					return
				}
				c.String(http.StatusOK, flash.Kind+":"+flash.Message)
			})

			post := httptest.NewRecorder()
			router.ServeHTTP(post, httptest.NewRequest(http.MethodPost, "/save", nil))
			require.Equal(t, http.StatusSeeOther, post.Code)
			cookies := post.Result().Cookies()
			require.NotEmpty(t, cookies, "session cookie must be set on redirect")

			first := httptest.NewRequest(http.MethodGet, "/", nil)
			for _, cookie := range cookies {
				first.AddCookie(cookie)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, first)
			assert.Equal(t, "success:Title saved", rr.Body.String())

			second := httptest.NewRequest(http.MethodGet, "/", nil)
			for _, cookie := range cookies {
				second.AddCookie(cookie)
			}
			rr = httptest.NewRecorder()
			router.ServeHTTP(rr, second)
			assert.Equal(t, "none", rr.Body.String(), "flash is shown once")
		})
	}
}
