package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/biblioteka/internal/audit"
	"github.com/mrlokans/biblioteka/internal/catalog"
	"github.com/mrlokans/biblioteka/internal/database"
	auditrepo "github.com/mrlokans/biblioteka/internal/database/audit"
	"github.com/mrlokans/biblioteka/internal/database/authors"
	"github.com/mrlokans/biblioteka/internal/database/genres"
	"github.com/mrlokans/biblioteka/internal/database/titles"
	"github.com/mrlokans/biblioteka/internal/entities"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testApp is a router backed by a real sqlite catalog seeded with the
// Fantasy and Adventure genres.
type testApp struct {
	router  *gin.Engine
	db      *database.Database
	service *catalog.Service
	audit   *audit.Service
	genres  []entities.Genre
}

func setupTestApp(t *testing.T, mutate ...func(*RouterConfig)) *testApp {
	t.Helper()

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)

	auditSvc := audit.NewService(auditrepo.NewRepository(db.DB))
	t.Cleanup(func() {
		auditSvc.Wait()
		db.Close()
	})

	_, err = db.SeedGenres([]string{"Fantasy", "Adventure"})
	require.NoError(t, err)

	genreRepo := genres.NewRepository(db.DB)
	seeded, err := genreRepo.ListGenres(context.Background())
	require.NoError(t, err)

	service := catalog.NewService(titles.NewRepository(db.DB))
	service.SetAuditLogger(auditSvc)

	cfg := RouterConfig{
		Titles:      service,
		Genres:      genreRepo,
		Authors:     authors.NewRepository(db.DB),
		Health:      db,
		AuditReader: auditSvc,
		AuditLogger: auditSvc,
		Version:     "test",
	}
	for _, m := range mutate {
		m(&cfg)
	}

	return &testApp{
		router:  NewRouter(cfg),
		db:      db,
		service: service,
		audit:   auditSvc,
		genres:  seeded,
	}
}

// submit creates a title through the workflow service.
func (a *testApp) submit(t *testing.T, name, author string, genreIDs ...uint) *entities.Title {
	t.Helper()
	title, err := a.service.Submit(context.Background(), catalog.TitleInput{
		Name:        name,
		Description: "A description of " + name,
		Author:      author,
		GenreIDs:    genreIDs,
	})
	require.NoError(t, err)
	return title
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) get(path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	return a.do(req)
}

func (a *testApp) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req)
}

func (a *testApp) sendJSON(method, path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return a.do(req)
}
