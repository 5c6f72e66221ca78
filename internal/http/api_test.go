package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/biblioteka/internal/entities"
)

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v))
	return v
}

func TestTitlesAPIController_CreateTitle(t *testing.T) {
	t.Run("creates a title", func(t *testing.T) {
		app := setupTestApp(t)
		body := fmt.Sprintf(`{"name":"Harry Potter","description":"Wizards","author":"J.K. Rowling","genre_ids":[%d,%d,%d]}`,
			app.genres[0].ID, app.genres[1].ID, app.genres[0].ID)

		w := app.sendJSON(http.MethodPost, "/api/titles", body)

		require.Equal(t, http.StatusCreated, w.Code)
		title := decode[entities.Title](t, w.Body.Bytes())
		assert.NotZero(t, title.ID)
		assert.Equal(t, "J.K. Rowling", title.Author.Name)
		assert.Len(t, title.Genres, 2)
	})

	t.Run("validation errors carry field details", func(t *testing.T) {
		app := setupTestApp(t)

		w := app.sendJSON(http.MethodPost, "/api/titles", `{"name":"","author":"J.K. Rowling"}`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode[ErrorResponse](t, w.Body.Bytes())
		assert.Equal(t, codeValidationFailed, resp.Code)
		details, ok := resp.Details.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "this field is required", details["name"])
	})

	t.Run("non-text author is rejected", func(t *testing.T) {
		app := setupTestApp(t)

		w := app.sendJSON(http.MethodPost, "/api/titles", `{"name":"Harry Potter","author":42}`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode[ErrorResponse](t, w.Body.Bytes())
		details := resp.Details.(map[string]any)
		assert.Equal(t, "must be a text value", details["author"])
	})

	t.Run("non-text name and description are field errors", func(t *testing.T) {
		app := setupTestApp(t)

		w := app.sendJSON(http.MethodPost, "/api/titles", `{"name":5,"description":["x"],"author":"J.K. Rowling"}`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode[ErrorResponse](t, w.Body.Bytes())
		assert.Equal(t, "validation_failed", resp.Code)
		details := resp.Details.(map[string]any)
		assert.Equal(t, "must be a text value", details["name"])
		assert.Equal(t, "must be a text value", details["description"])
		assert.NotContains(t, details, "author")
		assert.Equal(t, int64(0), countRows(t, app, &entities.Title{}))
	})

	t.Run("unknown genre is 404", func(t *testing.T) {
		app := setupTestApp(t)

		w := app.sendJSON(http.MethodPost, "/api/titles", `{"name":"Harry Potter","author":"J.K. Rowling","genre_ids":[9999]}`)

		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "genre 9999 not found")
	})

	t.Run("malformed body is 400", func(t *testing.T) {
		app := setupTestApp(t)

		w := app.sendJSON(http.MethodPost, "/api/titles", `{`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTitlesAPIController_ReadUpdateDelete(t *testing.T) {
	app := setupTestApp(t)
	title := app.submit(t, "Harry Plotter", "J.K. Rowling", app.genres[0].ID)
	path := fmt.Sprintf("/api/titles/%d", title.ID)

	t.Run("list", func(t *testing.T) {
		w := app.get("/api/titles")

		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[struct {
			Titles []entities.Title `json:"titles"`
			Total  int              `json:"total"`
		}](t, w.Body.Bytes())
		assert.Equal(t, 1, resp.Total)
		assert.Equal(t, "Harry Plotter", resp.Titles[0].Name)
	})

	t.Run("get", func(t *testing.T) {
		w := app.get(path)

		require.Equal(t, http.StatusOK, w.Code)
		got := decode[entities.Title](t, w.Body.Bytes())
		assert.Equal(t, title.ID, got.ID)
	})

	t.Run("update replaces genres", func(t *testing.T) {
		w := app.sendJSON(http.MethodPut, path, `{"name":"Harry Potter","author":"J.K. Rowling","genre_ids":[]}`)

		require.Equal(t, http.StatusOK, w.Code)
		got := decode[entities.Title](t, w.Body.Bytes())
		assert.Equal(t, "Harry Potter", got.Name)
		assert.Empty(t, got.Genres)
	})

	t.Run("update of missing title is 404", func(t *testing.T) {
		w := app.sendJSON(http.MethodPut, "/api/titles/9999", `{"name":"X","author":"Y"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		for range 2 {
			req, _ := http.NewRequest(http.MethodDelete, path, nil)
			w := app.do(req)
			assert.Equal(t, http.StatusOK, w.Code)
		}
		assert.Equal(t, http.StatusNotFound, app.get(path).Code)
	})

	t.Run("invalid id is 400", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, app.get("/api/titles/abc").Code)
	})
}

func TestGenresController(t *testing.T) {
	app := setupTestApp(t)

	t.Run("lists seeded genres", func(t *testing.T) {
		w := app.get("/api/genres")

		require.Equal(t, http.StatusOK, w.Code)
		genres := decode[[]entities.Genre](t, w.Body.Bytes())
		require.Len(t, genres, 2)
		assert.Equal(t, "Fantasy", genres[0].Name)
	})

	t.Run("creates a genre", func(t *testing.T) {
		w := app.sendJSON(http.MethodPost, "/api/genres", `{"name":"Horror"}`)

		require.Equal(t, http.StatusCreated, w.Code)
		genre := decode[entities.Genre](t, w.Body.Bytes())
		assert.Equal(t, "Horror", genre.Name)
	})

	t.Run("existing genre is returned", func(t *testing.T) {
		w := app.sendJSON(http.MethodPost, "/api/genres", `{"name":"Fantasy"}`)

		require.Equal(t, http.StatusOK, w.Code)
		genre := decode[entities.Genre](t, w.Body.Bytes())
		assert.Equal(t, app.genres[0].ID, genre.ID)
	})

	t.Run("blank name is rejected", func(t *testing.T) {
		w := app.sendJSON(http.MethodPost, "/api/genres", `{"name":"  "}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("get", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, app.get(fmt.Sprintf("/api/genres/%d", app.genres[1].ID)).Code)
		assert.Equal(t, http.StatusNotFound, app.get("/api/genres/9999").Code)
	})
}

type fakeEnqueuer struct {
	taskID string
	err    error
	calls  int

	statuses  map[string]string
	statusErr error
}

func (f *fakeEnqueuer) EnqueueAuthorCleanup(context.Context) (string, error) {
	f.calls++
	return f.taskID, f.err
}

func (f *fakeEnqueuer) TaskStatus(_ context.Context, taskID string) (string, error) {
	if f.statusErr != nil {
		return "", f.statusErr
	}
	if status, ok := f.statuses[taskID]; ok {
		return status, nil
	}
	return "not_found", nil
}

func TestAuthorsController(t *testing.T) {
	t.Run("lists authors with title counts", func(t *testing.T) {
		app := setupTestApp(t)
		app.submit(t, "Harry Potter", "J.K. Rowling")
		app.submit(t, "The Casual Vacancy", "J.K. Rowling")

		w := app.get("/api/authors")

		require.Equal(t, http.StatusOK, w.Code)
		authors := decode[[]entities.AuthorSummary](t, w.Body.Bytes())
		require.Len(t, authors, 1)
		assert.Equal(t, int64(2), authors[0].TitleCount)
	})

	t.Run("gets one author", func(t *testing.T) {
		app := setupTestApp(t)
		title := app.submit(t, "Harry Potter", "J.K. Rowling")

		w := app.get(fmt.Sprintf("/api/authors/%d", title.AuthorID))

		require.Equal(t, http.StatusOK, w.Code)
		author := decode[entities.Author](t, w.Body.Bytes())
		assert.Equal(t, "J.K. Rowling", author.Name)

		assert.Equal(t, http.StatusNotFound, app.get("/api/authors/9999").Code)
		assert.Equal(t, http.StatusBadRequest, app.get("/api/authors/abc").Code)
	})

	t.Run("delete cascades to titles", func(t *testing.T) {
		app := setupTestApp(t)
		title := app.submit(t, "Harry Potter", "J.K. Rowling", app.genres[0].ID)
		app.submit(t, "The Hobbit", "J.R.R. Tolkien")

		req, _ := http.NewRequest(http.MethodDelete, fmt.Sprintf("/api/authors/%d", title.AuthorID), nil)
		w := app.do(req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"titles_removed":1`)
		assert.Equal(t, int64(1), countRows(t, app, &entities.Title{}))
		assert.Equal(t, http.StatusNotFound, app.get(fmt.Sprintf("/titles/%d", title.ID)).Code)

		app.audit.Wait()
		events, _, err := app.audit.GetEvents(context.Background(), entities.AuditEventDelete, 10, 0)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "author_delete", events[0].Action)
	})

	t.Run("delete of missing author is 404", func(t *testing.T) {
		app := setupTestApp(t)

		req, _ := http.NewRequest(http.MethodDelete, "/api/authors/9999", nil)
		w := app.do(req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("cleanup without task queue is 503", func(t *testing.T) {
		app := setupTestApp(t)

		w := app.sendJSON(http.MethodPost, "/api/admin/authors/cleanup", "")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("cleanup enqueues a task", func(t *testing.T) {
		enqueuer := &fakeEnqueuer{taskID: "task-1"}
		app := setupTestApp(t, func(cfg *RouterConfig) { cfg.TaskClient = enqueuer })

		w := app.sendJSON(http.MethodPost, "/api/admin/authors/cleanup", "")

		require.Equal(t, http.StatusAccepted, w.Code)
		assert.Contains(t, w.Body.String(), "task-1")
		assert.Equal(t, 1, enqueuer.calls)
	})

	t.Run("enqueue failure is 500", func(t *testing.T) {
		enqueuer := &fakeEnqueuer{err: errors.New("queue closed")}
		app := setupTestApp(t, func(cfg *RouterConfig) { cfg.TaskClient = enqueuer })

		w := app.sendJSON(http.MethodPost, "/api/admin/authors/cleanup", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "queue closed")
	})
}

func TestTasksController(t *testing.T) {
	queue := &fakeEnqueuer{statuses: map[string]string{"task-1": "success"}}
	app := setupTestApp(t, func(cfg *RouterConfig) { cfg.TaskClient = queue })

	t.Run("known task reports its state", func(t *testing.T) {
		w := app.get("/api/tasks/task-1")

		require.Equal(t, http.StatusOK, w.Code)
		body := decode[map[string]string](t, w.Body.Bytes())
		assert.Equal(t, "task-1", body["id"])
		assert.Equal(t, "success", body["status"])
	})

	t.Run("unknown task is 404", func(t *testing.T) {
		w := app.get("/api/tasks/missing")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("queue errors are 500", func(t *testing.T) {
		queue.statusErr = errors.New("database is locked")
		defer func() { queue.statusErr = nil }()

		w := app.get("/api/tasks/task-1")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "locked")
	})

	t.Run("route is absent without a task queue", func(t *testing.T) {
		plain := setupTestApp(t)
		w := plain.get("/api/tasks/task-1")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAuditController(t *testing.T) {
	app := setupTestApp(t)
	title := app.submit(t, "Harry Potter", "J.K. Rowling")
	app.audit.Wait()
	require.NoError(t, app.service.Remove(context.Background(), title.ID))
	app.audit.Wait()

	t.Run("json lists events newest first", func(t *testing.T) {
		w := app.get("/api/audit")

		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[struct {
			Data    []entities.AuditEvent `json:"data"`
			Total   int64                 `json:"total"`
			HasMore bool                  `json:"has_more"`
		}](t, w.Body.Bytes())
		assert.Equal(t, int64(2), resp.Total)
		assert.False(t, resp.HasMore)
		require.Len(t, resp.Data, 2)
		assert.Equal(t, "title_delete", resp.Data[0].Action)
	})

	t.Run("json filters by type", func(t *testing.T) {
		w := app.get("/api/audit?type=create&limit=1")

		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[PaginatedResponse](t, w.Body.Bytes())
		assert.Equal(t, int64(1), resp.Total)
		assert.Equal(t, 1, resp.Limit)
	})

	t.Run("html page renders", func(t *testing.T) {
		w := app.get("/audit")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "title_create")
	})
}
