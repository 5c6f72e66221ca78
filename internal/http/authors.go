package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/biblioteka/internal/catalog"
	"github.com/mrlokans/biblioteka/internal/entities"
)

type AuthorsController struct {
	store      AuthorStore
	taskClient TaskQueue
	audit      catalog.AuditLogger
}

// NewAuthorsController creates the author endpoints. taskClient and audit
// may be nil.
func NewAuthorsController(store AuthorStore, taskClient TaskQueue, audit catalog.AuditLogger) *AuthorsController {
	return &AuthorsController{
		store:      store,
		taskClient: taskClient,
		audit:      audit,
	}
}

// ListAuthors returns every author with its title count.
// GET /api/authors
func (ac *AuthorsController) ListAuthors(c *gin.Context) {
	authors, err := ac.store.ListAuthors(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "list authors")
		return
	}
	c.JSON(http.StatusOK, authors)
}

// GetAuthor returns one author.
// GET /api/authors/:id
func (ac *AuthorsController) GetAuthor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	author, err := ac.store.GetAuthor(c.Request.Context(), id)
	if errors.Is(err, catalog.ErrRecordNotFound) {
		respondNotFound(c, "author")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get author")
		return
	}
	c.JSON(http.StatusOK, author)
}

// DeleteAuthor removes an author together with all of its titles.
// DELETE /api/authors/:id
func (ac *AuthorsController) DeleteAuthor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	removed, err := ac.store.DeleteAuthor(c.Request.Context(), id)
	if errors.Is(err, catalog.ErrRecordNotFound) {
		respondNotFound(c, "author")
		return
	}
	if err != nil {
		respondInternalError(c, err, "delete author")
		return
	}

	if ac.audit != nil {
		ac.audit.LogMutation(entities.AuditEventDelete, "author", id,
			fmt.Sprintf("Deleted author %d with %d titles", id, removed))
	}
	respondSuccess(c, "author deleted", gin.H{"id": id, "titles_removed": removed})
}

// CleanupOrphanAuthors enqueues removal of authors without titles.
// Requires the task queue to be enabled.
// POST /api/admin/authors/cleanup
func (ac *AuthorsController) CleanupOrphanAuthors(c *gin.Context) {
	if ac.taskClient == nil {
		respondError(c, http.StatusServiceUnavailable, "task queue is not enabled")
		return
	}

	taskID, err := ac.taskClient.EnqueueAuthorCleanup(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "enqueue cleanup task")
		return
	}
	log.Info().Str("task_id", taskID).Msg("Enqueued orphan author cleanup")

	respondAccepted(c, "cleanup task started", gin.H{"task_id": taskID})
}
