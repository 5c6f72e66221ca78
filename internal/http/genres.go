package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/biblioteka/internal/catalog"
)

type GenresController struct {
	store GenreStore
}

func NewGenresController(store GenreStore) *GenresController {
	return &GenresController{store: store}
}

// ListGenres returns all genres ordered by id.
// GET /api/genres
func (gc *GenresController) ListGenres(c *gin.Context) {
	genres, err := gc.store.ListGenres(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "list genres")
		return
	}
	c.JSON(http.StatusOK, genres)
}

// GetGenre returns one genre.
// GET /api/genres/:id
func (gc *GenresController) GetGenre(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	genre, err := gc.store.GetGenre(c.Request.Context(), id)
	if errors.Is(err, catalog.ErrRecordNotFound) {
		respondNotFound(c, "genre")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get genre")
		return
	}
	c.JSON(http.StatusOK, genre)
}

// CreateGenre adds a genre, returning the existing one for a known name.
// POST /api/genres
func (gc *GenresController) CreateGenre(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if err := catalog.ValidateGenreName(req.Name); err != nil {
		respondCatalogError(c, err, "validate genre")
		return
	}

	genre, created, err := gc.store.CreateGenre(c.Request.Context(), req.Name)
	if err != nil {
		respondInternalError(c, err, "create genre")
		return
	}
	if !created {
		c.JSON(http.StatusOK, genre)
		return
	}
	respondCreated(c, genre)
}
