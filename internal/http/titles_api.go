package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/biblioteka/internal/catalog"
)

// TitlesAPIController exposes the title workflow as JSON.
type TitlesAPIController struct {
	titles TitleService
}

func NewTitlesAPIController(titles TitleService) *TitlesAPIController {
	return &TitlesAPIController{titles: titles}
}

// titleRequest is the JSON body for create and update. Text fields are
// decoded loosely so that a non-text value is reported as a field error.
type titleRequest struct {
	Name        any    `json:"name"`
	Description any    `json:"description"`
	Author      any    `json:"author"`
	GenreIDs    []uint `json:"genre_ids"`
}

func (r titleRequest) toInput() (catalog.TitleInput, error) {
	invalid := &catalog.ValidationError{Fields: map[string]string{}}
	text := func(field string, v any) string {
		s, err := catalog.TextValue(field, v)
		var fieldErr *catalog.ValidationError
		if errors.As(err, &fieldErr) {
			for k, msg := range fieldErr.Fields {
				invalid.Fields[k] = msg
			}
		}
		return s
	}

	in := catalog.TitleInput{
		Name:        text("name", r.Name),
		Description: text("description", r.Description),
		Author:      text("author", r.Author),
		GenreIDs:    r.GenreIDs,
	}
	if len(invalid.Fields) > 0 {
		return catalog.TitleInput{}, invalid
	}
	return in, nil
}

// bindTitle decodes the body, responding 400 on failure.
func bindTitle(c *gin.Context) (catalog.TitleInput, bool) {
	var req titleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return catalog.TitleInput{}, false
	}
	in, err := req.toInput()
	if err != nil {
		respondCatalogError(c, err, "decode title")
		return catalog.TitleInput{}, false
	}
	return in, true
}

// ListTitles returns every title with author and genres.
// GET /api/titles
func (ac *TitlesAPIController) ListTitles(c *gin.Context) {
	titles, err := ac.titles.List(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "list titles")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"titles": titles,
		"total":  len(titles),
	})
}

// GetTitle returns a single title.
// GET /api/titles/:id
func (ac *TitlesAPIController) GetTitle(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	title, err := ac.titles.Get(c.Request.Context(), id)
	if err != nil {
		respondCatalogError(c, err, "get title")
		return
	}
	c.JSON(http.StatusOK, title)
}

// CreateTitle submits a new title.
// POST /api/titles
func (ac *TitlesAPIController) CreateTitle(c *gin.Context) {
	in, ok := bindTitle(c)
	if !ok {
		return
	}

	title, err := ac.titles.Submit(c.Request.Context(), in)
	if err != nil {
		respondCatalogError(c, err, "create title")
		return
	}
	respondCreated(c, title)
}

// UpdateTitle replaces a title's fields and genre set.
// PUT /api/titles/:id
func (ac *TitlesAPIController) UpdateTitle(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	in, ok := bindTitle(c)
	if !ok {
		return
	}

	title, err := ac.titles.Update(c.Request.Context(), id, in)
	if err != nil {
		respondCatalogError(c, err, "update title")
		return
	}
	c.JSON(http.StatusOK, title)
}

// DeleteTitle removes a title. Deleting an absent title succeeds.
// DELETE /api/titles/:id
func (ac *TitlesAPIController) DeleteTitle(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ac.titles.Remove(c.Request.Context(), id); err != nil {
		respondInternalError(c, err, "delete title")
		return
	}
	respondSuccess(c, "title deleted", gin.H{"id": id})
}
