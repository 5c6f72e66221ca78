package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/biblioteka/internal/catalog"
	"github.com/mrlokans/biblioteka/internal/entities"
	"github.com/mrlokans/biblioteka/internal/web"
)

const msgInvalidGenre = "Select a valid choice. %s is not one of the available choices."

// TitlesController serves the HTML pages for browsing and editing titles.
type TitlesController struct {
	titles TitleService
	genres GenreStore
	pages  *pageRenderer
}

func NewTitlesController(titles TitleService, genres GenreStore, pages *pageRenderer) *TitlesController {
	return &TitlesController{
		titles: titles,
		genres: genres,
		pages:  pages,
	}
}

// titleForm is the state of the add/edit form between submissions.
type titleForm struct {
	Name        string
	Description string
	Author      string
}

// ListPage renders every title with its author.
// GET /
func (tc *TitlesController) ListPage(c *gin.Context) {
	titles, err := tc.titles.List(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list titles")
		tc.pages.renderError(c, http.StatusInternalServerError, "Error loading titles")
		return
	}

	tc.pages.render(c, http.StatusOK, "titles", gin.H{
		"Titles":      titles,
		"TotalTitles": len(titles),
	})
}

// DetailPage renders a single title.
// GET /titles/:id
func (tc *TitlesController) DetailPage(c *gin.Context) {
	title, ok := tc.loadTitle(c)
	if !ok {
		return
	}

	tc.pages.render(c, http.StatusOK, "title", gin.H{
		"Title": title.Name,
		"Entry": title,
	})
}

// AddPage renders an empty title form.
// GET /titles/add
func (tc *TitlesController) AddPage(c *gin.Context) {
	tc.renderForm(c, http.StatusOK, formPage{
		heading: "Add title",
		action:  "/titles/add",
	})
}

// Add creates a title from the submitted form.
// POST /titles/add
func (tc *TitlesController) Add(c *gin.Context) {
	in, form, fieldErrs := parseTitleForm(c)
	page := formPage{heading: "Add title", action: "/titles/add", form: form, selected: in.GenreIDs}
	if len(fieldErrs) > 0 {
		page.errors = fieldErrs
		tc.renderForm(c, http.StatusBadRequest, page)
		return
	}

	title, err := tc.titles.Submit(c.Request.Context(), in)
	if err != nil {
		tc.handleSubmitError(c, err, page)
		return
	}

	tc.pages.flash(c, web.FlashSuccess, fmt.Sprintf("Added %q", title.Name))
	c.Redirect(http.StatusSeeOther, "/")
}

// EditPage renders the form pre-filled with a title's current values.
// GET /titles/:id/edit
func (tc *TitlesController) EditPage(c *gin.Context) {
	title, ok := tc.loadTitle(c)
	if !ok {
		return
	}

	tc.renderForm(c, http.StatusOK, formPage{
		heading: "Edit title",
		action:  fmt.Sprintf("/titles/%d/edit", title.ID),
		form: titleForm{
			Name:        title.Name,
			Description: title.Description,
			Author:      title.Author.Name,
		},
		selected: title.GenreIDs(),
	})
}

// Edit updates a title from the submitted form.
// POST /titles/:id/edit
func (tc *TitlesController) Edit(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		tc.pages.renderError(c, http.StatusNotFound, "Title not found")
		return
	}

	in, form, fieldErrs := parseTitleForm(c)
	page := formPage{
		heading:  "Edit title",
		action:   fmt.Sprintf("/titles/%d/edit", id),
		form:     form,
		selected: in.GenreIDs,
	}
	if len(fieldErrs) > 0 {
		page.errors = fieldErrs
		tc.renderForm(c, http.StatusBadRequest, page)
		return
	}

	title, err := tc.titles.Update(c.Request.Context(), id, in)
	if err != nil {
		tc.handleSubmitError(c, err, page)
		return
	}

	tc.pages.flash(c, web.FlashSuccess, fmt.Sprintf("Saved %q", title.Name))
	c.Redirect(http.StatusSeeOther, "/")
}

// Delete removes a title and returns to the list, whether or not the title
// existed.
// POST /titles/:id/delete
func (tc *TitlesController) Delete(c *gin.Context) {
	if id, ok := parseID(c.Param("id")); ok {
		if err := tc.titles.Remove(c.Request.Context(), id); err != nil {
			log.Error().Err(err).Uint("title_id", id).Msg("Failed to delete title")
			tc.pages.flash(c, web.FlashError, "The title could not be deleted")
		} else {
			tc.pages.flash(c, web.FlashSuccess, "Title deleted")
		}
	}

	if isHTMXRequest(c) {
		c.Header("HX-Redirect", "/")
		c.Status(http.StatusOK)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// loadTitle resolves the :id parameter, rendering 404 when it names no title.
func (tc *TitlesController) loadTitle(c *gin.Context) (*entities.Title, bool) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		tc.pages.renderError(c, http.StatusNotFound, "Title not found")
		return nil, false
	}

	title, err := tc.titles.Get(c.Request.Context(), id)
	if catalog.IsNotFound(err) {
		tc.pages.renderError(c, http.StatusNotFound, "Title not found")
		return nil, false
	}
	if err != nil {
		log.Error().Err(err).Uint("title_id", id).Msg("Failed to load title")
		tc.pages.renderError(c, http.StatusInternalServerError, "Error loading title")
		return nil, false
	}
	return title, true
}

// handleSubmitError re-renders the form for rejected input, 404s for a
// vanished title and 500s otherwise.
func (tc *TitlesController) handleSubmitError(c *gin.Context, err error, page formPage) {
	var verr *catalog.ValidationError
	var nf *catalog.NotFoundError
	switch {
	case errors.As(err, &verr):
		page.errors = verr.Fields
		tc.renderForm(c, http.StatusBadRequest, page)
	case errors.As(err, &nf) && nf.Resource == "genre":
		page.errors = map[string]string{"genre": fmt.Sprintf(msgInvalidGenre, fmt.Sprint(nf.ID))}
		tc.renderForm(c, http.StatusBadRequest, page)
	case errors.As(err, &nf):
		tc.pages.renderError(c, http.StatusNotFound, "Title not found")
	default:
		log.Error().Err(err).Msg("Failed to save title")
		tc.pages.renderError(c, http.StatusInternalServerError, "Error saving title")
	}
}

type formPage struct {
	heading  string
	action   string
	form     titleForm
	selected []uint
	errors   map[string]string
}

func (tc *TitlesController) renderForm(c *gin.Context, status int, page formPage) {
	// Without a genre lister the form renders with no genre options.
	var genres []entities.Genre
	if tc.genres != nil {
		var err error
		genres, err = tc.genres.ListGenres(c.Request.Context())
		if err != nil {
			log.Error().Err(err).Msg("Failed to list genres")
			tc.pages.renderError(c, http.StatusInternalServerError, "Error loading genres")
			return
		}
	}

	selected := make(map[uint]bool, len(page.selected))
	for _, id := range page.selected {
		selected[id] = true
	}
	if page.errors == nil {
		page.errors = map[string]string{}
	}

	tc.pages.render(c, status, "title-form", gin.H{
		"Title":    page.heading,
		"Heading":  page.heading,
		"Action":   page.action,
		"Form":     page.form,
		"Genres":   genres,
		"Selected": selected,
		"Errors":   page.errors,
	})
}

// parseTitleForm reads the urlencoded form. Genre values that are not
// numeric ids are reported as field errors.
func parseTitleForm(c *gin.Context) (catalog.TitleInput, titleForm, map[string]string) {
	form := titleForm{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Author:      c.PostForm("author"),
	}
	in := catalog.TitleInput{
		Name:        form.Name,
		Description: form.Description,
		Author:      form.Author,
	}

	fieldErrs := map[string]string{}
	for _, raw := range c.PostFormArray("genre") {
		raw = strings.TrimSpace(raw)
		id, ok := parseID(raw)
		if !ok {
			fieldErrs["genre"] = fmt.Sprintf(msgInvalidGenre, raw)
			continue
		}
		in.GenreIDs = append(in.GenreIDs, id)
	}

	// Report the remaining field problems alongside the genre error
	if len(fieldErrs) > 0 {
		var verr *catalog.ValidationError
		if errors.As(in.Normalize().Validate(), &verr) {
			for field, msg := range verr.Fields {
				fieldErrs[field] = msg
			}
		}
	}
	return in, form, fieldErrs
}
