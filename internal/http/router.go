package http

import (
	"html/template"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/biblioteka/internal/logging"
	"github.com/mrlokans/biblioteka/internal/web"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Optional dependencies left nil in cfg disable their routes.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(logging.RequestID())
	router.Use(logging.RequestLogger())
	router.Use(logging.Recovery())

	// Apply security headers to all responses
	router.Use(web.SecurityHeadersMiddleware())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(web.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	if cfg.ReadOnly != nil {
		router.Use(cfg.ReadOnly.Handler())
	}

	tmpl := template.Must(loadTemplates(cfg.TemplatesPath))
	router.SetHTMLTemplate(tmpl)

	if cfg.StaticPath != "" {
		router.Static("/static", cfg.StaticPath)
	}

	pages := &pageRenderer{sessions: cfg.SessionManager, version: cfg.Version}

	health := NewHealthController(cfg.Health, cfg.Version)
	titlesUI := NewTitlesController(cfg.Titles, cfg.Genres, pages)
	titlesAPI := NewTitlesAPIController(cfg.Titles)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	// UI routes
	router.GET("/", titlesUI.ListPage)
	router.GET("/titles/add", titlesUI.AddPage)
	router.POST("/titles/add", titlesUI.Add)
	router.GET("/titles/:id", titlesUI.DetailPage)
	router.GET("/titles/:id/edit", titlesUI.EditPage)
	router.POST("/titles/:id/edit", titlesUI.Edit)
	router.POST("/titles/:id/delete", titlesUI.Delete)

	// Titles API
	router.GET("/api/titles", titlesAPI.ListTitles)
	router.POST("/api/titles", titlesAPI.CreateTitle)
	router.GET("/api/titles/:id", titlesAPI.GetTitle)
	router.PUT("/api/titles/:id", titlesAPI.UpdateTitle)
	router.DELETE("/api/titles/:id", titlesAPI.DeleteTitle)

	if cfg.Genres != nil {
		genres := NewGenresController(cfg.Genres)
		router.GET("/api/genres", genres.ListGenres)
		router.POST("/api/genres", genres.CreateGenre)
		router.GET("/api/genres/:id", genres.GetGenre)
	}

	if cfg.Authors != nil {
		authors := NewAuthorsController(cfg.Authors, cfg.TaskClient, cfg.AuditLogger)
		router.GET("/api/authors", authors.ListAuthors)
		router.GET("/api/authors/:id", authors.GetAuthor)
		router.DELETE("/api/authors/:id", authors.DeleteAuthor)
		router.POST("/api/admin/authors/cleanup", authors.CleanupOrphanAuthors)
	}

	if cfg.TaskClient != nil {
		taskStatus := NewTasksController(cfg.TaskClient)
		router.GET("/api/tasks/:id", taskStatus.GetTaskStatus)
	}

	if cfg.AuditReader != nil {
		audit := NewAuditController(cfg.AuditReader, pages)
		router.GET("/audit", audit.AuditLogPage)
		router.GET("/api/audit", audit.GetAuditEvents)
	}

	return router
}
