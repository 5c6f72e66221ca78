package http

import (
	"github.com/mrlokans/biblioteka/internal/catalog"
	"github.com/mrlokans/biblioteka/internal/readonly"
	"github.com/mrlokans/biblioteka/internal/web"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Titles  TitleService
	Genres  GenreStore
	Authors AuthorStore
	Health  Pinger

	// Audit trail (optional)
	AuditReader AuditReader
	AuditLogger catalog.AuditLogger

	// Task queue (optional); nil disables cleanup and task status endpoints
	TaskClient TaskQueue

	// UI paths. An empty TemplatesPath uses the embedded templates.
	TemplatesPath string
	StaticPath    string

	// Application info
	Version string

	// Form protection and flash messages (optional)
	CSRFSecret     []byte
	SecureCookies  bool
	SessionManager *web.SessionManager

	// Read-only mode (optional)
	ReadOnly *readonly.Middleware
}
