package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/biblioteka/internal/audit"
	"github.com/mrlokans/biblioteka/internal/catalog"
	"github.com/mrlokans/biblioteka/internal/database"
	"github.com/mrlokans/biblioteka/internal/database/authors"
	"github.com/mrlokans/biblioteka/internal/database/genres"
	"github.com/mrlokans/biblioteka/internal/database/titles"
	"github.com/mrlokans/biblioteka/internal/http"
	"github.com/mrlokans/biblioteka/internal/scheduler"
	"github.com/mrlokans/biblioteka/internal/tasks"
)

// =============================================================================
// Title Workflow
// =============================================================================

var _ catalog.Store = (*titles.Repository)(nil)
var _ catalog.AuditLogger = (*audit.Service)(nil)
var _ http.TitleService = (*catalog.Service)(nil)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ http.GenreStore = (*genres.Repository)(nil)
var _ http.AuthorStore = (*authors.Repository)(nil)
var _ http.AuditReader = (*audit.Service)(nil)
var _ http.Pinger = (*database.Database)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ http.TaskQueue = (*tasks.Client)(nil)
var _ scheduler.Enqueuer = (*tasks.Client)(nil)
var _ tasks.OrphanAuthorsCleaner = (*authors.Repository)(nil)
var _ tasks.CleanupReporter = (*audit.Service)(nil)
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)
