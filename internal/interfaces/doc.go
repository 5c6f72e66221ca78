// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Title Workflow
//
//   - catalog.Store: transactional persistence for the title workflow (internal/catalog/service.go)
//   - catalog.AuditLogger: receives successful catalog mutations (internal/catalog/service.go)
//   - http.TitleService: the workflow as seen by handlers (internal/http/stores.go)
//
// ## Data Access Interfaces
//
//   - GenreStore: genre listing and creation (internal/http/stores.go)
//   - AuthorStore: author statistics and cascading deletion (internal/http/stores.go)
//   - AuditReader: audit log pages (internal/http/stores.go)
//   - TaskQueue: enqueues maintenance tasks and reports their state (internal/http/stores.go)
//
// ## Background Work
//
//   - scheduler.Enqueuer: cron jobs hand work to the task queue (internal/scheduler/maintenance.go)
//   - tasks.OrphanAuthorsCleaner, tasks.CleanupReporter, tasks.AuditEventCleaner:
//     dependencies of the task processors (internal/tasks/)
//
// # Adding a New Database Domain
//
// To add a new data domain (e.g., publishers):
//
//  1. Create sub-package: internal/database/publishers/
//
//  2. Define repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Declare the interface the consumer needs next to the consumer
//
//  4. Add compile-time check:
//
//     var _ http.PublisherStore = (*publishers.Repository)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
