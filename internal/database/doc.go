// Package database provides the data access layer for the catalog.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup (sqlite or postgres), migrations, genre seeding
//	├── titles/          # Titles plus the author/genre lookups the title workflow needs
//	├── genres/          # Genre listing and creation
//	├── authors/         # Author listing, cascading delete, orphan cleanup
//	└── audit/           # Audit event storage
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./biblioteka.db")
//
//	titlesRepo := titles.NewRepository(db.DB)
//	genresRepo := genres.NewRepository(db.DB)
//
//	service := catalog.NewService(titlesRepo)
//	title, err := service.Get(ctx, 1)
//
// # Interface Implementations
//
//   - titles.Repository: implements catalog.Store
//   - genres.Repository: implements http.GenreStore
//   - authors.Repository: implements http.AuthorStore and tasks.OrphanAuthorsCleaner
//   - audit.Repository: backs audit.Service
//
// Compile-time checks live in internal/interfaces.
package database
