package http

import (
	"context"

	"github.com/mrlokans/biblioteka/internal/catalog"
	"github.com/mrlokans/biblioteka/internal/entities"
)

// This file consolidates the interfaces HTTP controllers depend on. Each
// controller takes only the slice of behaviour it uses.

// TitleService is the title workflow as seen by the HTML and JSON handlers.
type TitleService interface {
	Submit(ctx context.Context, in catalog.TitleInput) (*entities.Title, error)
	Update(ctx context.Context, id uint, in catalog.TitleInput) (*entities.Title, error)
	Remove(ctx context.Context, id uint) error
	List(ctx context.Context) ([]entities.Title, error)
	Get(ctx context.Context, id uint) (*entities.Title, error)
}

// GenreStore provides genre listing and creation.
type GenreStore interface {
	ListGenres(ctx context.Context) ([]entities.Genre, error)
	GetGenre(ctx context.Context, id uint) (*entities.Genre, error)
	CreateGenre(ctx context.Context, name string) (*entities.Genre, bool, error)
}

// AuthorStore provides author statistics and cascading deletion.
type AuthorStore interface {
	ListAuthors(ctx context.Context) ([]entities.AuthorSummary, error)
	GetAuthor(ctx context.Context, id uint) (*entities.Author, error)
	DeleteAuthor(ctx context.Context, id uint) (int64, error)
}

// TaskQueue enqueues maintenance tasks and reports their progress.
type TaskQueue interface {
	EnqueueAuthorCleanup(ctx context.Context) (string, error)
	TaskStatus(ctx context.Context, taskID string) (string, error)
}

// AuditReader lists recorded audit events.
type AuditReader interface {
	GetEvents(ctx context.Context, eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error)
}

// Pinger reports database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}
