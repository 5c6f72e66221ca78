// Package catalog implements the title workflow: validating submissions,
// resolving the author by name and the genres by id, and persisting titles.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/mrlokans/biblioteka/internal/entities"
)

// Store is the persistence boundary of the workflow. Result slices are
// fully loaded; titles come back with Author and Genres populated.
type Store interface {
	// Transaction runs fn against a Store bound to a single transaction.
	Transaction(ctx context.Context, fn func(tx Store) error) error

	// FindAuthorByName matches the name exactly, returning ErrRecordNotFound
	// when no author has it.
	FindAuthorByName(ctx context.Context, name string) (*entities.Author, error)
	CreateAuthor(ctx context.Context, author *entities.Author) error

	// FindGenresByIDs returns the existing genres among ids, ordered by id.
	FindGenresByIDs(ctx context.Context, ids []uint) ([]entities.Genre, error)

	GetTitle(ctx context.Context, id uint) (*entities.Title, error)
	ListTitles(ctx context.Context) ([]entities.Title, error)

	// SaveTitle writes the scalar columns, assigning an id to new titles.
	SaveTitle(ctx context.Context, title *entities.Title) error
	// ReplaceTitleGenres makes genres the complete association set.
	ReplaceTitleGenres(ctx context.Context, title *entities.Title, genres []entities.Genre) error
	// DeleteTitle removes the title and its genre links, reporting whether
	// anything was deleted.
	DeleteTitle(ctx context.Context, id uint) (bool, error)
}

// AuditLogger records successful catalog mutations.
type AuditLogger interface {
	LogMutation(eventType entities.AuditEventType, entityType string, entityID uint, description string)
}

// Service mediates between submitted field values and the persisted
// title/author/genre graph.
type Service struct {
	store Store
	audit AuditLogger
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// SetAuditLogger enables audit records for submit, update and remove.
func (s *Service) SetAuditLogger(audit AuditLogger) {
	s.audit = audit
}

// Submit creates a title, creating its author when no author has exactly
// that name.
func (s *Service) Submit(ctx context.Context, in TitleInput) (*entities.Title, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	title := &entities.Title{}
	err := s.store.Transaction(ctx, func(tx Store) error {
		return s.apply(ctx, tx, title, in)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Uint("title_id", title.ID).Uint("author_id", title.AuthorID).Msg("Title created")
	s.logMutation(entities.AuditEventCreate, title.ID, "Created title: "+title.Name)
	return title, nil
}

// Update rewrites an existing title. The genre set is replaced, not merged.
func (s *Service) Update(ctx context.Context, id uint, in TitleInput) (*entities.Title, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var title *entities.Title
	err := s.store.Transaction(ctx, func(tx Store) error {
		existing, err := tx.GetTitle(ctx, id)
		if errors.Is(err, ErrRecordNotFound) {
			return &NotFoundError{Resource: "title", ID: id}
		}
		if err != nil {
			return fmt.Errorf("load title %d: %w", id, err)
		}
		title = existing
		return s.apply(ctx, tx, title, in)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Uint("title_id", title.ID).Uint("author_id", title.AuthorID).Msg("Title updated")
	s.logMutation(entities.AuditEventUpdate, title.ID, "Updated title: "+title.Name)
	return title, nil
}

// Remove deletes a title. Removing an absent title succeeds.
func (s *Service) Remove(ctx context.Context, id uint) error {
	deleted, err := s.store.DeleteTitle(ctx, id)
	if err != nil {
		return fmt.Errorf("delete title %d: %w", id, err)
	}
	if deleted {
		log.Info().Uint("title_id", id).Msg("Title deleted")
		s.logMutation(entities.AuditEventDelete, id, fmt.Sprintf("Deleted title %d", id))
	}
	return nil
}

// List returns every title ordered by id.
func (s *Service) List(ctx context.Context) ([]entities.Title, error) {
	titles, err := s.store.ListTitles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list titles: %w", err)
	}
	return titles, nil
}

// Get returns a single title or a NotFoundError.
func (s *Service) Get(ctx context.Context, id uint) (*entities.Title, error) {
	title, err := s.store.GetTitle(ctx, id)
	if errors.Is(err, ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: "title", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get title %d: %w", id, err)
	}
	return title, nil
}

// apply resolves references and persists title in two phases: scalar
// columns first so the title has an id, then the genre links.
func (s *Service) apply(ctx context.Context, tx Store, title *entities.Title, in TitleInput) error {
	genres, err := resolveGenres(ctx, tx, in.GenreIDs)
	if err != nil {
		return err
	}

	author, err := getOrCreateAuthor(ctx, tx, in.Author)
	if err != nil {
		return err
	}

	title.Name = in.Name
	title.Description = in.Description
	title.AuthorID = author.ID
	title.Author = *author

	if err := tx.SaveTitle(ctx, title); err != nil {
		return fmt.Errorf("save title: %w", err)
	}
	if err := tx.ReplaceTitleGenres(ctx, title, genres); err != nil {
		return fmt.Errorf("save title genres: %w", err)
	}
	title.Genres = genres
	return nil
}

func getOrCreateAuthor(ctx context.Context, tx Store, name string) (*entities.Author, error) {
	author, err := tx.FindAuthorByName(ctx, name)
	if err == nil {
		return author, nil
	}
	if !errors.Is(err, ErrRecordNotFound) {
		return nil, fmt.Errorf("find author: %w", err)
	}

	author = &entities.Author{Name: name}
	if err := tx.CreateAuthor(ctx, author); err != nil {
		return nil, fmt.Errorf("create author: %w", err)
	}
	log.Debug().Uint("author_id", author.ID).Str("author", name).Msg("Created author")
	return author, nil
}

func resolveGenres(ctx context.Context, tx Store, ids []uint) ([]entities.Genre, error) {
	ids = lo.Uniq(ids)
	if len(ids) == 0 {
		return []entities.Genre{}, nil
	}

	genres, err := tx.FindGenresByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find genres: %w", err)
	}

	found := lo.Map(genres, func(g entities.Genre, _ int) uint { return g.ID })
	if missing := lo.Without(ids, found...); len(missing) > 0 {
		return nil, &NotFoundError{Resource: "genre", ID: missing[0]}
	}
	return genres, nil
}

func (s *Service) logMutation(eventType entities.AuditEventType, titleID uint, description string) {
	if s.audit == nil {
		return
	}
	s.audit.LogMutation(eventType, "title", titleID, description)
}
