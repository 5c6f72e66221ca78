// Package titles provides database operations for the title catalog.
//
// This package implements the catalog.Store interface consumed by the
// title workflow service.
//
// # Interface Implementation
//
//	var _ catalog.Store = (*Repository)(nil)
//
// # Usage
//
//	repo := titles.NewRepository(db)
//	service := catalog.NewService(repo)
package titles

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/biblioteka/internal/catalog"
	"github.com/mrlokans/biblioteka/internal/entities"
)

// Repository handles title, and title-scoped author and genre, operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new titles repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Transaction runs fn with a repository bound to one database transaction.
func (r *Repository) Transaction(ctx context.Context, fn func(tx catalog.Store) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// FindAuthorByName looks up an author by exact name. When several authors
// share a name the oldest one wins.
func (r *Repository) FindAuthorByName(ctx context.Context, name string) (*entities.Author, error) {
	var author entities.Author
	err := r.db.WithContext(ctx).Where("name = ?", name).Order("id").First(&author).Error
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &author, nil
}

func (r *Repository) CreateAuthor(ctx context.Context, author *entities.Author) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(author).Error
}

// FindGenresByIDs returns the genres among ids that exist, ordered by id.
func (r *Repository) FindGenresByIDs(ctx context.Context, ids []uint) ([]entities.Genre, error) {
	genres := []entities.Genre{}
	if len(ids) == 0 {
		return genres, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&genres).Error
	return genres, err
}

// GetTitle retrieves a title with its author and genres.
func (r *Repository) GetTitle(ctx context.Context, id uint) (*entities.Title, error) {
	var title entities.Title
	err := r.preloaded(ctx).First(&title, id).Error
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &title, nil
}

// ListTitles retrieves all titles ordered by id.
func (r *Repository) ListTitles(ctx context.Context) ([]entities.Title, error) {
	titles := []entities.Title{}
	err := r.preloaded(ctx).Order("titles.id").Find(&titles).Error
	return titles, err
}

// SaveTitle inserts a new title or updates the scalar columns of an
// existing one. Associations are never written here.
func (r *Repository) SaveTitle(ctx context.Context, title *entities.Title) error {
	db := r.db.WithContext(ctx)
	if title.ID == 0 {
		return db.Omit(clause.Associations).Create(title).Error
	}
	return db.Model(title).
		Select("Name", "Description", "AuthorID", "UpdatedAt").
		Updates(title).Error
}

// ReplaceTitleGenres sets the complete genre set of a persisted title.
func (r *Repository) ReplaceTitleGenres(ctx context.Context, title *entities.Title, genres []entities.Genre) error {
	association := r.db.WithContext(ctx).Model(title).Association("Genres")
	if len(genres) == 0 {
		return association.Clear()
	}
	return association.Replace(genres)
}

// DeleteTitle removes a title together with its genre links.
func (r *Repository) DeleteTitle(ctx context.Context, id uint) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM title_genres WHERE title_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&entities.Title{}, id)
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	return deleted, err
}

func (r *Repository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Author").
		Preload("Genres", func(db *gorm.DB) *gorm.DB {
			return db.Order("genres.id")
		})
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return catalog.ErrRecordNotFound
	}
	return err
}
