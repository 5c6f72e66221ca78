// Package genres provides database operations for genre management.
//
// Genres are managed outside the title workflow: titles only reference
// existing genres by id.
//
// # Interface Implementation
//
//	var _ http.GenreStore = (*Repository)(nil)
package genres

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/biblioteka/internal/catalog"
	"github.com/mrlokans/biblioteka/internal/entities"
)

// Repository handles all genre database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new genres repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListGenres returns every genre ordered by id.
func (r *Repository) ListGenres(ctx context.Context) ([]entities.Genre, error) {
	genres := []entities.Genre{}
	err := r.db.WithContext(ctx).Order("id").Find(&genres).Error
	return genres, err
}

// GetGenre retrieves a genre by ID.
func (r *Repository) GetGenre(ctx context.Context, id uint) (*entities.Genre, error) {
	var genre entities.Genre
	err := r.db.WithContext(ctx).First(&genre, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, catalog.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &genre, nil
}

// CreateGenre creates a genre, returning the existing one when the name is
// already taken.
func (r *Repository) CreateGenre(ctx context.Context, name string) (*entities.Genre, bool, error) {
	name = strings.TrimSpace(name)
	db := r.db.WithContext(ctx)

	var genre entities.Genre
	err := db.Where("name = ?", name).First(&genre).Error
	if err == nil {
		return &genre, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	genre = entities.Genre{Name: name}
	if err := db.Create(&genre).Error; err != nil {
		return nil, false, err
	}
	return &genre, true, nil
}
