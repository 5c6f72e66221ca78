// Package authors provides author statistics and author deletion.
//
// Authors are created by the title workflow; this package only reads and
// removes them. Aggregates and bulk deletes are built with squirrel and
// executed on the gorm connection so they share its transactions.
package authors

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"

	"github.com/mrlokans/biblioteka/internal/catalog"
	"github.com/mrlokans/biblioteka/internal/entities"
)

// Repository handles author database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new authors repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListAuthors returns every author with its title count, ordered by id.
func (r *Repository) ListAuthors(ctx context.Context) ([]entities.AuthorSummary, error) {
	query, args, err := sq.Select("authors.id", "authors.name", "COUNT(titles.id) AS title_count").
		From("authors").
		LeftJoin("titles ON titles.author_id = authors.id").
		GroupBy("authors.id", "authors.name").
		OrderBy("authors.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build author summary query: %w", err)
	}

	summaries := []entities.AuthorSummary{}
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&summaries).Error; err != nil {
		return nil, err
	}
	return summaries, nil
}

// GetAuthor retrieves an author by ID.
func (r *Repository) GetAuthor(ctx context.Context, id uint) (*entities.Author, error) {
	var author entities.Author
	err := r.db.WithContext(ctx).First(&author, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, catalog.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &author, nil
}

// DeleteAuthor removes an author and every title written by it. Returns
// the number of titles removed alongside the author.
func (r *Repository) DeleteAuthor(ctx context.Context, id uint) (int64, error) {
	var removedTitles int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var author entities.Author
		if err := tx.First(&author, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return catalog.ErrRecordNotFound
			}
			return err
		}

		links := sq.Delete("title_genres").
			Where(sq.Expr("title_id IN (SELECT id FROM titles WHERE author_id = ?)", id))
		if _, err := exec(tx, links); err != nil {
			return fmt.Errorf("delete genre links: %w", err)
		}

		n, err := exec(tx, sq.Delete("titles").Where(sq.Eq{"author_id": id}))
		if err != nil {
			return fmt.Errorf("delete titles: %w", err)
		}
		removedTitles = n

		return tx.Delete(&author).Error
	})
	return removedTitles, err
}

// CountOrphanAuthors counts authors without any title.
func (r *Repository) CountOrphanAuthors(ctx context.Context) (int64, error) {
	query, args, err := sq.Select("COUNT(*)").
		From("authors").
		Where(orphanCondition()).
		ToSql()
	if err != nil {
		return 0, err
	}
	var count int64
	err = r.db.WithContext(ctx).Raw(query, args...).Scan(&count).Error
	return count, err
}

// DeleteOrphanAuthors removes all authors that no title references.
func (r *Repository) DeleteOrphanAuthors(ctx context.Context) (int64, error) {
	return exec(r.db.WithContext(ctx), sq.Delete("authors").Where(orphanCondition()))
}

func orphanCondition() sq.Sqlizer {
	return sq.Expr("NOT EXISTS (SELECT 1 FROM titles WHERE titles.author_id = authors.id)")
}

func exec(db *gorm.DB, stmt sq.Sqlizer) (int64, error) {
	query, args, err := stmt.ToSql()
	if err != nil {
		return 0, err
	}
	result := db.Exec(query, args...)
	return result.RowsAffected, result.Error
}
