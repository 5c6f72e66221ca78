package genres

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/biblioteka/internal/catalog"
	"github.com/mrlokans/biblioteka/internal/database"
)

func setupTestDB(t *testing.T) *Repository {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "genres.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db.DB)
}

func TestRepository_CreateGenre(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	genre, created, err := repo.CreateGenre(ctx, " Fantasy ")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotZero(t, genre.ID)
	assert.Equal(t, "Fantasy", genre.Name)

	again, created, err := repo.CreateGenre(ctx, "Fantasy")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, genre.ID, again.ID)
}

func TestRepository_ListGenres(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	genres, err := repo.ListGenres(ctx)
	require.NoError(t, err)
	assert.Empty(t, genres)

	for _, name := range []string{"Fantasy", "Adventure"} {
		_, _, err := repo.CreateGenre(ctx, name)
		require.NoError(t, err)
	}

	genres, err = repo.ListGenres(ctx)
	require.NoError(t, err)
	require.Len(t, genres, 2)
	assert.Equal(t, "Fantasy", genres[0].Name)
	assert.Equal(t, "Adventure", genres[1].Name)
}

func TestRepository_GetGenre(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	genre, _, err := repo.CreateGenre(ctx, "Mystery")
	require.NoError(t, err)

	found, err := repo.GetGenre(ctx, genre.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mystery", found.Name)

	_, err = repo.GetGenre(ctx, 999)
	assert.ErrorIs(t, err, catalog.ErrRecordNotFound)
}
