package storage

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := Open(filepath.Join(t.TempDir(), "labelforge.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenCreatesDataDir(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	path := filepath.Join(t.TempDir(), "nested", "dir", "labelforge.db")
	s, err := Open(path, logger)
	require.NoError(t, err)
	defer s.Close()

	assert.NoError(t, s.Ping(context.Background()))
}

func TestCreateAndListCategories(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cats, err := s.CreateCategory(ctx, "Cats")
	require.NoError(t, err)
	dogs, err := s.CreateCategory(ctx, "Dogs")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, cats.ID)
	assert.Equal(t, "Cats", cats.Name)

	list, err := s.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	// Insertion order is preserved.
	assert.Equal(t, cats.ID, list[0].ID)
	assert.Equal(t, dogs.ID, list[1].ID)
}

func TestCreateCategoryTrimsName(t *testing.T) {
	s := newTestStore(t)

	c, err := s.CreateCategory(context.Background(), "  Birds  ")
	require.NoError(t, err)
	assert.Equal(t, "Birds", c.Name)
}

func TestCreateCategoryDuplicateNameCaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateCategory(ctx, "Cats")
	require.NoError(t, err)

	_, err = s.CreateCategory(ctx, "cats")
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, err = s.CreateCategory(ctx, "CATS")
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestGetCategory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateCategory(ctx, "Cats")
	require.NoError(t, err)

	got, err := s.GetCategory(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = s.GetCategory(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRenameCategory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateCategory(ctx, "Cats")
	require.NoError(t, err)
	_, err = s.CreateCategory(ctx, "Dogs")
	require.NoError(t, err)

	renamed, err := s.RenameCategory(ctx, created.ID, "Felines")
	require.NoError(t, err)
	assert.Equal(t, "Felines", renamed.Name)
	assert.Equal(t, created.ID, renamed.ID)

	_, err = s.RenameCategory(ctx, created.ID, "dogs")
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, err = s.RenameCategory(ctx, uuid.New(), "Ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCategoryCascadesClassifications(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cats, err := s.CreateCategory(ctx, "Cats")
	require.NoError(t, err)
	dogs, err := s.CreateCategory(ctx, "Dogs")
	require.NoError(t, err)

	_, err = s.UpsertClassification(ctx, "a.png", cats.ID)
	require.NoError(t, err)
	_, err = s.UpsertClassification(ctx, "b.png", dogs.ID)
	require.NoError(t, err)

	require.NoError(t, s.DeleteCategory(ctx, cats.ID))

	list, err := s.ListClassifications(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b.png", list[0].ImageIdentifier)

	assert.ErrorIs(t, s.DeleteCategory(ctx, cats.ID), ErrNotFound)
}

func TestUpsertClassification(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cats, err := s.CreateCategory(ctx, "Cats")
	require.NoError(t, err)
	dogs, err := s.CreateCategory(ctx, "Dogs")
	require.NoError(t, err)

	first, err := s.UpsertClassification(ctx, "a.png", cats.ID)
	require.NoError(t, err)
	assert.Equal(t, "a.png", first.ImageIdentifier)
	assert.Equal(t, cats.ID, first.CategoryID)
	assert.False(t, first.ClassifiedAt.IsZero())

	// Re-classifying replaces the assignment instead of adding a row.
	second, err := s.UpsertClassification(ctx, "a.png", dogs.ID)
	require.NoError(t, err)
	assert.Equal(t, dogs.ID, second.CategoryID)
	assert.False(t, second.ClassifiedAt.Before(first.ClassifiedAt))

	list, err := s.ListClassifications(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, dogs.ID, list[0].CategoryID)
}

func TestUpsertClassificationUnknownCategory(t *testing.T) {
	s := newTestStore(t)

	_, err := s.UpsertClassification(context.Background(), "a.png", uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpsertClassificationEmptyIdentifier(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cats, err := s.CreateCategory(ctx, "Cats")
	require.NoError(t, err)

	_, err = s.UpsertClassification(ctx, "   ", cats.ID)
	assert.Error(t, err)
}

func TestGetClassification(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cats, err := s.CreateCategory(ctx, "Cats")
	require.NoError(t, err)
	created, err := s.UpsertClassification(ctx, "a.png", cats.ID)
	require.NoError(t, err)

	got, err := s.GetClassification(ctx, "a.png")
	require.NoError(t, err)
	assert.Equal(t, created.CategoryID, got.CategoryID)
	assert.True(t, created.ClassifiedAt.Equal(got.ClassifiedAt))

	_, err = s.GetClassification(ctx, "unknown.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListClassificationsInsertionOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cats, err := s.CreateCategory(ctx, "Cats")
	require.NoError(t, err)

	for _, name := range []string{"c.png", "a.png", "b.png"} {
		_, err := s.UpsertClassification(ctx, name, cats.ID)
		require.NoError(t, err)
	}

	list, err := s.ListClassifications(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "c.png", list[0].ImageIdentifier)
	assert.Equal(t, "a.png", list[1].ImageIdentifier)
	assert.Equal(t, "b.png", list[2].ImageIdentifier)
}
