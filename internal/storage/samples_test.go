package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyhatch/internal/entities"
)

func writeSampleCatalogFile(t *testing.T, books []entities.Book) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.json")
	data, err := json.Marshal(books)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestSampleCatalogLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("loads the catalog on first access", func(t *testing.T) {
		path := writeSampleCatalogFile(t, []entities.Book{
			{ID: "sample_a", Title: "A", Status: entities.BookStatusCompleted},
			{ID: "sample_b", Title: "B", Status: entities.BookStatusCompleted},
		})

		catalog := NewSampleCatalog(path)

		book, ok, err := catalog.TryGet(ctx, "sample_a")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "A", book.Title)
	})

	t.Run("forces the sample flag on loaded books", func(t *testing.T) {
		path := writeSampleCatalogFile(t, []entities.Book{
			{ID: "sample_a", Title: "A", IsSample: false},
		})

		catalog := NewSampleCatalog(path)

		book, ok, err := catalog.TryGet(ctx, "sample_a")
		require.NoError(t, err)
		require.True(t, ok)
		assert.True(t, book.IsSample)
	})

	t.Run("missing catalog file leaves the catalog empty", func(t *testing.T) {
		catalog := NewSampleCatalog(filepath.Join(t.TempDir(), "nope.json"))

		_, ok, err := catalog.TryGet(ctx, "sample_a")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, catalog.List())
	})

	t.Run("malformed catalog file leaves the catalog empty", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "index.json")
		require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

		catalog := NewSampleCatalog(path)
		assert.Empty(t, catalog.List())
	})
}

func TestSampleCatalogList(t *testing.T) {
	t.Run("returns books ordered by ID", func(t *testing.T) {
		path := writeSampleCatalogFile(t, []entities.Book{
			{ID: "sample_c"},
			{ID: "sample_a"},
			{ID: "sample_b"},
		})

		catalog := NewSampleCatalog(path)

		books := catalog.List()
		require.Len(t, books, 3)
		assert.Equal(t, "sample_a", books[0].ID)
		assert.Equal(t, "sample_b", books[1].ID)
		assert.Equal(t, "sample_c", books[2].ID)
	})
}

func TestSampleCatalogDelete(t *testing.T) {
	t.Run("delete is a no-op", func(t *testing.T) {
		ctx := context.Background()
		path := writeSampleCatalogFile(t, []entities.Book{{ID: "sample_a"}})

		catalog := NewSampleCatalog(path)
		require.NoError(t, catalog.TryDelete(ctx, "sample_a"))

		ok, err := catalog.TryHas(ctx, "sample_a")
		require.NoError(t, err)
		assert.True(t, ok)
	})
}
