package library

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyhatch/internal/database"
	"storyhatch/internal/entities"
)

func setupLibraryTestDB(t *testing.T) (*Repository, *database.Database, func()) {
	t.Helper()

	dbPath := "./test_library_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return NewRepository(db.DB), db, cleanup
}

func seedBook(t *testing.T, db *database.Database, id string) {
	t.Helper()
	book := entities.Book{
		ID:        id,
		Title:     "Seeded " + id,
		Status:    entities.BookStatusCompleted,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, db.DB.Create(&book).Error)
}

func TestToggleFavorite(t *testing.T) {
	t.Run("first toggle creates the entry as favorite", func(t *testing.T) {
		repo, db, cleanup := setupLibraryTestDB(t)
		defer cleanup()
		seedBook(t, db, "book_1")

		isFavorite, err := repo.ToggleFavorite("user_1", "book_1")
		require.NoError(t, err)
		assert.True(t, isFavorite)
	})

	t.Run("toggling twice returns to not-favorite", func(t *testing.T) {
		repo, db, cleanup := setupLibraryTestDB(t)
		defer cleanup()
		seedBook(t, db, "book_1")

		_, err := repo.ToggleFavorite("user_1", "book_1")
		require.NoError(t, err)

		isFavorite, err := repo.ToggleFavorite("user_1", "book_1")
		require.NoError(t, err)
		assert.False(t, isFavorite)
	})

	t.Run("favorites are scoped per user", func(t *testing.T) {
		repo, db, cleanup := setupLibraryTestDB(t)
		defer cleanup()
		seedBook(t, db, "book_1")

		_, err := repo.ToggleFavorite("user_1", "book_1")
		require.NoError(t, err)

		favorites, err := repo.ListFavorites("user_2")
		require.NoError(t, err)
		assert.Empty(t, favorites)
	})
}

func TestListFavorites(t *testing.T) {
	repo, db, cleanup := setupLibraryTestDB(t)
	defer cleanup()
	seedBook(t, db, "book_1")
	seedBook(t, db, "book_2")

	_, err := repo.ToggleFavorite("user_1", "book_1")
	require.NoError(t, err)
	_, err = repo.ToggleFavorite("user_1", "book_2")
	require.NoError(t, err)

	// Un-favoriting removes the ID from the listing.
	_, err = repo.ToggleFavorite("user_1", "book_2")
	require.NoError(t, err)

	favorites, err := repo.ListFavorites("user_1")
	require.NoError(t, err)
	assert.Equal(t, []string{"book_1"}, favorites)
}

func TestRecordReading(t *testing.T) {
	t.Run("bumps counts and appends one event per session", func(t *testing.T) {
		repo, db, cleanup := setupLibraryTestDB(t)
		defer cleanup()
		seedBook(t, db, "book_1")

		require.NoError(t, repo.RecordReading("user_1", "book_1", 120, false))
		require.NoError(t, repo.RecordReading("user_1", "book_1", 240, true))

		var book entities.Book
		require.NoError(t, db.DB.First(&book, "id = ?", "book_1").Error)
		assert.Equal(t, int64(2), book.ReadCount)
		require.NotNil(t, book.LastReadAt)

		var entry entities.UserLibraryEntry
		require.NoError(t, db.DB.First(&entry, "user_id = ? AND book_id = ?", "user_1", "book_1").Error)
		assert.Equal(t, int64(2), entry.ReadCount)

		var events int64
		require.NoError(t, db.DB.Model(&entities.ReadingStatEvent{}).
			Where("user_id = ?", "user_1").Count(&events).Error)
		assert.Equal(t, int64(2), events)
	})

	t.Run("reading does not change the favorite flag", func(t *testing.T) {
		repo, db, cleanup := setupLibraryTestDB(t)
		defer cleanup()
		seedBook(t, db, "book_1")

		_, err := repo.ToggleFavorite("user_1", "book_1")
		require.NoError(t, err)
		require.NoError(t, repo.RecordReading("user_1", "book_1", 60, true))

		favorites, err := repo.ListFavorites("user_1")
		require.NoError(t, err)
		assert.Equal(t, []string{"book_1"}, favorites)
	})
}

func TestGetReadingStats(t *testing.T) {
	t.Run("returns zeroed defaults for a user with no history", func(t *testing.T) {
		repo, _, cleanup := setupLibraryTestDB(t)
		defer cleanup()

		stats, err := repo.GetReadingStats("user_unknown")
		require.NoError(t, err)
		assert.Zero(t, stats.TotalBooksRead)
		assert.Zero(t, stats.TotalReadingSeconds)
		assert.Empty(t, stats.FavoriteBookIDs)
		assert.Empty(t, stats.RecentBooks)
	})

	t.Run("aggregates distinct books, duration, favorites, and recents", func(t *testing.T) {
		repo, db, cleanup := setupLibraryTestDB(t)
		defer cleanup()
		seedBook(t, db, "book_1")
		seedBook(t, db, "book_2")

		require.NoError(t, repo.RecordReading("user_1", "book_1", 100, true))
		require.NoError(t, repo.RecordReading("user_1", "book_1", 50, false))
		require.NoError(t, repo.RecordReading("user_1", "book_2", 25, true))
		_, err := repo.ToggleFavorite("user_1", "book_2")
		require.NoError(t, err)

		stats, err := repo.GetReadingStats("user_1")
		require.NoError(t, err)
		assert.Equal(t, int64(2), stats.TotalBooksRead)
		assert.Equal(t, int64(175), stats.TotalReadingSeconds)
		assert.Equal(t, []string{"book_2"}, stats.FavoriteBookIDs)
		require.Len(t, stats.RecentBooks, 2)
	})

	t.Run("recent books are limited to five, most recent first", func(t *testing.T) {
		repo, db, cleanup := setupLibraryTestDB(t)
		defer cleanup()

		ids := []string{"book_1", "book_2", "book_3", "book_4", "book_5", "book_6"}
		for _, id := range ids {
			seedBook(t, db, id)
			require.NoError(t, repo.RecordReading("user_1", id, 10, true))
			// SQLite timestamps need measurable separation for a stable order.
			time.Sleep(5 * time.Millisecond)
		}

		stats, err := repo.GetReadingStats("user_1")
		require.NoError(t, err)
		require.Len(t, stats.RecentBooks, 5)
		assert.Equal(t, "book_6", stats.RecentBooks[0].ID)
		assert.Equal(t, "book_2", stats.RecentBooks[4].ID)
	})
}
