// Package library provides database operations for per-user engagement:
// favorites, read counts, and reading-session statistics.
//
// This package implements the LibraryStore interface defined in
// internal/http/engagement.go.
package library

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"storyhatch/internal/entities"
)

// ReadingStats aggregates a user's reading history.
type ReadingStats struct {
	TotalBooksRead      int64           `json:"totalBooksRead"`
	TotalReadingSeconds int64           `json:"totalReadingTime"`
	FavoriteBookIDs     []string        `json:"favoriteBooks"`
	RecentBooks         []entities.Book `json:"recentBooks"`
}

// Repository handles all user-library database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new library repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ToggleFavorite flips the favorite flag on the (user, book) entry,
// creating it on first use, and returns the resulting state.
func (r *Repository) ToggleFavorite(userID, bookID string) (bool, error) {
	var result bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var entry entities.UserLibraryEntry
		res := tx.Where("user_id = ? AND book_id = ?", userID, bookID).First(&entry)
		if res.Error == gorm.ErrRecordNotFound {
			entry = entities.UserLibraryEntry{
				UserID:     userID,
				BookID:     bookID,
				IsFavorite: true,
			}
			result = true
			return tx.Create(&entry).Error
		} else if res.Error != nil {
			return res.Error
		}

		entry.IsFavorite = !entry.IsFavorite
		result = entry.IsFavorite
		return tx.Model(&entities.UserLibraryEntry{}).
			Where("user_id = ? AND book_id = ?", userID, bookID).
			Update("is_favorite", entry.IsFavorite).Error
	})
	return result, err
}

// ListFavorites returns the IDs of the user's favorite books.
func (r *Repository) ListFavorites(userID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&entities.UserLibraryEntry{}).
		Where("user_id = ? AND is_favorite = ?", userID, true).
		Pluck("book_id", &ids).Error
	return ids, err
}

// RecordReading bumps the book's global read count, upserts the
// per-user entry, and appends one immutable stat event.
func (r *Repository) RecordReading(userID, bookID string, durationSeconds int, completed bool) error {
	now := time.Now().UTC()
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&entities.Book{}).
			Where("id = ?", bookID).
			Updates(map[string]any{
				"read_count":   gorm.Expr("read_count + 1"),
				"last_read_at": now,
			}).Error
		if err != nil {
			return fmt.Errorf("increment book read count: %w", err)
		}

		var entry entities.UserLibraryEntry
		res := tx.Where("user_id = ? AND book_id = ?", userID, bookID).First(&entry)
		if res.Error == gorm.ErrRecordNotFound {
			entry = entities.UserLibraryEntry{
				UserID:     userID,
				BookID:     bookID,
				ReadCount:  1,
				LastReadAt: &now,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return fmt.Errorf("create library entry: %w", err)
			}
		} else if res.Error != nil {
			return res.Error
		} else {
			err := tx.Model(&entities.UserLibraryEntry{}).
				Where("user_id = ? AND book_id = ?", userID, bookID).
				Updates(map[string]any{
					"read_count":   gorm.Expr("read_count + 1"),
					"last_read_at": now,
				}).Error
			if err != nil {
				return fmt.Errorf("update library entry: %w", err)
			}
		}

		event := entities.ReadingStatEvent{
			UserID:          userID,
			BookID:          bookID,
			DurationSeconds: durationSeconds,
			Completed:       completed,
		}
		if err := tx.Create(&event).Error; err != nil {
			return fmt.Errorf("append reading stat: %w", err)
		}
		return nil
	})
}

// GetReadingStats aggregates distinct books read, summed duration,
// favorites, and the 5 most recently read books. Users with no history
// get zeroed defaults, not an error.
func (r *Repository) GetReadingStats(userID string) (*ReadingStats, error) {
	stats := &ReadingStats{
		FavoriteBookIDs: []string{},
		RecentBooks:     []entities.Book{},
	}

	type totals struct {
		TotalBooks int64
		TotalTime  int64
	}
	var agg totals
	err := r.db.Model(&entities.ReadingStatEvent{}).
		Select("COUNT(DISTINCT book_id) AS total_books, COALESCE(SUM(duration_seconds), 0) AS total_time").
		Where("user_id = ?", userID).
		Scan(&agg).Error
	if err != nil {
		return nil, err
	}
	stats.TotalBooksRead = agg.TotalBooks
	stats.TotalReadingSeconds = agg.TotalTime

	favorites, err := r.ListFavorites(userID)
	if err != nil {
		return nil, err
	}
	stats.FavoriteBookIDs = favorites

	var recent []entities.Book
	err = r.db.Preload("Pages", func(db *gorm.DB) *gorm.DB {
		return db.Order("page_number ASC")
	}).
		Joins("JOIN user_library ON user_library.book_id = books.id").
		Where("user_library.user_id = ? AND user_library.last_read_at IS NOT NULL", userID).
		Order("user_library.last_read_at DESC").
		Limit(5).
		Find(&recent).Error
	if err != nil {
		return nil, err
	}
	stats.RecentBooks = recent

	return stats, nil
}
