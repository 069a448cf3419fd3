// Package books provides database operations for the Book aggregate.
//
// A book row and its ordered pages live in separate tables; SaveBook
// replaces the whole aggregate so pollers never observe a partially
// written record.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.GetBookByID("book_abc")
package books

import (
	"time"

	"gorm.io/gorm"

	"storyhatch/internal/entities"
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SaveBook upserts the book row and replaces its pages in one
// transaction.
func (r *Repository) SaveBook(book *entities.Book) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Pages").Save(book).Error; err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", book.ID).Delete(&entities.BookPage{}).Error; err != nil {
			return err
		}
		if len(book.Pages) == 0 {
			return nil
		}
		pages := make([]entities.BookPage, len(book.Pages))
		for i, page := range book.Pages {
			page.BookID = book.ID
			pages[i] = page
		}
		return tx.Create(&pages).Error
	})
}

// GetBookByID returns a book with its pages ordered by page number, or
// gorm.ErrRecordNotFound.
func (r *Repository) GetBookByID(id string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Preload("Pages", func(db *gorm.DB) *gorm.DB {
		return db.Order("page_number ASC")
	}).First(&book, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// HasBook reports whether a book row exists.
func (r *Repository) HasBook(id string) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// ListBooksByOwner returns a user's books, newest first.
func (r *Repository) ListBooksByOwner(ownerID string) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Preload("Pages", func(db *gorm.DB) *gorm.DB {
		return db.Order("page_number ASC")
	}).Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&books).Error
	return books, err
}

// DeleteBook removes a book and its pages.
func (r *Repository) DeleteBook(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", id).Delete(&entities.BookPage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Book{}, "id = ?", id).Error
	})
}

// IncrementReadCount bumps the book's global read counter and stamps
// the last read time.
func (r *Repository) IncrementReadCount(id string, at time.Time) error {
	return r.db.Model(&entities.Book{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"read_count":   gorm.Expr("read_count + 1"),
			"last_read_at": at,
		}).Error
}
