package storage

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"storyhatch/internal/database/books"
	"storyhatch/internal/entities"
)

// DurableTier adapts the SQLite book repository to the tier chain.
type DurableTier struct {
	repo *books.Repository
}

// NewDurableTier wraps the book repository.
func NewDurableTier(repo *books.Repository) *DurableTier {
	return &DurableTier{repo: repo}
}

func (d *DurableTier) Name() string { return "sqlite" }

func (d *DurableTier) TryGet(_ context.Context, id string) (*entities.Book, bool, error) {
	book, err := d.repo.GetBookByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return book, true, nil
}

func (d *DurableTier) TrySet(_ context.Context, book *entities.Book) error {
	return d.repo.SaveBook(book)
}

func (d *DurableTier) TryHas(_ context.Context, id string) (bool, error) {
	return d.repo.HasBook(id)
}

func (d *DurableTier) TryDelete(_ context.Context, id string) error {
	return d.repo.DeleteBook(id)
}

// ListByOwner returns a user's books ordered by creation time, newest
// first.
func (d *DurableTier) ListByOwner(_ context.Context, ownerID string) ([]entities.Book, error) {
	return d.repo.ListBooksByOwner(ownerID)
}

// IncrementReadCount bumps the global read counter on the book row.
func (d *DurableTier) IncrementReadCount(id string, at time.Time) error {
	return d.repo.IncrementReadCount(id, at)
}
