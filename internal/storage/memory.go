package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"storyhatch/internal/entities"
)

// MemoryTier keeps books in-process. It holds in-flight generations
// whenever the durable store is unavailable, so a pipeline write is
// never lost mid-run.
type MemoryTier struct {
	mu    sync.RWMutex
	books map[string]entities.Book
}

// NewMemoryTier initializes an empty transient tier.
func NewMemoryTier() *MemoryTier {
	return &MemoryTier{books: make(map[string]entities.Book)}
}

func (m *MemoryTier) Name() string { return "memory" }

func (m *MemoryTier) TryGet(_ context.Context, id string) (*entities.Book, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	book, ok := m.books[id]
	if !ok {
		return nil, false, nil
	}
	clone := book.Clone()
	return &clone, true, nil
}

func (m *MemoryTier) TrySet(_ context.Context, book *entities.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.books[book.ID] = book.Clone()
	return nil
}

func (m *MemoryTier) TryHas(_ context.Context, id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.books[id]
	return ok, nil
}

func (m *MemoryTier) TryDelete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.books, id)
	return nil
}

// ListByOwner filters the transient tier by owner, newest first. Used
// when the durable store cannot serve a library listing.
func (m *MemoryTier) ListByOwner(ownerID string) []entities.Book {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var books []entities.Book
	for _, book := range m.books {
		if book.OwnerID == ownerID {
			books = append(books, book.Clone())
		}
	}
	sortBooksByCreatedAtDesc(books)
	return books
}

// PruneTerminal drops terminal books created before the cutoff,
// skipping any the keep check rejects. Returns how many were evicted.
func (m *MemoryTier) PruneTerminal(cutoff time.Time, safeToDrop func(id string) bool) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	evicted := 0
	for id, book := range m.books {
		if !book.Status.Terminal() || book.CreatedAt.After(cutoff) {
			continue
		}
		if safeToDrop != nil && !safeToDrop(id) {
			continue
		}
		delete(m.books, id)
		evicted++
	}
	return evicted
}

func sortBooksByCreatedAtDesc(books []entities.Book) {
	sort.Slice(books, func(i, j int) bool {
		return books[i].CreatedAt.After(books[j].CreatedAt)
	})
}
