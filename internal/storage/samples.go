package storage

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"sort"
	"sync"

	"storyhatch/internal/entities"
)

// SampleCatalog is the curated read-only set of pre-generated books
// bundled with the application. The catalog file is read at most once
// per process, lazily, on first access; a missing or malformed file
// leaves the catalog empty rather than failing the process.
type SampleCatalog struct {
	path string

	once sync.Once
	mu   sync.RWMutex
	book map[string]entities.Book
}

// NewSampleCatalog creates a catalog backed by the given JSON file.
// Nothing is read until the first access.
func NewSampleCatalog(path string) *SampleCatalog {
	return &SampleCatalog{
		path: path,
		book: make(map[string]entities.Book),
	}
}

// EnsureLoaded triggers the one-time catalog read. Safe to call any
// number of times from any goroutine.
func (c *SampleCatalog) EnsureLoaded() {
	c.once.Do(c.load)
}

func (c *SampleCatalog) load() {
	data, err := os.ReadFile(c.path)
	if err != nil {
		log.Printf("WARNING: could not load sample books from %s: %v", c.path, err)
		return
	}

	var samples []entities.Book
	if err := json.Unmarshal(data, &samples); err != nil {
		log.Printf("WARNING: could not parse sample books from %s: %v", c.path, err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, book := range samples {
		book.IsSample = true
		c.book[book.ID] = book
	}
	log.Printf("Loaded %d sample books from %s", len(samples), c.path)
}

func (c *SampleCatalog) Name() string { return "samples" }

func (c *SampleCatalog) TryGet(_ context.Context, id string) (*entities.Book, bool, error) {
	c.EnsureLoaded()
	c.mu.RLock()
	defer c.mu.RUnlock()
	book, ok := c.book[id]
	if !ok {
		return nil, false, nil
	}
	clone := book.Clone()
	return &clone, true, nil
}

// TrySet stores a sample book in memory. This path is only taken for
// books flagged IsSample; normal generation never writes here.
func (c *SampleCatalog) TrySet(_ context.Context, book *entities.Book) error {
	c.EnsureLoaded()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.book[book.ID] = book.Clone()
	return nil
}

func (c *SampleCatalog) TryHas(_ context.Context, id string) (bool, error) {
	c.EnsureLoaded()
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.book[id]
	return ok, nil
}

// TryDelete is a no-op: the curated catalog is read-only at runtime.
func (c *SampleCatalog) TryDelete(_ context.Context, _ string) error {
	return nil
}

// List returns every sample book, ordered by ID for stable output.
func (c *SampleCatalog) List() []entities.Book {
	c.EnsureLoaded()
	c.mu.RLock()
	defer c.mu.RUnlock()
	books := make([]entities.Book, 0, len(c.book))
	for _, book := range c.book {
		books = append(books, book.Clone())
	}
	sort.Slice(books, func(i, j int) bool { return books[i].ID < books[j].ID })
	return books
}
