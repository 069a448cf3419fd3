package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"storyhatch/internal/entities"
)

// ErrSampleReadOnly is returned when a caller tries to delete a
// curated sample book.
var ErrSampleReadOnly = errors.New("sample books are read-only")

// FacadeConfig lists the tiers the façade orchestrates, in their fixed
// precedence. Samples and Memory are always present; Durable and
// Remote are nil when not configured.
type FacadeConfig struct {
	Samples *SampleCatalog
	Memory  *MemoryTier
	Durable Tier
	Remote  Tier
}

// Facade is the sole owner of the Book lifecycle. Reads consult
// samples, then memory, then the durable store, then the remote store;
// first hit wins and tiers are never merged. Writes go to the durable
// store, falling back to memory (and mirroring to the remote store)
// when it is unavailable.
type Facade struct {
	samples   *SampleCatalog
	memory    *MemoryTier
	durable   Tier
	remote    Tier
	readChain []Tier

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewFacade builds the tier chain once from resolved configuration.
func NewFacade(cfg FacadeConfig) *Facade {
	f := &Facade{
		samples: cfg.Samples,
		memory:  cfg.Memory,
		durable: cfg.Durable,
		remote:  cfg.Remote,
		locks:   make(map[string]*sync.Mutex),
	}
	f.readChain = []Tier{cfg.Samples, cfg.Memory}
	if cfg.Durable != nil {
		f.readChain = append(f.readChain, cfg.Durable)
	}
	if cfg.Remote != nil {
		f.readChain = append(f.readChain, cfg.Remote)
	}
	return f
}

// lockFor serializes concurrent writes to the same book ID. Reads are
// never blocked by this; each tier handles its own read consistency.
func (f *Facade) lockFor(id string) *sync.Mutex {
	f.locksMu.Lock()
	defer f.locksMu.Unlock()
	mu, ok := f.locks[id]
	if !ok {
		mu = &sync.Mutex{}
		f.locks[id] = mu
	}
	return mu
}

// GetBook looks the ID up across tiers in precedence order.
// Returns ErrNotFound when no tier has it.
func (f *Facade) GetBook(ctx context.Context, id string) (*entities.Book, error) {
	for _, tier := range f.readChain {
		book, ok, err := tier.TryGet(ctx, id)
		if err != nil {
			log.Printf("WARNING: %s tier read failed for %s: %v", tier.Name(), id, err)
			continue
		}
		if ok {
			return book, nil
		}
	}
	return nil, ErrNotFound
}

// SetBook persists the book. Sample books go only to the in-memory
// catalog. All other books are written to the durable store; when that
// fails the book is kept in the transient tier so an in-flight
// generation survives, and mirrored to the remote store when one is
// configured. Failure on every tier is a hard error.
func (f *Facade) SetBook(ctx context.Context, book *entities.Book) error {
	mu := f.lockFor(book.ID)
	mu.Lock()
	defer mu.Unlock()

	if book.IsSample {
		return f.samples.TrySet(ctx, book)
	}

	if f.durable != nil {
		err := f.durable.TrySet(ctx, book)
		if err == nil {
			// The durable row is now the freshest copy; a leftover
			// transient copy would shadow it on reads.
			_ = f.memory.TryDelete(ctx, book.ID)
			return nil
		}
		log.Printf("WARNING: durable write failed for %s, falling back: %v", book.ID, err)
	}

	memErr := f.memory.TrySet(ctx, book)
	if memErr != nil {
		log.Printf("WARNING: memory tier write failed for %s: %v", book.ID, memErr)
	}

	var remoteErr error
	if f.remote != nil {
		remoteErr = f.remote.TrySet(ctx, book)
		if remoteErr != nil {
			log.Printf("WARNING: remote mirror failed for %s: %v", book.ID, remoteErr)
		}
	}

	if memErr == nil || (f.remote != nil && remoteErr == nil) {
		return nil
	}
	return fmt.Errorf("%w: book %s", ErrAllTiersFailed, book.ID)
}

// HasBook reports existence using the same precedence as GetBook.
func (f *Facade) HasBook(ctx context.Context, id string) (bool, error) {
	for _, tier := range f.readChain {
		ok, err := tier.TryHas(ctx, id)
		if err != nil {
			log.Printf("WARNING: %s tier existence check failed for %s: %v", tier.Name(), id, err)
			continue
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// ListSampleBooks returns the full sample catalog, loading it first if
// this is the process's first access.
func (f *Facade) ListSampleBooks() []entities.Book {
	return f.samples.List()
}

// ownerLister is the optional listing capability of the durable tier.
type ownerLister interface {
	ListByOwner(ctx context.Context, ownerID string) ([]entities.Book, error)
}

// ListUserBooks returns a user's books newest-first from the durable
// store, falling back to the transient tier when it is unavailable.
func (f *Facade) ListUserBooks(ctx context.Context, userID string) ([]entities.Book, error) {
	if lister, ok := f.durable.(ownerLister); ok {
		books, err := lister.ListByOwner(ctx, userID)
		if err == nil {
			return books, nil
		}
		log.Printf("WARNING: durable library listing failed for %s: %v", userID, err)
	}
	return f.memory.ListByOwner(userID), nil
}

// DeleteBook removes a user book from every writable tier. Sample
// books cannot be deleted.
func (f *Facade) DeleteBook(ctx context.Context, id string) error {
	if ok, _ := f.samples.TryHas(ctx, id); ok {
		return ErrSampleReadOnly
	}

	mu := f.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	var errs []error
	if err := f.memory.TryDelete(ctx, id); err != nil {
		errs = append(errs, err)
	}
	if f.durable != nil {
		if err := f.durable.TryDelete(ctx, id); err != nil {
			log.Printf("WARNING: durable delete failed for %s: %v", id, err)
			errs = append(errs, err)
		}
	}
	if f.remote != nil {
		if err := f.remote.TryDelete(ctx, id); err != nil {
			log.Printf("WARNING: remote delete failed for %s: %v", id, err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PruneTransient evicts terminal books older than the retention window
// from the memory tier, keeping any the durable store does not hold.
// Returns how many books were evicted.
func (f *Facade) PruneTransient(ctx context.Context, retention time.Duration) int {
	cutoff := time.Now().Add(-retention)
	safeToDrop := func(id string) bool {
		if f.durable == nil {
			return false
		}
		ok, err := f.durable.TryHas(ctx, id)
		return err == nil && ok
	}
	return f.memory.PruneTerminal(cutoff, safeToDrop)
}
