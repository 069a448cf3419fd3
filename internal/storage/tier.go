// Package storage unifies the sample catalog, a transient in-memory
// cache, the durable SQLite store, and an optional remote document
// store behind one get/set/has/list façade.
//
// Tiers are consulted in fixed precedence; a tier failure is logged and
// the next tier is tried. Only a write rejected by every tier surfaces
// to the caller.
package storage

import (
	"context"
	"errors"

	"storyhatch/internal/entities"
)

var (
	// ErrNotFound means no tier knows the book ID.
	ErrNotFound = errors.New("book not found")

	// ErrAllTiersFailed means a write was rejected by every active tier.
	ErrAllTiersFailed = errors.New("all storage tiers rejected the write")
)

// Tier is one storage backend in the fallback chain. Implementations
// report "miss" via the boolean, reserving errors for backend failures
// the façade should fall through.
type Tier interface {
	Name() string
	TryGet(ctx context.Context, id string) (*entities.Book, bool, error)
	TrySet(ctx context.Context, book *entities.Book) error
	TryHas(ctx context.Context, id string) (bool, error)
	TryDelete(ctx context.Context, id string) error
}
