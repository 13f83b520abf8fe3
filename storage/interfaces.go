package storage

import (
	"context"
	"fmt"

	"github.com/poiesic/curator/core"
)

// Fields is a partial document keyed by JSON field name.
type Fields map[string]any

// Collection stores the documents of one kind.
// Implementations must be thread-safe and support concurrent access.
type Collection interface {
	// Kind returns the kind of entry this collection holds.
	Kind() core.Kind

	// Create stores entry under id. An empty id asks the store to generate one.
	// Sets CreatedAt and UpdatedAt when they are zero.
	// Returns ErrDuplicateKey if a document with that id exists.
	// Returns the stored document.
	Create(ctx context.Context, entry *core.Entry, id string) (*core.Entry, error)

	// Get retrieves a single document by id.
	// Returns ErrNotFound if the document doesn't exist.
	Get(ctx context.Context, id string) (*core.Entry, error)

	// List returns every document ordered by id.
	List(ctx context.Context) ([]*core.Entry, error)

	// Update overlays fields on an existing document and refreshes UpdatedAt.
	// Returns ErrNotFound if the document doesn't exist.
	Update(ctx context.Context, id string, fields Fields) (*core.Entry, error)

	// Delete removes a document. Returns false if it did not exist.
	Delete(ctx context.Context, id string) (bool, error)
}

// Collections maps each kind to its collection.
type Collections map[core.Kind]Collection

// For returns the collection for kind.
func (c Collections) For(kind core.Kind) (Collection, error) {
	coll, ok := c[kind]
	if !ok || coll == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, kind)
	}
	return coll, nil
}
