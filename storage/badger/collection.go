package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/storage"
)

// Collection implements storage.Collection for BadgerDB.
type Collection struct {
	backend *Backend
	kind    core.Kind
	prefix  []byte
	now     func() time.Time
}

var _ storage.Collection = (*Collection)(nil)

// newCollection returns the concrete collection type.
func newCollection(backend *Backend, kind core.Kind) *Collection {
	return &Collection{
		backend: backend,
		kind:    kind,
		prefix:  makeCollectionPrefix(kind),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// NewCollection creates a collection for kind backed by backend.
func NewCollection(backend *Backend, kind core.Kind) storage.Collection {
	return newCollection(backend, kind)
}

// NewCollections creates one collection per kind, all sharing backend.
func NewCollections(backend *Backend) storage.Collections {
	collections := make(storage.Collections, len(core.Kinds))
	for _, kind := range core.Kinds {
		collections[kind] = NewCollection(backend, kind)
	}
	return collections
}

// Kind returns the kind of entry this collection holds.
func (c *Collection) Kind() core.Kind {
	return c.kind
}

// Create stores entry under id, generating a UUID when id is empty.
func (c *Collection) Create(ctx context.Context, entry *core.Entry, id string) (*core.Entry, error) {
	if id == "" {
		id = uuid.NewString()
	}
	doc := storage.PrepareCreate(entry, id, c.kind, c.now())

	value, err := storage.MarshalEntry(doc)
	if err != nil {
		return nil, err
	}

	err = c.backend.WithTransaction(ctx, func(tx *badger.Txn) error {
		key := makeDocumentKey(c.kind, id)
		existing, err := readValue(tx, key)
		if err != nil {
			return err
		}
		if existing != nil {
			return storage.ErrDuplicateKey
		}
		return tx.Set(key, value)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Get retrieves a single document by id.
func (c *Collection) Get(ctx context.Context, id string) (*core.Entry, error) {
	var doc *core.Entry
	err := c.backend.View(ctx, func(tx *badger.Txn) error {
		var err error
		doc, err = c.read(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// List returns every document in the collection ordered by id.
func (c *Collection) List(ctx context.Context) ([]*core.Entry, error) {
	var docs []*core.Entry

	err := c.backend.View(ctx, func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = c.prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var doc *core.Entry
			err := iter.Item().Value(func(val []byte) error {
				var err error
				doc, err = storage.UnmarshalEntry(val, c.kind)
				return err
			})
			if err != nil {
				return err
			}
			docs = append(docs, doc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// Update overlays fields on an existing document.
func (c *Collection) Update(ctx context.Context, id string, fields storage.Fields) (*core.Entry, error) {
	var doc *core.Entry

	err := c.backend.WithTransaction(ctx, func(tx *badger.Txn) error {
		prev, err := c.read(tx, id)
		if err != nil {
			return err
		}
		doc, err = storage.PrepareUpdate(prev, fields, c.now())
		if err != nil {
			return err
		}
		value, err := storage.MarshalEntry(doc)
		if err != nil {
			return err
		}
		return tx.Set(makeDocumentKey(c.kind, id), value)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Delete removes a document, reporting whether it existed.
func (c *Collection) Delete(ctx context.Context, id string) (bool, error) {
	existed := false

	err := c.backend.WithTransaction(ctx, func(tx *badger.Txn) error {
		key := makeDocumentKey(c.kind, id)
		value, err := readValue(tx, key)
		if err != nil {
			return err
		}
		if value == nil {
			return nil
		}
		existed = true
		return tx.Delete(key)
	})
	if err != nil {
		return false, err
	}
	return existed, nil
}

// read loads a document inside tx.
func (c *Collection) read(tx *badger.Txn, id string) (*core.Entry, error) {
	value, err := readValue(tx, makeDocumentKey(c.kind, id))
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, storage.ErrNotFound
	}
	return storage.UnmarshalEntry(value, c.kind)
}
