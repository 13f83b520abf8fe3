package redis

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/storage"
	"github.com/redis/go-redis/v9"
)

// Collection implements storage.Collection on Redis. Each document is a JSON
// string; a set per collection lists the ids.
type Collection struct {
	client redis.Cmdable
	kind   core.Kind
	prefix string
	now    func() time.Time
}

var _ storage.Collection = (*Collection)(nil)

// NewCollection creates a collection for kind. An empty prefix uses DefaultKeyPrefix.
func NewCollection(client redis.Cmdable, kind core.Kind, prefix string) storage.Collection {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Collection{
		client: client,
		kind:   kind,
		prefix: prefix,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// NewCollections creates one collection per kind sharing client.
func NewCollections(client redis.Cmdable, prefix string) storage.Collections {
	collections := make(storage.Collections, len(core.Kinds))
	for _, kind := range core.Kinds {
		collections[kind] = NewCollection(client, kind, prefix)
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

	data, err := storage.MarshalEntry(doc)
	if err != nil {
		return nil, err
	}

	created, err := c.client.SetNX(ctx, DocumentKey(c.prefix, c.kind, id), data, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to save document: %w", err)
	}
	if !created {
		return nil, storage.ErrDuplicateKey
	}

	if err := c.client.SAdd(ctx, IDSetKey(c.prefix, c.kind), id).Err(); err != nil {
		return nil, fmt.Errorf("failed to add document to set: %w", err)
	}
	return doc, nil
}

// Get retrieves a document by id.
func (c *Collection) Get(ctx context.Context, id string) (*core.Entry, error) {
	data, err := c.client.Get(ctx, DocumentKey(c.prefix, c.kind, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return storage.UnmarshalEntry(data, c.kind)
}

// List returns every document ordered by id. Ids whose document has
// vanished are skipped.
func (c *Collection) List(ctx context.Context) ([]*core.Entry, error) {
	ids, err := c.client.SMembers(ctx, IDSetKey(c.prefix, c.kind)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get document ids: %w", err)
	}
	slices.Sort(ids)

	docs := make([]*core.Entry, 0, len(ids))
	for _, id := range ids {
		doc, err := c.Get(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Update overlays fields on an existing document.
func (c *Collection) Update(ctx context.Context, id string, fields storage.Fields) (*core.Entry, error) {
	prev, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	doc, err := storage.PrepareUpdate(prev, fields, c.now())
	if err != nil {
		return nil, err
	}
	data, err := storage.MarshalEntry(doc)
	if err != nil {
		return nil, err
	}

	if err := c.client.Set(ctx, DocumentKey(c.prefix, c.kind, id), data, 0).Err(); err != nil {
		return nil, fmt.Errorf("failed to save document: %w", err)
	}
	return doc, nil
}

// Delete removes a document, reporting whether it existed.
func (c *Collection) Delete(ctx context.Context, id string) (bool, error) {
	removed, err := c.client.Del(ctx, DocumentKey(c.prefix, c.kind, id)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to delete document: %w", err)
	}
	if err := c.client.SRem(ctx, IDSetKey(c.prefix, c.kind), id).Err(); err != nil {
		return false, fmt.Errorf("failed to remove document from set: %w", err)
	}
	return removed > 0, nil
}
