package ingestion

import (
	"context"
	"strings"

	"github.com/poiesic/curator/connector"
	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/merge"
	"github.com/poiesic/curator/normalize"
	"github.com/poiesic/curator/storage"
)

// ingestEntry normalizes, merges, enriches and persists one entry.
// Validation failures are counted as skips and return nil.
func (r *run) ingestEntry(ctx context.Context, stats *Stats, snaps map[core.Kind]*snapshot, fetched *core.Entry) error {
	entry := fetched.Clone()
	normalize.EntryURLs(entry)

	if err := core.ValidateEntry(entry); err != nil {
		stats.Skipped[connector.StatusInvalid]++
		r.logger.Warn("invalid entry", "source", stats.Source, "title", entry.Title, "err", err)
		return nil
	}
	kind := entry.Kind

	coll, err := r.collections.For(kind)
	if err != nil {
		return err
	}

	seen := r.inRun[kind]
	if seen == nil {
		seen = make(map[string]*core.Entry)
		r.inRun[kind] = seen
	}
	key := merge.Key(entry)
	if prev, ok := seen[key]; ok && key != "" {
		entry = merge.Merge(prev, entry)
	}

	snap, err := r.snapshot(ctx, snaps, kind)
	if err != nil {
		return &storeError{err: err}
	}
	stored, err := snap.lookup(entry)
	if err != nil {
		return err
	}

	merged := entry
	if stored != nil {
		merged = merge.Merge(stored, entry)
	}
	if key != "" {
		seen[key] = merged
	}

	r.enrich(ctx, stats, merged, stored)

	doc, err := r.upsert(ctx, stats, coll, snap, merged, stored)
	if err != nil {
		return err
	}
	if key != "" {
		seen[key] = doc
	}
	return nil
}

// enrich fills in the AI summary and, when the entry has none, its tags.
// Entries already enriched in the store or earlier in the run, entries
// without a body, and runs without an enricher are left alone. A failed
// call is counted and the entry is persisted without a summary.
func (r *run) enrich(ctx context.Context, stats *Stats, entry, stored *core.Entry) {
	if r.enricher == nil {
		return
	}
	if stored != nil && stored.AISummary != "" {
		return
	}
	if entry.AISummary != "" {
		return
	}
	body := strings.TrimSpace(entry.BodyContent)
	if body == "" {
		return
	}

	result, err := r.enricher.Enrich(ctx, body)
	if err != nil {
		stats.EnrichFailed++
		r.logger.Warn("enrichment failed", "source", stats.Source, "title", entry.Title, "err", err)
		return
	}
	if result == nil || strings.TrimSpace(result.Summary) == "" {
		return
	}

	entry.AISummary = strings.TrimSpace(result.Summary)
	if len(entry.Tags) == 0 {
		for _, tag := range result.Tags {
			entry.AddTag(tag)
		}
	}
	if entry.Kind == core.KindBlog && entry.Summary == "" {
		entry.Summary = entry.AISummary
	}
	stats.Enriched++
}

// upsert writes merged. A matched record is updated in place, and only
// when something changed; otherwise a new record is created under a
// derived id that no other identity holds.
func (r *run) upsert(ctx context.Context, stats *Stats, coll storage.Collection, snap *snapshot, merged, stored *core.Entry) (*core.Entry, error) {
	if stored != nil {
		fields := storage.Diff(stored, merged)
		if len(fields) == 0 {
			stats.Unchanged++
			return stored, nil
		}
		doc, err := coll.Update(ctx, stored.ID, fields)
		if err != nil {
			return nil, &storeError{err: err}
		}
		snap.put(doc)
		stats.Updated++
		r.logger.Debug("updated entry", "kind", coll.Kind(), "id", doc.ID, "fields", len(fields))
		return doc, nil
	}

	identity := normalize.Identity(merged)
	registry := r.registry(coll.Kind())
	id := registry.Claim(normalize.DeriveID(merged, merged.Prefix()), identity)
	if holder, ok := snap.byID[id]; ok && normalize.Identity(holder) != identity {
		id = registry.Claim(normalize.Disambiguate(id, identity), identity)
	}

	doc, err := coll.Create(ctx, merged, id)
	if err != nil {
		return nil, &storeError{err: err}
	}
	snap.put(doc)
	stats.Created++
	r.logger.Debug("created entry", "kind", coll.Kind(), "id", doc.ID)
	return doc, nil
}
