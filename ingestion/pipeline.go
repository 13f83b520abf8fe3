// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/curator/ai"
	"github.com/poiesic/curator/connector"
	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/migrate"
	"github.com/poiesic/curator/normalize"
	"github.com/poiesic/curator/storage"
)

// DefaultMaxConsecutiveStoreFailures is the number of store failures in a
// row after which a source is abandoned.
const DefaultMaxConsecutiveStoreFailures = 5

// Pipeline runs ingestion against a set of collections.
// A Pipeline may be reused; every Run starts with fresh in-run state.
type Pipeline struct {
	collections      storage.Collections
	enricher         ai.Enricher
	migrator         *migrate.Migrator
	logger           *slog.Logger
	now              func() time.Time
	maxStoreFailures int
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithEnricher enables enrichment. Without an enricher no item is enriched.
func WithEnricher(enricher ai.Enricher) Option {
	return func(p *Pipeline) error {
		p.enricher = enricher
		return nil
	}
}

// WithMigrator replaces the default migrator. A nil migrator disables the
// migration step.
func WithMigrator(migrator *migrate.Migrator) Option {
	return func(p *Pipeline) error {
		p.migrator = migrator
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithClock sets the time source used for run timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) error {
		if now != nil {
			p.now = now
		}
		return nil
	}
}

// WithMaxConsecutiveStoreFailures sets how many store failures in a row a
// source tolerates before it is abandoned.
// Default is DefaultMaxConsecutiveStoreFailures.
func WithMaxConsecutiveStoreFailures(n int) Option {
	return func(p *Pipeline) error {
		if n < 1 {
			return ErrInvalidStoreFailureLimit
		}
		p.maxStoreFailures = n
		return nil
	}
}

// NewPipeline creates a pipeline writing to collections.
func NewPipeline(collections storage.Collections, opts ...Option) (*Pipeline, error) {
	if len(collections) == 0 {
		return nil, ErrCollectionsRequired
	}

	p := &Pipeline{
		collections:      collections,
		logger:           slog.Default().With("component", "ingestion"),
		now:              func() time.Time { return time.Now().UTC() },
		maxStoreFailures: DefaultMaxConsecutiveStoreFailures,
	}
	p.migrator = migrate.New(collections)

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// run holds the state of a single Run.
type run struct {
	*Pipeline
	// inRun holds the latest entry seen for each kind and match key.
	inRun      map[core.Kind]map[string]*core.Entry
	registries map[core.Kind]*normalize.Registry
}

// Run migrates identities and then ingests every source in order. It never
// fails as a whole: source and item failures are recorded in the report.
func (p *Pipeline) Run(ctx context.Context, sources ...connector.Source) *Report {
	report := &Report{Started: p.now()}

	if p.migrator == nil {
		report.MigrationSkipped = true
	} else {
		report.Migration, report.MigrationErr = p.migrator.Run(ctx)
		if report.MigrationErr != nil {
			p.logger.Warn("identity migration incomplete", "err", report.MigrationErr)
		}
	}

	r := &run{
		Pipeline:   p,
		inRun:      make(map[core.Kind]map[string]*core.Entry),
		registries: make(map[core.Kind]*normalize.Registry),
	}
	for _, src := range sources {
		stats := r.ingestSource(ctx, src)
		report.Sources = append(report.Sources, stats)
	}

	report.Finished = p.now()
	return report
}

// ingestSource drains one source. Failures end the source, never the run.
func (r *run) ingestSource(ctx context.Context, src connector.Source) *Stats {
	stats := newStats(src.Name())
	logger := r.logger.With("source", src.Name())

	if err := ctx.Err(); err != nil {
		stats.fail(err)
		return stats
	}

	snaps := make(map[core.Kind]*snapshot, len(r.collections))
	known, err := r.known(ctx, snaps)
	if err != nil {
		logger.Error("failed to read store", "err", err)
		stats.fail(fmt.Errorf("%w: %w", ErrStoreUnavailable, err))
		return stats
	}

	seq, err := src.Fetch(ctx, known)
	if err != nil {
		logger.Error("source failed", "err", err)
		stats.fail(err)
		return stats
	}

	logger.Info("ingesting source")
	storeFailures := 0
	for res := range seq {
		if err := ctx.Err(); err != nil {
			stats.fail(err)
			break
		}
		stats.Fetched++

		switch {
		case res.Status == connector.StatusProcessed && res.Entry != nil:
		case res.Status.Skipped():
			stats.Skipped[res.Status]++
			logger.Debug("skipped item", "item", res.Name, "status", res.Status, "reason", res.Reason)
			continue
		default:
			stats.Errors++
			logger.Warn("item failed", "item", res.Name, "reason", res.Reason, "err", res.Err)
			continue
		}

		err := r.ingestEntry(ctx, stats, snaps, res.Entry)
		var serr *storeError
		switch {
		case err == nil:
			storeFailures = 0
		case errors.As(err, &serr):
			stats.Errors++
			storeFailures++
			logger.Error("store write failed", "item", res.Name, "err", err)
			if storeFailures >= r.maxStoreFailures {
				stats.fail(fmt.Errorf("%w after %d consecutive failures: %w", ErrStoreUnavailable, storeFailures, serr.err))
			}
		default:
			stats.Errors++
			logger.Warn("item rejected", "item", res.Name, "err", err)
		}
		if stats.Failed {
			break
		}
	}

	logger.Info("source done", "fetched", stats.Fetched, "created", stats.Created,
		"updated", stats.Updated, "unchanged", stats.Unchanged, "enriched", stats.Enriched,
		"skipped", stats.SkippedTotal(), "errors", stats.Errors)
	return stats
}

// known loads every collection's snapshot and collects the URLs that are
// already enriched.
func (r *run) known(ctx context.Context, snaps map[core.Kind]*snapshot) (connector.Known, error) {
	var urls []string
	for _, kind := range core.Kinds {
		if _, ok := r.collections[kind]; !ok {
			continue
		}
		snap, err := r.snapshot(ctx, snaps, kind)
		if err != nil {
			return connector.Known{}, err
		}
		urls = append(urls, snap.enrichedURLs()...)
	}
	return connector.NewKnown(urls...), nil
}

// snapshot returns the snapshot for kind, loading it on first use.
func (r *run) snapshot(ctx context.Context, snaps map[core.Kind]*snapshot, kind core.Kind) (*snapshot, error) {
	if snap, ok := snaps[kind]; ok {
		return snap, nil
	}
	coll, err := r.collections.For(kind)
	if err != nil {
		return nil, err
	}
	snap, err := loadSnapshot(ctx, coll)
	if err != nil {
		return nil, err
	}
	snaps[kind] = snap
	return snap, nil
}

func (r *run) registry(kind core.Kind) *normalize.Registry {
	reg, ok := r.registries[kind]
	if !ok {
		reg = normalize.NewRegistry()
		r.registries[kind] = reg
	}
	return reg
}

// storeError marks a failure of the document store, as opposed to a
// problem with the item itself.
type storeError struct {
	err error
}

func (e *storeError) Error() string { return e.err.Error() }

func (e *storeError) Unwrap() error { return e.err }
