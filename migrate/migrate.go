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


package migrate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/normalize"
	"github.com/poiesic/curator/storage"
)

// Plan describes the action taken for one group of records sharing an
// identity URL.
type Plan struct {
	Identity string
	// Winner is the id of the record kept.
	Winner string
	// Target is the id the winner is stored under afterwards.
	Target string
	// Losers are the ids removed after the winner is persisted.
	Losers []string
}

// Report summarizes a migration of one collection.
type Report struct {
	Kind    core.Kind
	Groups  int
	Renamed int
	Deleted int
	Plans   []Plan
}

// Migrator collapses duplicate records and renames legacy ids to the
// "{prefix}:{slug}" form.
type Migrator struct {
	collections storage.Collections
	dryRun      bool
	logger      *slog.Logger
}

// Option configures a Migrator.
type Option func(*Migrator)

// WithDryRun plans without writing.
func WithDryRun(dryRun bool) Option {
	return func(m *Migrator) {
		m.dryRun = dryRun
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Migrator) {
		m.logger = logger
	}
}

// New creates a migrator over collections.
func New(collections storage.Collections, opts ...Option) *Migrator {
	m := &Migrator{
		collections: collections,
		logger:      slog.Default().With("component", "migrator"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run migrates every collection in core.Kinds order. A failing collection
// does not stop the others; all errors are joined in the result.
func (m *Migrator) Run(ctx context.Context) ([]Report, error) {
	var reports []Report
	var errs []error
	for _, kind := range core.Kinds {
		coll, ok := m.collections[kind]
		if !ok {
			continue
		}
		report, err := m.MigrateCollection(ctx, coll)
		reports = append(reports, report)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", kind, err))
		}
	}
	return reports, errors.Join(errs...)
}

// group is the set of records sharing one identity URL, in list order.
type group struct {
	identity string
	members  []*core.Entry
}

// MigrateCollection migrates a single collection.
func (m *Migrator) MigrateCollection(ctx context.Context, coll storage.Collection) (Report, error) {
	report := Report{Kind: coll.Kind()}

	docs, err := coll.List(ctx)
	if err != nil {
		return report, err
	}

	groups, ungrouped := groupByIdentity(docs)

	// Every existing id belongs to its record's identity until the record is
	// removed, so no target can collide with a document still in place.
	registry := normalize.NewRegistry()
	for _, doc := range ungrouped {
		registry.Reserve(doc.ID, normalize.Identity(doc))
	}
	for _, g := range groups {
		for _, doc := range g.members {
			registry.Reserve(doc.ID, g.identity)
		}
	}

	var errs []error
	for _, g := range groups {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		plan, ok := planGroup(g, registry)
		if !ok {
			continue
		}
		report.Groups++
		report.Plans = append(report.Plans, plan)
		if plan.Target != plan.Winner {
			report.Renamed++
		}

		if m.dryRun {
			report.Deleted += len(plan.Losers)
			continue
		}

		deleted, err := m.apply(ctx, coll, g, plan)
		report.Deleted += deleted
		if err != nil {
			m.logger.Warn("migration failed for group", "kind", coll.Kind(), "identity", g.identity, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", g.identity, err))
		}
	}

	m.logger.Info("migrated collection", "kind", coll.Kind(), "groups", report.Groups,
		"renamed", report.Renamed, "deleted", report.Deleted, "dry_run", m.dryRun)
	return report, errors.Join(errs...)
}

// groupByIdentity partitions docs by normalized identity URL, keeping
// first-seen order. Records without a URL are returned separately.
func groupByIdentity(docs []*core.Entry) ([]*group, []*core.Entry) {
	var groups []*group
	var ungrouped []*core.Entry
	index := make(map[string]*group)

	for _, doc := range docs {
		identity := normalize.IdentityURL(doc)
		if identity == "" {
			ungrouped = append(ungrouped, doc)
			continue
		}
		g, ok := index[identity]
		if !ok {
			g = &group{identity: identity}
			index[identity] = g
			groups = append(groups, g)
		}
		g.members = append(g.members, doc)
	}
	return groups, ungrouped
}

// planGroup picks the winner and target id for g. It reports false when
// the group is already a single record under a current-form id.
func planGroup(g *group, registry *normalize.Registry) (Plan, bool) {
	winner := g.members[0]
	for _, doc := range g.members[1:] {
		if compareScore(doc, winner) > 0 {
			winner = doc
		}
	}

	inScheme := currentForm(winner)
	if len(g.members) == 1 && inScheme {
		return Plan{}, false
	}

	target := expectedID(winner, winner.Prefix())
	if inScheme {
		target = winner.ID
	}
	target = registry.Claim(target, g.identity)

	plan := Plan{Identity: g.identity, Winner: winner.ID, Target: target}
	for _, doc := range g.members {
		if doc.ID != target {
			plan.Losers = append(plan.Losers, doc.ID)
		}
	}
	return plan, true
}

// currentForm reports whether doc's id already follows "{prefix}:{slug}"
// for its own prefix or any prefix a connector assigns. Records merged from
// several sources keep the id they were created under.
func currentForm(doc *core.Entry) bool {
	if normalize.IsScheme(doc.ID, doc.Prefix()) {
		return true
	}
	for _, prefix := range core.SourcePrefixes() {
		if normalize.IsScheme(doc.ID, prefix) {
			return true
		}
	}
	return false
}

// expectedID builds "{prefix}:{slug}" from the title, falling back to the
// last URL segment and then to a hash of the identity URL.
func expectedID(winner *core.Entry, prefix string) string {
	slug := normalize.Slugify(winner.Title)
	if slug == "" {
		slug = normalize.Slugify(normalize.LastPathSegment(normalize.IdentityURL(winner)))
	}
	if slug == "" {
		slug = normalize.ShortHash(normalize.IdentityURL(winner))
	}
	return prefix + ":" + slug
}

// apply persists the winner under the target id and then removes the other
// members. It returns the number of records deleted.
func (m *Migrator) apply(ctx context.Context, coll storage.Collection, g *group, plan Plan) (int, error) {
	var winner *core.Entry
	targetExists := false
	for _, doc := range g.members {
		if doc.ID == plan.Winner {
			winner = doc
		}
		if doc.ID == plan.Target {
			targetExists = true
		}
	}

	switch {
	case plan.Target == plan.Winner:
		// already in place
	case targetExists:
		if _, err := coll.Update(ctx, plan.Target, storage.FieldsOf(winner)); err != nil {
			return 0, fmt.Errorf("updating %s: %w", plan.Target, err)
		}
	default:
		if _, err := coll.Create(ctx, winner, plan.Target); err != nil {
			return 0, fmt.Errorf("creating %s: %w", plan.Target, err)
		}
	}

	deleted := 0
	for _, id := range plan.Losers {
		ok, err := coll.Delete(ctx, id)
		if err != nil {
			return deleted, fmt.Errorf("deleting %s: %w", id, err)
		}
		if ok {
			deleted++
		}
	}
	return deleted, nil
}
