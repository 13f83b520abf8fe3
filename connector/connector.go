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


package connector

import (
	"context"
	"iter"

	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/normalize"
)

// Status classifies one item produced by a source.
type Status string

const (
	// StatusProcessed marks a record ready to be merged and persisted.
	StatusProcessed Status = "processed"
	// StatusSkippedDraft marks an unpublished draft.
	StatusSkippedDraft Status = "skipped_draft"
	// StatusSkippedNotBlog marks a page that is not a standalone article.
	StatusSkippedNotBlog Status = "skipped_not_blog"
	// StatusSkippedExisting marks an item already persisted and enriched.
	StatusSkippedExisting Status = "skipped_existing"
	// StatusSkippedFiltered marks an item excluded by a source filter.
	StatusSkippedFiltered Status = "skipped_filtered"
	// StatusInvalid marks a record that failed validation.
	StatusInvalid Status = "invalid"
	// StatusError marks an item that could not be read or converted.
	StatusError Status = "error"
)

// Skipped reports whether s is one of the skip statuses.
func (s Status) Skipped() bool {
	switch s {
	case StatusSkippedDraft, StatusSkippedNotBlog, StatusSkippedExisting, StatusSkippedFiltered, StatusInvalid:
		return true
	}
	return false
}

// Result is one item yielded by a source. Entry is set only when Status is
// StatusProcessed; Err only when Status is StatusError.
type Result struct {
	Status Status
	Entry  *core.Entry
	// Name identifies the item in logs, typically a file name or title.
	Name   string
	Reason string
	Err    error
}

// Processed wraps entry in a processed result.
func Processed(entry *core.Entry) Result {
	return Result{Status: StatusProcessed, Entry: entry, Name: entry.Title}
}

// Skip builds a skipped result.
func Skip(status Status, name, reason string) Result {
	return Result{Status: status, Name: name, Reason: reason}
}

// Failed builds an item-scoped error result.
func Failed(name string, err error) Result {
	return Result{Status: StatusError, Name: name, Reason: err.Error(), Err: err}
}

// Known carries caller state a source may use to avoid redundant work.
type Known struct {
	// EnrichedURLs holds normalized URLs of persisted records that already
	// have an AI summary.
	EnrichedURLs map[string]struct{}
}

// NewKnown builds a Known from a list of URLs, normalizing each.
func NewKnown(urls ...string) Known {
	k := Known{EnrichedURLs: make(map[string]struct{}, len(urls))}
	for _, u := range urls {
		if n := normalize.URL(u); n != "" {
			k.EnrichedURLs[n] = struct{}{}
		}
	}
	return k
}

// Enriched reports whether url, once normalized, is already enriched.
func (k Known) Enriched(url string) bool {
	n := normalize.URL(url)
	if n == "" || k.EnrichedURLs == nil {
		return false
	}
	_, ok := k.EnrichedURLs[n]
	return ok
}

// Source is one origin of portfolio records.
//
// Fetch returns an error only for a whole-source failure, such as an
// unreachable API or an unreadable file; item-level problems are reported
// as results. The sequence may be lazy and may be ranged more than once.
type Source interface {
	// Name identifies the source in logs and reports.
	Name() string

	// Fetch lists the source. Every processed entry carries its Kind.
	Fetch(ctx context.Context, known Known) (iter.Seq[Result], error)
}

// Slice adapts a slice of results to a sequence.
func Slice(results []Result) iter.Seq[Result] {
	return func(yield func(Result) bool) {
		for _, r := range results {
			if !yield(r) {
				return
			}
		}
	}
}

// Entries collects the processed entries of a sequence.
func Entries(seq iter.Seq[Result]) []*core.Entry {
	var out []*core.Entry
	for r := range seq {
		if r.Status == StatusProcessed && r.Entry != nil {
			out = append(out, r.Entry)
		}
	}
	return out
}
