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


package merge

import (
	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/normalize"
)

// Key returns the match key for an entry: its normalized identity URL, or
// "id:" plus its explicit id. Entries with neither return "" and can only
// be matched by title.
func Key(entry *core.Entry) string {
	if u := normalize.IdentityURL(entry); u != "" {
		return u
	}
	if entry.ID != "" {
		return "id:" + entry.ID
	}
	return ""
}

// Merge folds incoming into base and returns the combined entry. incoming is
// the later-applied record. Neither argument is modified.
//
// Precedence is decided per field:
//   - Title and Date: a live source outranks an archival one, otherwise the
//     later-applied value wins.
//   - BodyContent, AISummary, IsPrivate, MetadataOnly: a content-authoritative
//     side (archive, manual, application) with a body outranks one without.
//     AISummary is never cleared by an empty value.
//   - Tags: non-empty beats empty, otherwise the later-applied value wins.
//   - ID and CreatedAt: the first assigned value is kept.
func Merge(base, incoming *core.Entry) *core.Entry {
	if base == nil {
		return incoming.Clone()
	}
	if incoming == nil {
		return base.Clone()
	}

	out := base.Clone()

	if out.Kind == "" {
		out.Kind = incoming.Kind
	}
	if out.ID == "" {
		out.ID = incoming.ID
	}
	if out.CreatedAt.IsZero() {
		out.CreatedAt = incoming.CreatedAt
	}

	// Current metadata: archives are historical, so they only fill gaps
	// left by a live record.
	archivalOverLive := core.IsArchival(incoming.SourcePlatform) && !core.IsArchival(base.SourcePlatform)
	out.Title = pickMetadata(base.Title, incoming.Title, archivalOverLive)
	out.Date = pickMetadata(base.Date, incoming.Date, archivalOverLive)

	mergeContent(out, base, incoming)

	if len(incoming.Tags) > 0 {
		out.Tags = append([]string(nil), incoming.Tags...)
	}

	out.Summary = pick(base.Summary, incoming.Summary)
	out.Description = pick(base.Description, incoming.Description)
	out.URL = pick(base.URL, incoming.URL)
	out.RepoURL = pick(base.RepoURL, incoming.RepoURL)
	out.DemoURL = pick(base.DemoURL, incoming.DemoURL)
	out.ImageURL = pick(base.ImageURL, incoming.ImageURL)
	out.Platform = pick(base.Platform, incoming.Platform)
	out.SourcePlatform = pick(base.SourcePlatform, incoming.SourcePlatform)

	out.IsManual = base.IsManual || incoming.IsManual
	out.Featured = base.Featured || incoming.Featured

	return out
}

// mergeContent decides which side supplies the body and its dependent flags.
func mergeContent(out, base, incoming *core.Entry) {
	baseRich := richContent(base)
	incomingRich := richContent(incoming)

	var winner *core.Entry
	switch {
	case incomingRich && !baseRich:
		winner = incoming
	case baseRich && !incomingRich:
		winner = base
	case incoming.BodyContent != "":
		winner = incoming
	default:
		winner = base
	}

	out.BodyContent = winner.BodyContent
	out.ContentSource = winner.ContentSource
	if winner.BodyContent != "" && out.ContentSource == "" {
		out.ContentSource = winner.SourcePlatform
	}
	out.IsPrivate = winner.IsPrivate
	out.MetadataOnly = out.BodyContent == "" && (base.MetadataOnly || incoming.MetadataOnly)

	if baseRich && !incomingRich {
		out.AISummary = pick(incoming.AISummary, base.AISummary)
	} else {
		out.AISummary = pick(base.AISummary, incoming.AISummary)
	}
}

// richContent reports whether an entry carries a body from a source that is
// authoritative for content.
func richContent(e *core.Entry) bool {
	return e.BodyContent != "" && core.IsContentAuthoritative(e.EffectiveContentSource())
}

// pick returns incoming unless it is empty.
func pick(base, incoming string) string {
	if incoming != "" {
		return incoming
	}
	return base
}

// pickMetadata is pick, except that base is kept when incoming must not
// override it and base has a value.
func pickMetadata(base, incoming string, keepBase bool) string {
	if keepBase && base != "" {
		return base
	}
	return pick(base, incoming)
}
