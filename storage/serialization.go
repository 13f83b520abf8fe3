package storage

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/poiesic/curator/core"
)

// MarshalEntry serializes an entry to a JSON document.
func MarshalEntry(entry *core.Entry) ([]byte, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalEntry deserializes a JSON document into an entry of the given kind.
func UnmarshalEntry(data []byte, kind core.Kind) (*core.Entry, error) {
	var entry core.Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	entry.Kind = kind
	return &entry, nil
}

// FieldsOf returns every persisted field of entry except id and created_at.
// Empty values are included so an update can clear a field.
func FieldsOf(entry *core.Entry) Fields {
	tags := entry.Tags
	if tags == nil {
		tags = []string{}
	}
	return Fields{
		"title":           entry.Title,
		"summary":         entry.Summary,
		"description":     entry.Description,
		"url":             entry.URL,
		"repo_url":        entry.RepoURL,
		"demo_url":        entry.DemoURL,
		"image_url":       entry.ImageURL,
		"platform":        entry.Platform,
		"date":            entry.Date,
		"tags":            tags,
		"body_content":    entry.BodyContent,
		"ai_summary":      entry.AISummary,
		"source_platform": entry.SourcePlatform,
		"content_source":  entry.ContentSource,
		"is_manual":       entry.IsManual,
		"metadata_only":   entry.MetadataOnly,
		"is_private":      entry.IsPrivate,
		"featured":        entry.Featured,
		"updated_at":      entry.UpdatedAt,
	}
}

// Diff returns the fields of next that differ from prev, ignoring
// updated_at. An empty result means the documents are equivalent.
func Diff(prev, next *core.Entry) Fields {
	before := FieldsOf(prev)
	changed := Fields{}
	for name, value := range FieldsOf(next) {
		if name == "updated_at" {
			continue
		}
		if !reflect.DeepEqual(before[name], value) {
			changed[name] = value
		}
	}
	return changed
}

// ApplyFields returns a copy of entry with fields overlaid.
// The id, kind and created_at of entry are preserved.
// Returns ErrUnknownField if fields names anything FieldsOf does not produce.
func ApplyFields(entry *core.Entry, fields Fields) (*core.Entry, error) {
	known := FieldsOf(&core.Entry{})
	for name := range fields {
		if _, ok := known[name]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	doc := map[string]any{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	for name, value := range fields {
		doc[name] = value
	}
	merged, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}

	out, err := UnmarshalEntry(merged, entry.Kind)
	if err != nil {
		return nil, err
	}
	out.ID = entry.ID
	out.CreatedAt = entry.CreatedAt
	return out, nil
}

// stamp fills zero timestamps on a new document.
func stamp(entry *core.Entry, now time.Time) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = now
	}
}

// PrepareCreate returns a copy of entry ready to be stored under id.
func PrepareCreate(entry *core.Entry, id string, kind core.Kind, now time.Time) *core.Entry {
	doc := entry.Clone()
	doc.ID = id
	doc.Kind = kind
	stamp(doc, now)
	return doc
}

// PrepareUpdate returns prev with fields applied and UpdatedAt set to now.
func PrepareUpdate(prev *core.Entry, fields Fields, now time.Time) (*core.Entry, error) {
	doc, err := ApplyFields(prev, fields)
	if err != nil {
		return nil, err
	}
	doc.UpdatedAt = now
	return doc, nil
}
