package core

import (
	"slices"
	"strings"
	"time"
)

// Kind identifies the collection an entry is persisted in.
type Kind string

const (
	// KindProject is a code repository or other project.
	KindProject Kind = "projects"
	// KindBlog is a published article.
	KindBlog Kind = "blogs"
	// KindApplication is a curated, deployed application.
	KindApplication Kind = "applications"
)

// Kinds lists every collection kind in migration order.
var Kinds = []Kind{KindProject, KindBlog, KindApplication}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindProject, KindBlog, KindApplication:
		return true
	}
	return false
}

// Source platform labels recorded on entries.
const (
	SourceRepositoryHost = "repository-host"
	SourceFeed           = "feed"
	SourceArchive        = "archive"
	SourceArticleAPI     = "article-api"
	SourceManual         = "manual"
	SourceApplication    = "application"
)

// legacySources maps labels written by earlier versions to current ones.
var legacySources = map[string]string{
	"github":         SourceRepositoryHost,
	"medium_rss":     SourceFeed,
	"medium":         SourceFeed,
	"medium_archive": SourceArchive,
	"devto_api":      SourceArticleAPI,
	"devto":          SourceArticleAPI,
}

// CanonicalSource returns the current label for a source platform label,
// translating legacy labels. Unknown labels are returned unchanged.
func CanonicalSource(label string) string {
	if current, ok := legacySources[label]; ok {
		return current
	}
	return label
}

// sourcePrefixes maps source platform labels to the prefix used in ids.
// Feed and archive share a prefix so both views of an article converge on one id.
var sourcePrefixes = map[string]string{
	SourceRepositoryHost: "github",
	SourceFeed:           "medium",
	SourceArchive:        "medium",
	SourceArticleAPI:     "devto",
	SourceManual:         "manual",
	SourceApplication:    "application",
}

// SourcePrefixes returns every id prefix a connector assigns, sorted.
func SourcePrefixes() []string {
	prefixes := make([]string, 0, len(sourcePrefixes))
	for _, p := range sourcePrefixes {
		if !slices.Contains(prefixes, p) {
			prefixes = append(prefixes, p)
		}
	}
	slices.Sort(prefixes)
	return prefixes
}

// kindPrefixes is the fallback for records with an unknown source platform.
var kindPrefixes = map[Kind]string{
	KindProject:     "project",
	KindBlog:        "blog",
	KindApplication: "application",
}

// SourcePrefix returns the id prefix for a source platform, falling back to
// a per-kind prefix for legacy records.
func SourcePrefix(sourcePlatform string, kind Kind) string {
	if p, ok := sourcePrefixes[CanonicalSource(sourcePlatform)]; ok {
		return p
	}
	if p, ok := kindPrefixes[kind]; ok {
		return p
	}
	return "item"
}

// IsArchival reports whether a source platform is a bulk export. Archival
// data is authoritative for content but not for current metadata.
func IsArchival(sourcePlatform string) bool {
	return CanonicalSource(sourcePlatform) == SourceArchive
}

// IsContentAuthoritative reports whether a source platform supplies
// explicit, curated content that outranks thin live-feed content.
func IsContentAuthoritative(sourcePlatform string) bool {
	switch CanonicalSource(sourcePlatform) {
	case SourceArchive, SourceManual, SourceApplication:
		return true
	}
	return false
}

// Entry is the canonical record for one portfolio item. The same shape is
// used for projects, blogs and applications; fields that do not apply to a
// kind stay empty.
//
// AISummary and BodyContent may be empty while an entry is pending
// enrichment. A non-empty AISummary on a persisted record means enrichment
// is done for that record.
type Entry struct {
	ID             string    `json:"id,omitempty"`
	Kind           Kind      `json:"-"`
	Title          string    `json:"title"`
	Summary        string    `json:"summary,omitempty"`
	Description    string    `json:"description,omitempty"`
	URL            string    `json:"url,omitempty"`
	RepoURL        string    `json:"repo_url,omitempty"`
	DemoURL        string    `json:"demo_url,omitempty"`
	ImageURL       string    `json:"image_url,omitempty"`
	Platform       string    `json:"platform,omitempty"`
	Date           string    `json:"date,omitempty"` // YYYY-MM-DD
	Tags           []string  `json:"tags,omitempty"`
	BodyContent    string    `json:"body_content,omitempty"`
	AISummary      string    `json:"ai_summary,omitempty"`
	SourcePlatform string    `json:"source_platform,omitempty"`
	ContentSource  string    `json:"content_source,omitempty"` // connector that supplied BodyContent
	IsManual       bool      `json:"is_manual"`
	MetadataOnly   bool      `json:"metadata_only"`
	IsPrivate      bool      `json:"is_private"`
	Featured       bool      `json:"featured"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CanonicalURLs returns the identity-bearing URLs in precedence order,
// skipping empty ones. Values are returned as stored; callers normalize.
func (e *Entry) CanonicalURLs() []string {
	urls := make([]string, 0, 3)
	for _, u := range []string{e.URL, e.RepoURL, e.DemoURL} {
		if strings.TrimSpace(u) != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// IdentityURL returns the first canonical URL, or "" when there is none.
func (e *Entry) IdentityURL() string {
	urls := e.CanonicalURLs()
	if len(urls) == 0 {
		return ""
	}
	return urls[0]
}

// Prefix returns the id prefix for this entry's source platform.
func (e *Entry) Prefix() string {
	return SourcePrefix(e.SourcePlatform, e.Kind)
}

// EffectiveContentSource returns the connector that supplied the body,
// falling back to the source platform for records written without one.
func (e *Entry) EffectiveContentSource() string {
	if e.ContentSource != "" {
		return e.ContentSource
	}
	return e.SourcePlatform
}

// Clone returns a deep copy of the entry.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	c := *e
	if e.Tags != nil {
		c.Tags = append([]string(nil), e.Tags...)
	}
	return &c
}

// AddTag appends tag unless an equal tag (case-insensitive) is present.
func (e *Entry) AddTag(tag string) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return
	}
	for _, t := range e.Tags {
		if strings.EqualFold(t, tag) {
			return
		}
	}
	e.Tags = append(e.Tags, tag)
}
