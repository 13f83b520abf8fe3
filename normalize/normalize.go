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


package normalize

import (
	"encoding/hex"
	"strings"

	"github.com/go-crypt/x/blake2b"
	"github.com/poiesic/curator/core"
)

// shortHashSize is the digest size in bytes; hex encoding doubles it.
const shortHashSize = 4

// URL canonicalizes an identity URL by stripping the query component and any
// trailing slashes. Empty input yields "", which never matches anything.
func URL(u string) string {
	u = strings.TrimSpace(u)
	if u == "" {
		return ""
	}
	if i := strings.IndexByte(u, '?'); i >= 0 {
		u = u[:i]
	}
	return strings.TrimRight(u, "/")
}

// Slugify lower-cases text, collapses every run of characters outside
// [a-z0-9] into a single hyphen and trims leading and trailing hyphens.
func Slugify(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	pendingHyphen := false
	for _, r := range strings.ToLower(text) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// LastPathSegment returns the last non-empty path segment of a URL. A URL
// without a path yields its host, so "https://trailing.com/" gives
// "trailing.com".
func LastPathSegment(u string) string {
	u = URL(u)
	if i := strings.Index(u, "://"); i >= 0 {
		u = u[i+3:]
	}
	if i := strings.IndexByte(u, '#'); i >= 0 {
		u = u[:i]
	}
	parts := strings.Split(u, "/")
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] != "" {
			return parts[i]
		}
	}
	return ""
}

// EntryURLs normalizes every canonical URL on the entry in place.
func EntryURLs(entry *core.Entry) {
	entry.URL = URL(entry.URL)
	entry.RepoURL = URL(entry.RepoURL)
	entry.DemoURL = URL(entry.DemoURL)
}

// IdentityURL returns the entry's normalized identity URL.
func IdentityURL(entry *core.Entry) string {
	return URL(entry.IdentityURL())
}

// WithPrefix returns id scoped to prefix. Ids that already carry a
// "prefix:" namespace are returned unchanged.
func WithPrefix(prefix, id string) string {
	if id == "" {
		return ""
	}
	if i := strings.IndexByte(id, ':'); i > 0 {
		return id
	}
	return prefix + ":" + id
}

// DeriveID builds the platform-scoped id for an entry: an explicit id wins;
// otherwise the slug of the last path segment of the identity URL; otherwise
// the slug of the title. The result is always "{prefix}:{slug}".
func DeriveID(entry *core.Entry, prefix string) string {
	if entry.ID != "" {
		return WithPrefix(prefix, entry.ID)
	}
	slug := ""
	if u := IdentityURL(entry); u != "" {
		slug = Slugify(LastPathSegment(u))
	}
	if slug == "" {
		slug = Slugify(entry.Title)
	}
	if slug == "" {
		slug = ShortHash(entry.Title)
	}
	return prefix + ":" + slug
}

// IsScheme reports whether id follows the current "{prefix}:{slug}" form.
// A slug may carry a disambiguating hash suffix; it is still a slug.
func IsScheme(id, prefix string) bool {
	slug, ok := strings.CutPrefix(id, prefix+":")
	if !ok || slug == "" {
		return false
	}
	return Slugify(slug) == slug
}

// ShortHash returns a short, stable hex digest of s using BLAKE2b.
func ShortHash(s string) string {
	h, _ := blake2b.New(shortHashSize, nil)
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}

// Disambiguate appends the short hash of identity to id.
func Disambiguate(id, identity string) string {
	return id + "-" + ShortHash(identity)
}
