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


package core

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the layout of Entry.Date.
const DateLayout = "2006-01-02"

// ValidateEntry validates an Entry according to domain rules.
//
// Validation rules:
//   - Kind must be known
//   - Title must not be empty
//   - Date, when set, must be YYYY-MM-DD
//   - Applications must carry a DemoURL
//   - Manually declared blogs must carry a URL or an explicit ID
//
// NOT validated (populated later in the run):
//   - AISummary and Tags (can be empty until enrichment)
//   - ID (assigned by the normalizer or the store)
func ValidateEntry(entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is nil", ErrInvalidEntry)
	}

	if !entry.Kind.Valid() {
		return fmt.Errorf("%w: %w %q", ErrInvalidEntry, ErrInvalidKind, entry.Kind)
	}

	if strings.TrimSpace(entry.Title) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, ErrEmptyTitle)
	}

	if entry.Date != "" && !IsValidDate(entry.Date) {
		return fmt.Errorf("%w: %w: %q", ErrInvalidEntry, ErrInvalidDate, entry.Date)
	}

	switch entry.Kind {
	case KindApplication:
		if strings.TrimSpace(entry.DemoURL) == "" {
			return fmt.Errorf("%w: application %q is %w", ErrInvalidEntry, entry.Title, ErrMissingDemoURL)
		}
	case KindBlog:
		if entry.IsManual && strings.TrimSpace(entry.URL) == "" && entry.ID == "" {
			return fmt.Errorf("%w: %w", ErrInvalidEntry, ErrMissingBlogURL)
		}
	}

	return nil
}

// IsValidDate checks that s is a calendar date in YYYY-MM-DD form.
func IsValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// FormatDate renders t as an Entry date. The zero time yields "".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(DateLayout)
}
