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

import "errors"

// Domain validation errors
var (
	// ErrInvalidEntry indicates an Entry failed validation.
	ErrInvalidEntry = errors.New("invalid entry")

	// ErrEmptyTitle indicates the Title field is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrMissingDemoURL indicates a curated application without a demo URL.
	ErrMissingDemoURL = errors.New("missing the required 'demo_url'")

	// ErrMissingBlogURL indicates a blog entry with neither a URL nor an explicit id.
	ErrMissingBlogURL = errors.New("blog requires a 'url' or an explicit 'id'")

	// ErrInvalidDate indicates a Date that is not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("date must be formatted as YYYY-MM-DD")

	// ErrInvalidKind indicates an unknown collection kind.
	ErrInvalidKind = errors.New("invalid kind")

	// ErrAmbiguousTitle indicates a record matched more than one persisted
	// record by title and carries no URL or id to disambiguate.
	ErrAmbiguousTitle = errors.New("title matches multiple existing records")
)
