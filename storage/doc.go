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


// Package storage provides the document store abstraction for curator.
//
// Entries are persisted as JSON documents in one collection per kind
// (projects, blogs, applications). Backends implement Collection; the
// ingestion pipeline and the identity migrator depend only on this package.
//
// # Constructor Return Type Pattern
//
// Public constructors in backend packages return the storage.Collection
// interface:
//
//	coll := badger.NewCollection(backend, core.KindBlog) // returns storage.Collection
//
// Internal constructors may return concrete types since they're only used
// within the implementation package.
//
// # Partial Updates
//
// Update takes Fields, a partial document keyed by JSON field name. FieldsOf
// produces the full field set of an entry (everything except id and
// created_at) and Diff the subset that changed between two versions:
//
//	changed := storage.Diff(existing, merged)
//	if len(changed) > 0 {
//	    _, err = coll.Update(ctx, existing.ID, changed)
//	}
//
// # Usage
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	collections := badger.NewCollections(backend)
//
// Use in tests with in-memory storage:
//
//	collections, backend, err := badger.NewMemoryCollections()
//
// # Thread Safety
//
// All collection implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All collection methods accept context.Context for cancellation
// and timeout support.
package storage
