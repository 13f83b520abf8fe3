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


// Package ai provides abstractions for the AI services used by curator.
//
// The only capability the pipeline needs is content enrichment: given the
// body of an article or project, produce a short summary and a handful of
// topic tags. The core pipeline depends on the Enricher interface rather
// than on a concrete client.
//
// # Implementation Packages
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// Public constructors in ai/openai return INTERFACE types. Test doubles in
// ai/mock return CONCRETE types so tests can inspect call counts and inject
// behavior.
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithModel("gpt-4o-mini"))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	result, err := provider.Enricher().Enrich(ctx, body)
//
//	// Testing usage with mocks
//	enricher := mock.NewMockEnricher()
//	enricher.EnrichFunc = func(ctx context.Context, text string) (*ai.Enrichment, error) {
//	    return &ai.Enrichment{Summary: "short"}, nil
//	}
package ai
