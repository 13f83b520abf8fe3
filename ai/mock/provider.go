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


package mock

import "github.com/poiesic/curator/ai"

// MockProvider is a test double for ai.AIProvider.
// It wraps a mock enricher.
type MockProvider struct {
	enricher *MockEnricher
	closed   bool
}

// NewMockProvider creates a new mock provider with a default mock enricher.
//
// Returns ai.AIProvider interface for consistency with production constructors.
// Use GetMockEnricher() to access the concrete type for test assertions.
func NewMockProvider() ai.AIProvider {
	return &MockProvider{
		enricher: NewMockEnricher(),
	}
}

// NewMockProviderWithServices creates a mock provider with a custom mock enricher.
// This allows full control over the behavior of the service.
func NewMockProviderWithServices(enricher *MockEnricher) ai.AIProvider {
	return &MockProvider{
		enricher: enricher,
	}
}

// Enricher returns the mock enricher.
func (p *MockProvider) Enricher() ai.Enricher {
	return p.enricher
}

// Close marks the provider closed.
func (p *MockProvider) Close() error {
	p.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (p *MockProvider) Closed() bool {
	return p.closed
}

// GetMockEnricher returns the underlying mock enricher for test assertions.
// This allows tests to check call counts and inject custom behavior.
func (p *MockProvider) GetMockEnricher() *MockEnricher {
	return p.enricher
}
