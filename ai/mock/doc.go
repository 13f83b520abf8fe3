// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Enricher and ai.AIProvider
// for use in unit tests. The mocks allow tests to run without an external
// model and give controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	out, err := mockProvider.Enricher().Enrich(ctx, "Some body text.")
//
//	// Custom behavior injection
//	enricher := mock.NewMockEnricher().
//	    WithEnrichFunc(func(ctx context.Context, text string) (*ai.Enrichment, error) {
//	        return nil, errors.New("model offline")
//	    })
//
//	// Check call counts
//	count := enricher.CallCount()
//
// # Default Behavior
//
// MockEnricher returns the first sentence of the input as the summary and
// up to three leading words as tags.
package mock
