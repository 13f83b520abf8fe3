package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/poiesic/curator/ai"
)

// MockEnricher is a test double for ai.Enricher.
// It allows custom behavior injection via function fields.
type MockEnricher struct {
	// EnrichFunc is called by Enrich if set.
	// If nil, returns the first sentence of text and a tag per leading word.
	EnrichFunc func(ctx context.Context, text string) (*ai.Enrichment, error)

	mu        sync.Mutex
	callCount int
	inputs    []string
}

// NewMockEnricher creates a mock enricher with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockEnricher().
func NewMockEnricher() *MockEnricher {
	return &MockEnricher{}
}

// WithEnrichFunc sets a custom function for Enrich.
func (m *MockEnricher) WithEnrichFunc(fn func(ctx context.Context, text string) (*ai.Enrichment, error)) *MockEnricher {
	m.EnrichFunc = fn
	return m
}

// Enrich records the call and returns a deterministic enrichment.
func (m *MockEnricher) Enrich(ctx context.Context, text string) (*ai.Enrichment, error) {
	m.mu.Lock()
	m.callCount++
	m.inputs = append(m.inputs, text)
	fn := m.EnrichFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, text)
	}

	summary := strings.TrimSpace(text)
	if idx := strings.IndexAny(summary, ".!?"); idx >= 0 {
		summary = summary[:idx+1]
	}

	tags := make([]string, 0, 3)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if len(tags) == 3 {
			break
		}
		word = strings.Trim(word, ".,!?;:\"'()[]{}")
		if word != "" {
			tags = append(tags, word)
		}
	}

	return &ai.Enrichment{Summary: summary, Tags: tags}, nil
}

// CallCount returns the number of times Enrich was called.
func (m *MockEnricher) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Inputs returns the texts Enrich was called with, in call order.
func (m *MockEnricher) Inputs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.inputs...)
}

// Reset clears the call count and recorded inputs.
func (m *MockEnricher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.inputs = nil
}
