package ai

import "context"

// Enricher derives a prose summary and topic tags from raw body content.
// Implementations must be thread-safe for concurrent use.
type Enricher interface {
	// Enrich summarizes text. Input longer than the configured limit is
	// truncated before submission.
	// A reply that cannot be parsed as structured output is not an error:
	// the raw reply becomes the summary and FromRawText is set.
	// Returns an error only when the service call itself fails.
	Enrich(ctx context.Context, text string) (*Enrichment, error)
}

// Enrichment is the result of one enrichment call.
type Enrichment struct {
	// Summary is a short paragraph describing the content.
	Summary string

	// Tags are short topic labels, lower-case, most relevant first.
	// Empty when the reply was not structured.
	Tags []string

	// FromRawText is true when the reply was unstructured and used verbatim.
	FromRawText bool
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
type AIProvider interface {
	// Enricher returns the content enrichment service.
	// The returned Enricher is safe for concurrent use.
	Enricher() Enricher

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
