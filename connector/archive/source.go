package archive

import (
	"context"
	"iter"

	"github.com/poiesic/curator/ai"
	"github.com/poiesic/curator/connector"
)

// Source adapts an export file to connector.Source. The file is reopened
// each time the returned sequence is ranged.
type Source struct {
	path       string
	enricher   ai.Enricher
	onProgress ProgressFunc
}

var _ connector.Source = (*Source)(nil)

// Option configures a Source.
type Option func(*Source)

// WithEnricher enriches posts that carry no tags of their own.
func WithEnricher(enricher ai.Enricher) Option {
	return func(s *Source) {
		s.enricher = enricher
	}
}

// WithProgress reports per-file progress.
func WithProgress(fn ProgressFunc) Option {
	return func(s *Source) {
		s.onProgress = fn
	}
}

// NewSource creates a source reading the export at path.
func NewSource(path string, opts ...Option) *Source {
	s := &Source{path: path}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name identifies the source.
func (s *Source) Name() string {
	return "archive:" + s.path
}

// Fetch checks the export can be opened and returns its posts.
func (s *Source) Fetch(ctx context.Context, known connector.Known) (iter.Seq[connector.Result], error) {
	a, err := Open(s.path, s.enricher)
	if err != nil {
		return nil, err
	}
	a.Close()

	return func(yield func(connector.Result) bool) {
		a, err := Open(s.path, s.enricher)
		if err != nil {
			yield(connector.Failed(s.path, err))
			return
		}
		defer a.Close()

		for r := range a.Posts(ctx, known, s.onProgress) {
			if !yield(r) {
				return
			}
		}
	}, nil
}
