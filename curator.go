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


package curator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/curator/ai"
	"github.com/poiesic/curator/ai/openai"
	"github.com/poiesic/curator/config"
	"github.com/poiesic/curator/connector"
	"github.com/poiesic/curator/connector/archive"
	"github.com/poiesic/curator/connector/devto"
	"github.com/poiesic/curator/connector/feed"
	"github.com/poiesic/curator/connector/github"
	"github.com/poiesic/curator/connector/manual"
	"github.com/poiesic/curator/ingestion"
	"github.com/poiesic/curator/migrate"
	"github.com/poiesic/curator/storage"
	"github.com/poiesic/curator/storage/badger"
	"github.com/poiesic/curator/storage/redis"
	goredis "github.com/redis/go-redis/v9"
)

// ErrNoSources is returned by Sources when nothing is selected.
var ErrNoSources = errors.New("no sources selected")

// Curator owns an open document store and, optionally, an AI provider.
type Curator struct {
	backend     *badger.Backend
	redisClient *goredis.Client
	collections storage.Collections
	provider    ai.AIProvider
	logger      *slog.Logger
}

// Option configures a Curator.
type Option func(*options)

type options struct {
	aiConfig *ai.Config
	provider ai.AIProvider
	noAI     bool
}

// WithAIConfig sets the enrichment client configuration.
func WithAIConfig(cfg *ai.Config) Option {
	return func(o *options) {
		o.aiConfig = cfg
	}
}

// WithProvider uses an existing AI provider instead of creating one.
// The Curator takes ownership and closes it.
func WithProvider(provider ai.AIProvider) Option {
	return func(o *options) {
		o.provider = provider
	}
}

// WithoutAI disables enrichment.
func WithoutAI() Option {
	return func(o *options) {
		o.noAI = true
	}
}

// Open opens the embedded store at filePath.
func Open(filePath string, opts ...Option) (*Curator, error) {
	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}
	c, err := newCurator(badger.NewCollections(backend), opts)
	if err != nil {
		backend.Close()
		return nil, err
	}
	c.backend = backend
	return c, nil
}

// OpenRedis connects to Redis and stores documents under prefix.
func OpenRedis(ctx context.Context, connect redis.ConnectOptions, prefix string, opts ...Option) (*Curator, error) {
	client, err := redis.Connect(ctx, connect)
	if err != nil {
		return nil, err
	}
	c, err := newCurator(redis.NewCollections(client, prefix), opts)
	if err != nil {
		client.Close()
		return nil, err
	}
	c.redisClient = client
	return c, nil
}

// OpenConfig opens the store and AI provider described by cfg.
func OpenConfig(ctx context.Context, cfg *config.Config, opts ...Option) (*Curator, error) {
	base := []Option{WithAIConfig(cfg.EnricherConfig())}
	if !cfg.AIEnabled() {
		base = append(base, WithoutAI())
	}
	opts = append(base, opts...)

	switch cfg.Store.Backend {
	case config.BackendRedis:
		connect := redis.DefaultConnectOptions()
		connect.Addr = cfg.Store.Redis.Addr
		connect.User = cfg.Store.Redis.User
		connect.Password = cfg.Store.Redis.Password
		connect.DB = cfg.Store.Redis.DB
		connect.ConnectTimeout = cfg.Store.Redis.ConnectTimeout
		return OpenRedis(ctx, connect, cfg.Store.Redis.Prefix, opts...)
	case config.BackendBadger:
		return Open(cfg.Store.Path, opts...)
	default:
		return nil, fmt.Errorf("%w: unknown store backend %q", config.ErrInvalidConfig, cfg.Store.Backend)
	}
}

func newCurator(collections storage.Collections, opts []Option) (*Curator, error) {
	o := &options{aiConfig: ai.DefaultConfig()}
	for _, opt := range opts {
		opt(o)
	}

	c := &Curator{
		collections: collections,
		logger:      slog.Default().With("component", "curator"),
	}

	switch {
	case o.noAI:
		if o.provider != nil {
			o.provider.Close()
		}
	case o.provider != nil:
		c.provider = o.provider
	default:
		provider, err := openai.NewProvider(o.aiConfig)
		if err != nil {
			return nil, err
		}
		c.provider = provider
	}
	return c, nil
}

// Close releases the AI provider and the store.
func (c *Curator) Close() error {
	if c.provider != nil {
		if err := c.provider.Close(); err != nil {
			c.logger.Error("error closing AI provider", "err", err)
		}
	}

	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			c.logger.Error("error closing redis client", "err", err)
			return err
		}
	}

	if c.backend != nil {
		if err := c.backend.Close(); err != nil {
			c.logger.Error("error closing backend storage", "err", err)
			return err
		}
	}
	return nil
}

// Collections returns the open collections.
func (c *Curator) Collections() storage.Collections {
	return c.collections
}

// Enricher returns the enrichment service, or nil when AI is disabled.
func (c *Curator) Enricher() ai.Enricher {
	if c.provider == nil {
		return nil
	}
	return c.provider.Enricher()
}

// NewMigrator creates an identity migrator over the open collections.
func (c *Curator) NewMigrator(opts ...migrate.Option) *migrate.Migrator {
	return migrate.New(c.collections, opts...)
}

// NewIngestionPipeline creates a pipeline over the open collections,
// enriching with the provider when one is configured.
func (c *Curator) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	if enricher := c.Enricher(); enricher != nil {
		opts = append([]ingestion.Option{ingestion.WithEnricher(enricher)}, opts...)
	}
	return ingestion.NewPipeline(c.collections, opts...)
}

// Sources builds the selected sources in run order: repository host, feed,
// archive, article API, manual file. The feed runs before the archive so
// live metadata is in place when archived content is merged.
func (c *Curator) Sources(cfg config.Sources, onProgress archive.ProgressFunc) ([]connector.Source, error) {
	var sources []connector.Source

	if cfg.GitHub.User != "" {
		opts := []github.Option{github.WithToken(cfg.GitHub.Token)}
		if cfg.GitHub.BaseURL != "" {
			opts = append(opts, github.WithBaseURL(cfg.GitHub.BaseURL))
		}
		src, err := github.New(cfg.GitHub.User, opts...)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}

	if cfg.Feed.User != "" {
		var opts []feed.Option
		if cfg.Feed.URLTemplate != "" {
			opts = append(opts, feed.WithURLTemplate(cfg.Feed.URLTemplate))
		}
		if cfg.Feed.Platform != "" {
			opts = append(opts, feed.WithPlatform(cfg.Feed.Platform))
		}
		src, err := feed.New(cfg.Feed.User, opts...)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}

	if cfg.Archive.Path != "" {
		opts := []archive.Option{archive.WithEnricher(c.Enricher())}
		if onProgress != nil {
			opts = append(opts, archive.WithProgress(onProgress))
		}
		sources = append(sources, archive.NewSource(cfg.Archive.Path, opts...))
	}

	if cfg.DevTo.User != "" {
		opts := []devto.Option{devto.WithMinWords(cfg.DevTo.MinWords)}
		if cfg.DevTo.Workers > 0 {
			opts = append(opts, devto.WithWorkers(cfg.DevTo.Workers))
		}
		src, err := devto.New(cfg.DevTo.User, opts...)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}

	if cfg.Manual.Path != "" {
		sources = append(sources, manual.New(cfg.Manual.Path))
	}

	if len(sources) == 0 {
		return nil, ErrNoSources
	}
	return sources, nil
}
