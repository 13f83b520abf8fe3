package curator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/curator/ai/mock"
	"github.com/poiesic/curator/config"
	"github.com/poiesic/curator/connector"
	"github.com/poiesic/curator/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	t.Run("create new store", func(t *testing.T) {
		c, err := Open(filepath.Join(t.TempDir(), "curator_db"), WithoutAI())
		require.NoError(t, err)
		require.NotNil(t, c)
		defer c.Close()

		assert.NotNil(t, c.backend)
		assert.Len(t, c.Collections(), len(core.Kinds))
		assert.Nil(t, c.Enricher())
	})

	t.Run("error with invalid path", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0644))

		c, err := Open(tmpFile, WithoutAI())
		assert.Error(t, err)
		assert.Nil(t, c)
	})

	t.Run("default ai provider", func(t *testing.T) {
		c, err := Open(t.TempDir())
		require.NoError(t, err)
		defer c.Close()

		assert.NotNil(t, c.Enricher())
	})
}

func TestCurator_Close(t *testing.T) {
	provider, ok := mock.NewMockProvider().(*mock.MockProvider)
	require.True(t, ok)
	c, err := Open(t.TempDir(), WithProvider(provider))
	require.NoError(t, err)

	assert.NoError(t, c.Close())
	assert.True(t, provider.Closed())
}

func TestOpenConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Path = t.TempDir()
	cfg.AI.Disabled = true

	c, err := OpenConfig(context.Background(), cfg)
	require.NoError(t, err)
	defer c.Close()

	assert.Nil(t, c.Enricher())
	assert.NotNil(t, c.backend)
}

func TestCurator_Sources(t *testing.T) {
	c, err := Open(t.TempDir(), WithoutAI())
	require.NoError(t, err)
	defer c.Close()

	t.Run("none selected", func(t *testing.T) {
		_, err := c.Sources(config.Sources{}, nil)
		assert.ErrorIs(t, err, ErrNoSources)
	})

	t.Run("run order", func(t *testing.T) {
		sources, err := c.Sources(config.Sources{
			Manual:  config.ManualSource{Path: "portfolio.yaml"},
			DevTo:   config.DevToSource{User: "ben", MinWords: 100},
			Archive: config.ArchiveSource{Path: "medium.zip"},
			Feed:    config.FeedSource{User: "me"},
			GitHub:  config.GitHubSource{User: "octocat"},
		}, nil)
		require.NoError(t, err)

		names := make([]string, len(sources))
		for i, s := range sources {
			names[i] = s.Name()
		}
		assert.Equal(t, []string{
			"github:octocat",
			"feed:me",
			"archive:medium.zip",
			"devto:ben",
			"manual:portfolio.yaml",
		}, names)
	})
}

func TestCurator_IngestManualFile(t *testing.T) {
	ctx := context.Background()
	enricher := mock.NewMockEnricher()
	c, err := Open(t.TempDir(), WithProvider(mock.NewMockProviderWithServices(enricher)))
	require.NoError(t, err)
	defer c.Close()

	path := filepath.Join(t.TempDir(), "portfolio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
applications:
  - title: Trailing
    demo_url: https://trailing.com/
    description: A deployed app.
    body_content: Trailing tracks habits. It is small.
  - title: No Demo
    description: Missing its URL.
`), 0644))

	sources, err := c.Sources(config.Sources{Manual: config.ManualSource{Path: path}}, nil)
	require.NoError(t, err)

	pipeline, err := c.NewIngestionPipeline()
	require.NoError(t, err)
	report := pipeline.Run(ctx, sources...)

	stats := report.Sources[0]
	assert.Equal(t, 1, stats.Created)
	assert.Equal(t, 1, stats.Skipped[connector.StatusInvalid])
	assert.Equal(t, 1, enricher.CallCount())

	app, err := c.Collections()[core.KindApplication].Get(ctx, "application:trailing-com")
	require.NoError(t, err)
	assert.Equal(t, "Trailing tracks habits.", app.AISummary)
	assert.True(t, app.Featured)
}
