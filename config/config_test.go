package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, BackendBadger, cfg.Store.Backend)
	assert.Equal(t, DefaultDBPath(), cfg.Store.Path)
	assert.Equal(t, "http://localhost:11434/v1", cfg.AI.Host)
	assert.Equal(t, 200, cfg.Sources.DevTo.MinWords)
	assert.True(t, cfg.AIEnabled())
	assert.False(t, cfg.HasSources())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
store:
  backend: redis
  redis:
    addr: redis.internal:6379
    db: 2
    connect_timeout: 5s
ai:
  model: gpt-4o-mini
  temperature: 0
sources:
  github:
    user: octocat
  archive:
    path: /tmp/medium.zip
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "redis.internal:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, 2, cfg.Store.Redis.DB)
	assert.Equal(t, 5*time.Second, cfg.Store.Redis.ConnectTimeout)
	assert.Equal(t, "curator", cfg.Store.Redis.Prefix, "defaults survive a partial file")
	assert.Equal(t, "gpt-4o-mini", cfg.AI.Model)
	assert.Zero(t, cfg.AI.Temperature)
	assert.Equal(t, "octocat", cfg.Sources.GitHub.User)
	assert.True(t, cfg.HasSources())
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "store: [unclosed"))
		assert.ErrorContains(t, err, "parsing config")
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := Load(writeConfig(t, "store:\n  backend: sqlite\n"))
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("bad environment value", func(t *testing.T) {
		t.Setenv("CURATOR_REDIS_DB", "two")
		_, err := Load(writeConfig(t, "log_level: info\n"))
		assert.ErrorIs(t, err, ErrInvalidConfig)
		assert.ErrorContains(t, err, "CURATOR_REDIS_DB")
	})
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	t.Setenv("CURATOR_AI_MODEL", "llama3")
	t.Setenv("CURATOR_NO_AI", "true")
	t.Setenv("CURATOR_GITHUB_USER", "from-env")

	cfg, err := Load(writeConfig(t, "ai:\n  model: from-file\nsources:\n  github:\n    user: from-file\n"))
	require.NoError(t, err)

	assert.Equal(t, "llama3", cfg.AI.Model)
	assert.False(t, cfg.AIEnabled())
	assert.Equal(t, "from-env", cfg.Sources.GitHub.User)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"CURATOR_STORE":                 "redis",
		"CURATOR_REDIS_ADDR":            "10.0.0.5:6380",
		"CURATOR_REDIS_CONNECT_TIMEOUT": "750ms",
		"CURATOR_DB_PATH":               "",
		"CURATOR_DEVTO_USER":            "ben",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, applyEnv(cfg, lookup))

	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "10.0.0.5:6380", cfg.Store.Redis.Addr)
	assert.Equal(t, 750*time.Millisecond, cfg.Store.Redis.ConnectTimeout)
	assert.Equal(t, DefaultDBPath(), cfg.Store.Path, "empty variables are ignored")
	assert.Equal(t, "ben", cfg.Sources.DevTo.User)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "log level"},
		{"badger without path", func(c *Config) { c.Store.Path = "" }, "store.path"},
		{"redis without addr", func(c *Config) {
			c.Store.Backend = BackendRedis
			c.Store.Redis.Addr = ""
		}, "store.redis.addr"},
		{"ai without model", func(c *Config) { c.AI.Model = "" }, "Model"},
		{"negative min words", func(c *Config) { c.Sources.DevTo.MinWords = -1 }, "min_words"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	t.Run("ai settings are ignored when disabled", func(t *testing.T) {
		cfg := Default()
		cfg.AI.Disabled = true
		cfg.AI.Model = ""
		assert.NoError(t, cfg.Validate())
	})
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	level, err = ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	_, err = ParseLevel("verbose")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
