package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/poiesic/curator/ai"
	"github.com/poiesic/curator/connector/devto"
	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	BackendBadger = "badger"
	BackendRedis  = "redis"
)

type RedisConfig struct {
	Addr           string        `yaml:"addr"`
	User           string        `yaml:"user,omitempty"`
	Password       string        `yaml:"password,omitempty"`
	DB             int           `yaml:"db"`
	Prefix         string        `yaml:"prefix"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

type StoreConfig struct {
	Backend string      `yaml:"backend"` // "badger" or "redis"
	Path    string      `yaml:"path"`
	Redis   RedisConfig `yaml:"redis"`
}

type AIConfig struct {
	Disabled        bool    `yaml:"disabled"`
	Host            string  `yaml:"host"`
	Model           string  `yaml:"model"`
	Token           string  `yaml:"token,omitempty"`
	MaxInputChars   int     `yaml:"max_input_chars"`
	MaxOutputTokens int     `yaml:"max_output_tokens"`
	Temperature     float64 `yaml:"temperature"`
}

type GitHubSource struct {
	User    string `yaml:"user"`
	Token   string `yaml:"token,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
}

type FeedSource struct {
	User        string `yaml:"user"`
	URLTemplate string `yaml:"url_template,omitempty"`
	Platform    string `yaml:"platform,omitempty"`
}

type ArchiveSource struct {
	Path string `yaml:"path"`
}

type DevToSource struct {
	User     string `yaml:"user"`
	MinWords int    `yaml:"min_words"`
	Workers  int    `yaml:"workers"`
}

type ManualSource struct {
	Path string `yaml:"path"`
}

// Sources selects the sources of a run. A source with an empty user or
// path is not run.
type Sources struct {
	GitHub  GitHubSource  `yaml:"github"`
	Feed    FeedSource    `yaml:"feed"`
	Archive ArchiveSource `yaml:"archive"`
	DevTo   DevToSource   `yaml:"devto"`
	Manual  ManualSource  `yaml:"manual"`
}

type Config struct {
	LogLevel string      `yaml:"log_level"`
	Store    StoreConfig `yaml:"store"`
	AI       AIConfig    `yaml:"ai"`
	Sources  Sources     `yaml:"sources"`
}

// DefaultConfigPath is where Load looks when no path is given.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "curator", "config.yaml")
}

// DefaultDBPath is the default location of the embedded store.
func DefaultDBPath() string {
	return filepath.Join(xdg.DataHome, "curator", "curator.db")
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	aiDefaults := ai.DefaultConfig()
	return &Config{
		LogLevel: "info",
		Store: StoreConfig{
			Backend: BackendBadger,
			Path:    DefaultDBPath(),
			Redis: RedisConfig{
				Addr:           "localhost:6379",
				Prefix:         "curator",
				ConnectTimeout: 30 * time.Second,
			},
		},
		AI: AIConfig{
			Host:            aiDefaults.Host,
			Model:           aiDefaults.Model,
			Token:           aiDefaults.Token,
			MaxInputChars:   aiDefaults.MaxInputChars,
			MaxOutputTokens: aiDefaults.MaxOutputTokens,
			Temperature:     aiDefaults.Temperature,
		},
		Sources: Sources{
			DevTo: DevToSource{MinWords: devto.DefaultMinWords, Workers: devto.DefaultWorkers},
		},
	}
}

// Load reads the YAML file at path over the defaults, applies CURATOR_*
// environment overrides and validates the result. An empty path reads
// DefaultConfigPath when that file exists.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// defaults only
	default:
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values no run could use.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}

	switch c.Store.Backend {
	case BackendBadger:
		if c.Store.Path == "" {
			return fmt.Errorf("%w: store.path is required for the badger backend", ErrInvalidConfig)
		}
	case BackendRedis:
		if c.Store.Redis.Addr == "" {
			return fmt.Errorf("%w: store.redis.addr is required for the redis backend", ErrInvalidConfig)
		}
		if c.Store.Redis.ConnectTimeout <= 0 {
			return fmt.Errorf("%w: store.redis.connect_timeout must be positive", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store backend %q (valid: badger, redis)", ErrInvalidConfig, c.Store.Backend)
	}

	if !c.AI.Disabled {
		if err := c.EnricherConfig().Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}

	if c.Sources.DevTo.MinWords < 0 {
		return fmt.Errorf("%w: sources.devto.min_words must not be negative", ErrInvalidConfig)
	}
	if c.Sources.DevTo.Workers < 0 {
		return fmt.Errorf("%w: sources.devto.workers must not be negative", ErrInvalidConfig)
	}
	return nil
}

// EnricherConfig converts the ai section into an enrichment client config.
func (c *Config) EnricherConfig() *ai.Config {
	return ai.NewConfig(
		ai.WithHost(c.AI.Host),
		ai.WithModel(c.AI.Model),
		ai.WithToken(c.AI.Token),
		ai.WithMaxInputChars(c.AI.MaxInputChars),
		ai.WithMaxOutputTokens(c.AI.MaxOutputTokens),
		ai.WithTemperature(c.AI.Temperature),
	)
}

// AIEnabled reports whether enrichment should run.
func (c *Config) AIEnabled() bool {
	return !c.AI.Disabled
}

// HasSources reports whether any source is selected.
func (c *Config) HasSources() bool {
	s := c.Sources
	return s.GitHub.User != "" || s.Feed.User != "" || s.Archive.Path != "" ||
		s.DevTo.User != "" || s.Manual.Path != ""
}

// ParseLevel parses a log level name such as "debug" or "warn".
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: log level %q (valid: debug, info, warn, error)", ErrInvalidConfig, name)
	}
	return level, nil
}
