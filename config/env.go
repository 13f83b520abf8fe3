package config

import (
	"fmt"
	"strconv"
	"time"
)

// lookupFunc matches os.LookupEnv.
type lookupFunc func(key string) (string, bool)

// applyEnv overlays CURATOR_* variables on cfg. Unset and empty variables
// leave the current value alone.
func applyEnv(cfg *Config, lookup lookupFunc) error {
	e := envReader{lookup: lookup}

	e.str("CURATOR_LOG_LEVEL", &cfg.LogLevel)

	e.str("CURATOR_STORE", &cfg.Store.Backend)
	e.str("CURATOR_DB_PATH", &cfg.Store.Path)
	e.str("CURATOR_REDIS_ADDR", &cfg.Store.Redis.Addr)
	e.str("CURATOR_REDIS_USERNAME", &cfg.Store.Redis.User)
	e.str("CURATOR_REDIS_PASSWORD", &cfg.Store.Redis.Password)
	e.integer("CURATOR_REDIS_DB", &cfg.Store.Redis.DB)
	e.str("CURATOR_REDIS_PREFIX", &cfg.Store.Redis.Prefix)
	e.duration("CURATOR_REDIS_CONNECT_TIMEOUT", &cfg.Store.Redis.ConnectTimeout)

	e.boolean("CURATOR_NO_AI", &cfg.AI.Disabled)
	e.str("CURATOR_AI_HOST", &cfg.AI.Host)
	e.str("CURATOR_AI_MODEL", &cfg.AI.Model)
	e.str("CURATOR_AI_TOKEN", &cfg.AI.Token)
	e.integer("CURATOR_AI_MAX_INPUT_CHARS", &cfg.AI.MaxInputChars)

	e.str("CURATOR_GITHUB_USER", &cfg.Sources.GitHub.User)
	e.str("CURATOR_GITHUB_TOKEN", &cfg.Sources.GitHub.Token)
	e.str("CURATOR_FEED_USER", &cfg.Sources.Feed.User)
	e.str("CURATOR_ARCHIVE", &cfg.Sources.Archive.Path)
	e.str("CURATOR_DEVTO_USER", &cfg.Sources.DevTo.User)
	e.str("CURATOR_MANUAL", &cfg.Sources.Manual.Path)

	return e.err
}

// envReader keeps the first parse error so callers can read every
// variable and check once.
type envReader struct {
	lookup lookupFunc
	err    error
}

func (e *envReader) get(key string) (string, bool) {
	v, ok := e.lookup(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (e *envReader) fail(key, value string, err error) {
	if e.err == nil {
		e.err = fmt.Errorf("%w: %s=%q: %w", ErrInvalidConfig, key, value, err)
	}
}

func (e *envReader) str(key string, dst *string) {
	if v, ok := e.get(key); ok {
		*dst = v
	}
}

func (e *envReader) integer(key string, dst *int) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(key, v, err)
		return
	}
	*dst = n
}

func (e *envReader) boolean(key string, dst *bool) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.fail(key, v, err)
		return
	}
	*dst = b
}

func (e *envReader) duration(key string, dst *time.Duration) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(key, v, err)
		return
	}
	*dst = d
}
