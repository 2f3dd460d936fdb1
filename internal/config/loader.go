package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if AGROFAIR_CONFIG is set
//  3. env (prefix AGROFAIR_)
func Load(ctx context.Context) (*Config, error) {
	_ = ctx // reserved for future loaders

	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("AGROFAIR_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: AGROFAIR_ADDR, AGROFAIR_DB_PATH, ...
	// Map env keys like AGROFAIR_DB_PATH -> db_path (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("AGROFAIR_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "agrofair_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Basic validation
	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch cfg.NarrativeMode {
	case "static", "http":
	default:
		return nil, fmt.Errorf("%w: narrative_mode must be static or http", ErrInvalidConfig)
	}
	if cfg.NarrativeMode == "http" && cfg.NarrativeURL == "" {
		return nil, fmt.Errorf("%w: narrative_url is required for narrative_mode http", ErrInvalidConfig)
	}
	if cfg.PollIntervalMS <= 0 {
		return nil, fmt.Errorf("%w: poll_interval_ms must be positive", ErrInvalidConfig)
	}
	return &cfg, nil
}
