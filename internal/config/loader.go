package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment knobs read by Load itself.
const (
	EnvPrefix     = "TRIAGE_"
	EnvConfigFile = "TRIAGE_CONFIG"
	EnvDotFile    = "TRIAGE_ENV_FILE"
	defaultDotEnv = ".env"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if TRIAGE_CONFIG is set
//  3. env (prefix TRIAGE_), seeded from TRIAGE_ENV_FILE or ./.env when present;
//     variables already set in the process win over the .env file
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New(ctx)

	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: read %s: %w", ErrLoadConfig, path, err)
		}
	}

	// Environment variables: TRIAGE_ADDR, TRIAGE_QUEUE_SIZE, ...
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: environment: %w", ErrLoadConfig, err)
	}
	// TRIAGE_CONFIG and TRIAGE_ENV_FILE are loader knobs, not config keys.
	k.Delete("config")
	k.Delete("env_file")

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadDotEnv() error {
	path := os.Getenv(EnvDotFile)
	explicit := path != ""
	if !explicit {
		path = defaultDotEnv
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: env file %s: %w", ErrLoadConfig, path, err)
	}
	return nil
}
