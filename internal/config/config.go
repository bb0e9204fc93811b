// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) initializer to build a Config with defaults.
// - Load layers a YAML file, a .env file and TRIAGE_ environment variables on top.
// - Validation failures wrap ErrInvalidConfig; source failures wrap ErrLoadConfig.
package config

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFile, when set, tees logs into a rotating file.
	LogFile string `koanf:"log_file"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory batch job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of scoring workers.
	WorkerCount int `koanf:"worker_count"`

	// MaxBatchSize caps the records accepted by one batch request.
	MaxBatchSize int `koanf:"max_batch_size"`

	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// CORSAllowedOrigin is echoed in Access-Control-Allow-Origin.
	CORSAllowedOrigin string `koanf:"cors_allowed_origin"`

	// ShutdownTimeoutMS bounds graceful HTTP shutdown.
	ShutdownTimeoutMS int `koanf:"shutdown_timeout_ms"`

	// Tracing.
	TracingEnabled  bool    `koanf:"tracing_enabled"`
	OTLPEndpoint    string  `koanf:"otlp_endpoint"`
	TraceSampleRate float64 `koanf:"trace_sample_rate"`
	ServiceName     string  `koanf:"service_name"`
	Environment     string  `koanf:"environment"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		QueueSize:         10_000,
		WorkerCount:       runtime.NumCPU() * 2,
		MaxBatchSize:      100,
		MaxBodyBytes:      1 << 20,
		CORSAllowedOrigin: "*",
		ShutdownTimeoutMS: 10_000,
		OTLPEndpoint:      "localhost:4317",
		TraceSampleRate:   1.0,
		ServiceName:       "triage",
		Environment:       "development",
	}
}

// Validate checks the invariants the service relies on.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive, got %d", ErrInvalidConfig, c.QueueSize)
	case c.WorkerCount <= 0:
		return fmt.Errorf("%w: worker_count must be positive, got %d", ErrInvalidConfig, c.WorkerCount)
	case c.MaxBatchSize <= 0:
		return fmt.Errorf("%w: max_batch_size must be positive, got %d", ErrInvalidConfig, c.MaxBatchSize)
	case c.MaxBodyBytes <= 0:
		return fmt.Errorf("%w: max_body_bytes must be positive, got %d", ErrInvalidConfig, c.MaxBodyBytes)
	case c.ShutdownTimeoutMS <= 0:
		return fmt.Errorf("%w: shutdown_timeout_ms must be positive, got %d", ErrInvalidConfig, c.ShutdownTimeoutMS)
	case c.TraceSampleRate < 0 || c.TraceSampleRate > 1:
		return fmt.Errorf("%w: trace_sample_rate must be within [0,1], got %g", ErrInvalidConfig, c.TraceSampleRate)
	case c.TracingEnabled && strings.TrimSpace(c.OTLPEndpoint) == "":
		return fmt.Errorf("%w: otlp_endpoint is required when tracing is enabled", ErrInvalidConfig)
	}
	return nil
}

// ShutdownTimeout returns ShutdownTimeoutMS as a duration.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutMS) * time.Millisecond
}
