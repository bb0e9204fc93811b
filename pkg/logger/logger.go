// Package logger provides a simple, clean logging interface backed by zap.
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Default rotation settings for file output.
const (
	defaultMaxSizeMB  = 50
	defaultMaxBackups = 3
	defaultMaxAgeDays = 28
)

// Logger defines the logging interface.
type Logger interface {
	// Context-aware variants
	Info(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)
	Debug(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Fatal(ctx context.Context, msg string, fields ...Field)

	Named(name string) Logger
}

// Field represents a key-value pair for structured logging.
type Field struct {
	Key   string
	Value interface{}
}

// Field constructors.
func String(key, val string) Field          { return Field{Key: key, Value: val} }
func Int(key string, val int) Field         { return Field{Key: key, Value: val} }
func Float64(key string, val float64) Field { return Field{Key: key, Value: val} }
func Any(key string, val interface{}) Field { return Field{Key: key, Value: val} }
func Error(err error) Field                 { return Field{Key: "error", Value: err} }

// zapLogger implements Logger using zap.
type zapLogger struct {
	z *zap.Logger
}

func (l *zapLogger) Named(name string) Logger {
	return &zapLogger{z: l.z.Named(name)}
}

func (l *zapLogger) Info(_ context.Context, msg string, fields ...Field) {
	l.z.Info(msg, convertFields(fields)...)
}

func (l *zapLogger) Error(_ context.Context, msg string, fields ...Field) {
	l.z.Error(msg, convertFields(fields)...)
}

func (l *zapLogger) Debug(_ context.Context, msg string, fields ...Field) {
	l.z.Debug(msg, convertFields(fields)...)
}

func (l *zapLogger) Warn(_ context.Context, msg string, fields ...Field) {
	l.z.Warn(msg, convertFields(fields)...)
}

func (l *zapLogger) Fatal(_ context.Context, msg string, fields ...Field) {
	l.z.Fatal(msg, convertFields(fields)...)
}

// convertFields converts our Field type to zap fields.
func convertFields(fields []Field) []zap.Field {
	out := make([]zap.Field, len(fields))
	for i, f := range fields {
		if err, ok := f.Value.(error); ok && f.Key == "error" {
			out[i] = zap.Error(err)
			continue
		}
		out[i] = zap.Any(f.Key, f.Value)
	}
	return out
}

// Option configures Init.
type Option func(*options)

type options struct {
	out      io.Writer
	file     string
	level    string
	maxSize  int
	backups  int
	maxAge   int
	compress bool
}

// WithOutput replaces stdout as the console sink.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.out = w
		}
	}
}

// WithFile tees output into a size-rotated file.
func WithFile(path string) Option {
	return func(o *options) { o.file = strings.TrimSpace(path) }
}

// WithRotation overrides the rotation policy used by WithFile.
func WithRotation(maxSizeMB, maxBackups, maxAgeDays int, compress bool) Option {
	return func(o *options) {
		if maxSizeMB > 0 {
			o.maxSize = maxSizeMB
		}
		if maxBackups >= 0 {
			o.backups = maxBackups
		}
		if maxAgeDays >= 0 {
			o.maxAge = maxAgeDays
		}
		o.compress = compress
	}
}

// WithLevel sets the initial level (see SetLevelString).
func WithLevel(level string) Option {
	return func(o *options) { o.level = level }
}

var (
	mu     sync.RWMutex
	global Logger
	base   *zap.Logger
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// Init initializes the global logger.
func Init(opts ...Option) error {
	o := options{
		out:      os.Stdout,
		maxSize:  defaultMaxSizeMB,
		backups:  defaultMaxBackups,
		maxAge:   defaultMaxAgeDays,
		compress: true,
	}
	for _, opt := range opts {
		opt(&o)
	}

	// Default to info; can be changed with SetLevel*/SetLevelString.
	level.SetLevel(zapcore.InfoLevel)
	if err := SetLevelString(o.level); err != nil {
		return err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.CallerKey = "source"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	sink := zapcore.AddSync(o.out)
	if o.file != "" {
		sink = zapcore.NewMultiWriteSyncer(sink, zapcore.AddSync(&lumberjack.Logger{
			Filename:   o.file,
			MaxSize:    o.maxSize,
			MaxBackups: o.backups,
			MaxAge:     o.maxAge,
			Compress:   o.compress,
		}))
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), sink, level)
	z := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))

	mu.Lock()
	base = z
	global = &zapLogger{z: z}
	mu.Unlock()
	return nil
}

// Get returns the global logger.
func Get() Logger {
	mu.RLock()
	defer mu.RUnlock()
	if global == nil {
		// The logger should be explicitly initialized by the application
		panic("logger not initialized. Call logger.Init() first")
	}
	return global
}

// Named creates a named logger.
func Named(name string) Logger {
	return Get().Named(name)
}

// Sync flushes buffered log entries.
func Sync() error {
	mu.RLock()
	z := base
	mu.RUnlock()
	if z == nil {
		return nil
	}
	if err := z.Sync(); err != nil && !isIgnorableSyncError(err) {
		return fmt.Errorf("sync logger: %w", err)
	}
	return nil
}

// isIgnorableSyncError reports errors from syncing terminals and pipes,
// which do not support fsync.
func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "invalid argument") || strings.Contains(msg, "inappropriate ioctl")
}

// SetLevel updates the current logging level for the global logger.
func SetLevel(l zapcore.Level) { level.SetLevel(l) }

// Level returns the current logging level.
func Level() zapcore.Level { return level.Level() }

// SetLevelString parses and sets the logging level.
// Accepts: debug, info, warn/warning, error (case-insensitive).
func SetLevelString(lvl string) error {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		SetLevel(zapcore.DebugLevel)
	case "", "info":
		SetLevel(zapcore.InfoLevel)
	case "warn", "warning":
		SetLevel(zapcore.WarnLevel)
	case "error":
		SetLevel(zapcore.ErrorLevel)
	default:
		return fmt.Errorf("unknown log level: %s", lvl)
	}
	return nil
}
