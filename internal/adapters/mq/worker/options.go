// Package worker runs scoring jobs from the queue and delivers results.
package worker

import (
	"github.com/okian/triage/pkg/logger"
)

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(logger logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithHooks registers callbacks around each job. Either may be nil.
func WithHooks(onStart, onDone func()) Option {
	return func(w *InMemoryWorker) {
		w.onStart = onStart
		w.onDone = onDone
	}
}
