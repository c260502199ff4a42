package worker

import (
	"github.com/pedrohgl18/elox/pkg/logger"
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

// WithObserver registers a callback run after every event, applied or failed.
func WithObserver(fn func(e Event, created bool, err error)) Option {
	return func(w *InMemoryWorker) {
		w.observer = fn
	}
}
