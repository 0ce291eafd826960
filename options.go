package graft

import (
	"log/slog"
)

type injectorConfig struct {
	logger    *slog.Logger
	onResolve []ResolveHook
	onStart   []StartHook
	onStop    []StopHook
}

// Option configures an Injector at construction.
type Option func(*injectorConfig)

// WithLogger sets the structured logger used for debug output. Defaults to
// slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(ic *injectorConfig) {
		if logger != nil {
			ic.logger = logger
		}
	}
}

// WithResolveObserver registers a hook invoked after every key resolution.
func WithResolveObserver(hook ResolveHook) Option {
	return func(ic *injectorConfig) {
		if hook != nil {
			ic.onResolve = append(ic.onResolve, hook)
		}
	}
}

// WithStartObserver registers a hook invoked after each service start.
func WithStartObserver(hook StartHook) Option {
	return func(ic *injectorConfig) {
		if hook != nil {
			ic.onStart = append(ic.onStart, hook)
		}
	}
}

// WithStopObserver registers a hook invoked after each service stop.
func WithStopObserver(hook StopHook) Option {
	return func(ic *injectorConfig) {
		if hook != nil {
			ic.onStop = append(ic.onStop, hook)
		}
	}
}
