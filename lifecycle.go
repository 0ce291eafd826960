package graft

import (
	"context"
	"errors"
	"reflect"
	"time"
)

// Starter is implemented by services that need startup work after
// construction.
type Starter interface {
	Start(ctx context.Context) error
}

// Stopper is implemented by services that hold resources to release on
// shutdown.
type Stopper interface {
	Stop(ctx context.Context) error
}

// Start runs Start on every cached service implementing Starter, in
// creation order. Resolve the graph first; Start does not build anything.
// The first failure stops the walk. An instance cached under several keys
// starts once.
func (in *Injector) Start(ctx context.Context) error {
	seen := make(map[any]struct{})
	for _, rec := range in.creationOrder() {
		s, ok := rec.instance.(Starter)
		if !ok {
			continue
		}
		if trackable(rec.instance) {
			if _, dup := seen[rec.instance]; dup {
				continue
			}
			seen[rec.instance] = struct{}{}
		}

		begin := time.Now()
		err := s.Start(ctx)
		in.observeStart(rec.key, time.Since(begin), err)
		if err != nil {
			return errStartupFailed(rec.key.String(), err)
		}
		in.logger.Debug("started", "key", rec.key.String(), "duration", time.Since(begin))
	}
	return nil
}

// Close runs Stop on every cached service implementing Stopper, in reverse
// creation order so dependents shut down before their dependencies. All
// stops are attempted; failures are joined.
func (in *Injector) Close(ctx context.Context) error {
	recs := in.creationOrder()

	var errs []error
	seen := make(map[any]struct{})
	for i := len(recs) - 1; i >= 0; i-- {
		rec := recs[i]
		s, ok := rec.instance.(Stopper)
		if !ok {
			continue
		}
		if trackable(rec.instance) {
			if _, dup := seen[rec.instance]; dup {
				continue
			}
			seen[rec.instance] = struct{}{}
		}

		begin := time.Now()
		err := s.Stop(ctx)
		in.observeStop(rec.key, time.Since(begin), err)
		if err != nil {
			errs = append(errs, errShutdownFailed(rec.key.String(), err))
			continue
		}
		in.logger.Debug("stopped", "key", rec.key.String(), "duration", time.Since(begin))
	}
	return errors.Join(errs...)
}

// trackable reports whether an instance can be used as a map key for
// shutdown deduplication.
func trackable(v any) bool {
	if v == nil {
		return false
	}
	t := reflect.TypeOf(v)
	return t != nil && t.Comparable()
}
