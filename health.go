package graft

import (
	"context"
	"sync"
)

// HealthChecker is implemented by services that can report their health.
type HealthChecker interface {
	CheckHealth(ctx context.Context) error
}

// CheckHealth runs every cached service's health check concurrently and
// returns a result per key. A nil map value means healthy. Services not
// implementing HealthChecker are not listed.
func (in *Injector) CheckHealth(ctx context.Context) map[string]error {
	recs := in.creationOrder()

	results := make(map[string]error)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, rec := range recs {
		hc, ok := rec.instance.(HealthChecker)
		if !ok {
			continue
		}

		wg.Add(1)
		go func(key string, hc HealthChecker) {
			defer wg.Done()

			err := hc.CheckHealth(ctx)
			if err != nil {
				err = newError(ErrCodeHealthCheckFailed, "health check failed", err).WithKey(key)
			}

			mu.Lock()
			results[key] = err
			mu.Unlock()
		}(rec.key.String(), hc)
	}

	wg.Wait()
	return results
}

// Healthy reports whether every health-checkable cached service passed.
func (in *Injector) Healthy(ctx context.Context) bool {
	for _, err := range in.CheckHealth(ctx) {
		if err != nil {
			return false
		}
	}
	return true
}
