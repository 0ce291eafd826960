package graft

import (
	"time"
)

// ResolveHook observes one key resolution, including nested ones performed
// while building dependencies. Hooks must not resolve from the injector.
type ResolveHook func(key Key, duration time.Duration, err error)

// StartHook observes one service start during Injector.Start.
type StartHook func(key Key, duration time.Duration, err error)

// StopHook observes one service stop during Injector.Close.
type StopHook func(key Key, duration time.Duration, err error)

func (in *Injector) observeResolve(key Key, d time.Duration, err error) {
	for _, hook := range in.onResolve {
		hook(key, d, err)
	}
}

func (in *Injector) observeStart(key Key, d time.Duration, err error) {
	for _, hook := range in.onStart {
		hook(key, d, err)
	}
}

func (in *Injector) observeStop(key Key, d time.Duration, err error) {
	for _, hook := range in.onStop {
		hook(key, d, err)
	}
}
