package clock

import (
	"sort"
	"sync"
	"time"
)

// Synthetic is a manually driven clock. Time only moves when Advance is
// called; sleepers block until the clock passes their deadline. Safe for
// concurrent use.
type Synthetic struct {
	mu       sync.Mutex
	now      time.Time
	sleepers []sleeper
}

type sleeper struct {
	deadline time.Time
	wake     chan struct{}
}

// NewSynthetic returns a synthetic clock starting at start.
func NewSynthetic(start time.Time) *Synthetic {
	return &Synthetic{now: start}
}

func (s *Synthetic) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *Synthetic) Since(t time.Time) time.Duration {
	return s.Now().Sub(t)
}

// Sleep blocks until the clock has advanced by at least d. A non-positive
// duration returns immediately.
func (s *Synthetic) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}

	s.mu.Lock()
	sl := sleeper{deadline: s.now.Add(d), wake: make(chan struct{})}
	s.sleepers = append(s.sleepers, sl)
	s.mu.Unlock()

	<-sl.wake
}

// Advance moves the clock forward by d and wakes every sleeper whose
// deadline has passed.
func (s *Synthetic) Advance(d time.Duration) {
	s.mu.Lock()
	s.now = s.now.Add(d)

	remaining := s.sleepers[:0]
	var wake []chan struct{}
	for _, sl := range s.sleepers {
		if !sl.deadline.After(s.now) {
			wake = append(wake, sl.wake)
			continue
		}
		remaining = append(remaining, sl)
	}
	s.sleepers = remaining
	s.mu.Unlock()

	for _, ch := range wake {
		close(ch)
	}
}

// Sleepers reports how many goroutines are blocked in Sleep, soonest
// deadline first. Mostly useful when coordinating test steps.
func (s *Synthetic) Sleepers() []time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]time.Time, len(s.sleepers))
	for i, sl := range s.sleepers {
		out[i] = sl.deadline
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
