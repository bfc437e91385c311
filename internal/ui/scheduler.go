// Package ui holds the presentation-side plumbing of the storefront core:
// cancellable deferred tasks, the add-to-cart guard and the event bus.
// Nothing here gates the correctness of cart data.
package ui

import (
	"sync"
	"time"
)

type task struct {
	timer *time.Timer
	seq   uint64
}

// Scheduler runs keyed deferred callbacks. Scheduling a key that is already
// pending replaces the earlier task. After Dispose no callback runs.
type Scheduler struct {
	mu       sync.Mutex
	tasks    map[string]task
	seq      uint64
	disposed bool
}

func NewScheduler() *Scheduler {
	return &Scheduler{tasks: make(map[string]task)}
}

func (s *Scheduler) After(key string, d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return
	}

	if old, ok := s.tasks[key]; ok {
		old.timer.Stop()
	}

	s.seq++
	seq := s.seq

	s.tasks[key] = task{
		seq: seq,
		timer: time.AfterFunc(d, func() {
			s.mu.Lock()
			current, ok := s.tasks[key]
			if s.disposed || !ok || current.seq != seq {
				s.mu.Unlock()
				return
			}
			delete(s.tasks, key)
			s.mu.Unlock()

			fn()
		}),
	}
}

// Cancel stops a pending task; reports whether one was pending.
func (s *Scheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[key]
	if !ok {
		return false
	}

	t.timer.Stop()
	delete(s.tasks, key)

	return true
}

func (s *Scheduler) Pending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.tasks[key]
	return ok
}

// Dispose cancels every pending task and refuses new ones.
func (s *Scheduler) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, t := range s.tasks {
		t.timer.Stop()
		delete(s.tasks, key)
	}
	s.disposed = true
}
