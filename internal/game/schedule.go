package game

import (
	"sort"
	"time"
)

// Scheduler runs deferred callbacks from the frame loop. Everything fires on
// the thread that calls Update, so scheduled work needs no locking. Clear
// invalidates all pending timers (teardown, explicit reset).
type Scheduler struct {
	now    time.Time
	timers []timer
}

type timer struct {
	at time.Time
	fn func()
}

// NewScheduler returns a scheduler anchored at now.
func NewScheduler(now time.Time) *Scheduler {
	return &Scheduler{now: now}
}

// After schedules fn to fire d after now. now should be the caller's current
// frame time; the scheduler does not read the wall clock itself.
func (s *Scheduler) After(now time.Time, d time.Duration, fn func()) {
	s.timers = append(s.timers, timer{at: now.Add(d), fn: fn})
}

// Update fires every timer due at or before now, in due order. Callbacks may
// schedule further timers; those fire on a later Update even if already due,
// which keeps the firing order easy to reason about.
func (s *Scheduler) Update(now time.Time) {
	s.now = now
	if len(s.timers) == 0 {
		return
	}
	sort.SliceStable(s.timers, func(i, j int) bool {
		return s.timers[i].at.Before(s.timers[j].at)
	})
	due := 0
	for due < len(s.timers) && !s.timers[due].at.After(now) {
		due++
	}
	if due == 0 {
		return
	}
	firing := s.timers[:due]
	s.timers = append([]timer(nil), s.timers[due:]...)
	for _, tm := range firing {
		tm.fn()
	}
}

// Pending returns how many timers are waiting to fire.
func (s *Scheduler) Pending() int {
	return len(s.timers)
}

// Clear drops all pending timers without firing them.
func (s *Scheduler) Clear() {
	s.timers = nil
}
