package app

import "time"

// CancelFunc stops a pending callback. Calling it after the callback has
// fired is a no-op.
type CancelFunc func()

// Scheduler abstracts one-shot delayed callbacks so tests can drive the
// countdown and auto-advance by hand. The session owns at most one live
// handle per purpose and cancels-and-replaces on every transition.
type Scheduler interface {
	ScheduleOnce(d time.Duration, fn func()) CancelFunc
}

// TimerScheduler schedules callbacks on the runtime timer heap.
type TimerScheduler struct{}

func (TimerScheduler) ScheduleOnce(d time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// ManualScheduler queues callbacks and fires them only when told to. It is
// exported for tests in other packages that need deterministic time.
type ManualScheduler struct {
	pending []*manualEntry
}

type manualEntry struct {
	fn        func()
	cancelled bool
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (m *ManualScheduler) ScheduleOnce(_ time.Duration, fn func()) CancelFunc {
	entry := &manualEntry{fn: fn}
	m.pending = append(m.pending, entry)
	return func() { entry.cancelled = true }
}

// Fire runs all currently pending callbacks. Callbacks scheduled while
// firing wait for the next call, mirroring timer-heap behavior.
func (m *ManualScheduler) Fire() int {
	batch := m.pending
	m.pending = nil
	fired := 0
	for _, entry := range batch {
		if entry.cancelled {
			continue
		}
		entry.fn()
		fired++
	}
	return fired
}

// PendingCount reports how many uncancelled callbacks are queued.
func (m *ManualScheduler) PendingCount() int {
	n := 0
	for _, entry := range m.pending {
		if !entry.cancelled {
			n++
		}
	}
	return n
}
