package session

import (
	"sync"
	"time"
)

// Timer is a pending callback.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type wallClock struct{}

func (wallClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// WallClock schedules on real time.
var WallClock Scheduler = wallClock{}

// Manual is a Scheduler advanced by hand, one tick per Fire.
type Manual struct {
	mu      sync.Mutex
	pending []*manualTimer
}

type manualTimer struct {
	m       *Manual
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	was := !t.stopped
	t.stopped = true
	return was
}

// AfterFunc queues f; d is ignored.
func (m *Manual) AfterFunc(_ time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTimer{m: m, f: f}
	m.pending = append(m.pending, t)
	return t
}

// Fire runs every queued callback that has not been stopped and returns
// how many ran. Callbacks queued while firing wait for the next Fire.
func (m *Manual) Fire() int {
	m.mu.Lock()
	queued := m.pending
	m.pending = nil
	m.mu.Unlock()

	n := 0
	for _, t := range queued {
		m.mu.Lock()
		live := !t.stopped
		t.stopped = true
		m.mu.Unlock()
		if live {
			t.f()
			n++
		}
	}
	return n
}

// Pending counts queued callbacks that have not been stopped.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.pending {
		if !t.stopped {
			n++
		}
	}
	return n
}
