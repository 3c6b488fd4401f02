package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Manual is a virtual-time scheduler. Jobs only run inside Advance, on
// the calling goroutine, in due-time order.
type Manual struct {
	mu      sync.Mutex
	now     time.Time
	seq     int
	jobs    map[int]*manualJob
	stopped bool
}

type manualJob struct {
	id       int
	next     time.Time
	interval time.Duration
	fn       func()
}

// NewManual starts the virtual clock at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start, jobs: make(map[int]*manualJob)}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) Every(name string, interval time.Duration, job func()) (Cancel, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("scheduler: job %s: interval must be positive", name)
	}
	return m.add(interval, interval, job), nil
}

func (m *Manual) After(d time.Duration, job func()) Cancel {
	return m.add(d, 0, job)
}

func (m *Manual) add(delay, interval time.Duration, fn func()) Cancel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	id := m.seq
	m.jobs[id] = &manualJob{id: id, next: m.now.Add(delay), interval: interval, fn: fn}
	return func() {
		m.mu.Lock()
		delete(m.jobs, id)
		m.mu.Unlock()
	}
}

func (m *Manual) Start() {}

// Stop drops every pending job.
func (m *Manual) Stop(context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
	m.jobs = make(map[int]*manualJob)
}

// Pending returns the number of scheduled jobs.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.jobs)
}

// Advance moves the clock forward by d, firing every job that falls due.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		job := m.nextDue(target)
		if job == nil {
			if target.After(m.now) {
				m.now = target
			}
			m.mu.Unlock()
			return
		}
		m.now = job.next
		if job.interval > 0 {
			job.next = job.next.Add(job.interval)
		} else {
			delete(m.jobs, job.id)
		}
		fn := job.fn
		m.mu.Unlock()

		fn()
	}
}

func (m *Manual) nextDue(target time.Time) *manualJob {
	if m.stopped {
		return nil
	}
	var best *manualJob
	for _, j := range m.jobs {
		if j.next.After(target) {
			continue
		}
		if best == nil || j.next.Before(best.next) || (j.next.Equal(best.next) && j.id < best.id) {
			best = j
		}
	}
	return best
}
