package schedule

import (
	"sync"
	"time"
)

type idleJob struct {
	*Job
	deadline time.Duration
}

// Manual is a deterministic Scheduler driven explicitly by its caller. Idle
// windows are granted by FlushIdle, turns are advanced by FlushTurn, and the
// idle ceiling is simulated with a virtual clock moved by Advance.
type Manual struct {
	mu      sync.Mutex
	next    Token
	now     time.Duration
	idle    []idleJob
	turn    []*Job
	stopped bool
}

// NewManual returns an empty manual scheduler.
func NewManual() *Manual {
	return &Manual{}
}

// RequestIdle implements Scheduler.
func (m *Manual) RequestIdle(fn func(), timeout time.Duration) (Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped {
		return Task{}, ErrStopped
	}
	m.next++
	j := NewJob(m.next, fn)
	m.idle = append(m.idle, idleJob{Job: j, deadline: m.now + timeout})
	return j.Task(), nil
}

// NextTurn implements Scheduler.
func (m *Manual) NextTurn(fn func()) (Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped {
		return Task{}, ErrStopped
	}
	m.next++
	j := NewJob(m.next, fn)
	m.turn = append(m.turn, j)
	return j.Task(), nil
}

// FlushIdle grants one idle window: every idle job queued before the call
// runs, in order. It returns the number of jobs that ran.
func (m *Manual) FlushIdle() int {
	m.mu.Lock()
	jobs := m.idle
	m.idle = nil
	m.mu.Unlock()

	ran := 0
	for _, j := range jobs {
		if j.Run() {
			ran++
		}
	}
	return ran
}

// FlushTurn advances one turn: every next-turn job queued before the call
// runs. Jobs scheduled while flushing run on the following flush.
func (m *Manual) FlushTurn() int {
	m.mu.Lock()
	jobs := m.turn
	m.turn = nil
	m.mu.Unlock()

	ran := 0
	for _, j := range jobs {
		if j.Run() {
			ran++
		}
	}
	return ran
}

// Advance moves the virtual clock forward by d and runs idle jobs whose
// timeout ceiling has been reached. It returns the number of jobs that ran.
func (m *Manual) Advance(d time.Duration) int {
	m.mu.Lock()
	m.now += d
	var due []idleJob
	kept := m.idle[:0]
	for _, j := range m.idle {
		if j.deadline <= m.now {
			due = append(due, j)
			continue
		}
		kept = append(kept, j)
	}
	m.idle = kept
	m.mu.Unlock()

	ran := 0
	for _, j := range due {
		if j.Run() {
			ran++
		}
	}
	return ran
}

// Drain alternates turns and idle windows until no pending work remains.
func (m *Manual) Drain() int {
	ran := 0
	for m.PendingTurn()+m.PendingIdle() > 0 {
		ran += m.FlushTurn()
		ran += m.FlushIdle()
	}
	return ran
}

// PendingIdle returns the number of idle jobs that have not run or been
// cancelled.
func (m *Manual) PendingIdle() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, j := range m.idle {
		if j.Pending() {
			n++
		}
	}
	return n
}

// PendingTurn returns the number of next-turn jobs that have not run or been
// cancelled.
func (m *Manual) PendingTurn() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, j := range m.turn {
		if j.Pending() {
			n++
		}
	}
	return n
}

// Stop rejects further scheduling. Queued jobs are left in place.
func (m *Manual) Stop() {
	m.mu.Lock()
	m.stopped = true
	m.mu.Unlock()
}
