// Package schedule defines the deferred-execution channels used by cell
// renderers: an idle channel bounded by a timeout ceiling, and a next-turn
// channel. Every piece of scheduled work is represented by a Task that can be
// cancelled whether or not it has already run.
package schedule

import (
	"errors"
	"sync/atomic"
	"time"
)

// ErrStopped is returned when work is scheduled on a stopped scheduler.
var ErrStopped = errors.New("scheduler stopped")

// Scheduler schedules deferred work.
type Scheduler interface {
	// RequestIdle runs fn during the next idle window, or once timeout has
	// elapsed if no idle window was granted first.
	RequestIdle(fn func(), timeout time.Duration) (Task, error)
	// NextTurn runs fn on the following turn, never synchronously.
	NextTurn(fn func()) (Task, error)
}

// Token identifies a scheduled job within its scheduler.
type Token uint64

const (
	statusPending int32 = iota
	statusFired
	statusCanceled
)

// Job is the scheduler-side record of a task. Scheduler implementations
// create one per request and call Run when the work becomes due.
type Job struct {
	token    Token
	fn       func()
	onCancel func()
	status   atomic.Int32
}

// NewJob returns a pending job.
func NewJob(token Token, fn func()) *Job {
	return &Job{token: token, fn: fn}
}

// OnCancel registers f to release scheduler resources when the job is
// cancelled before it runs.
func (j *Job) OnCancel(f func()) { j.onCancel = f }

// Run executes the job unless it already ran or was cancelled. It reports
// whether fn was invoked.
func (j *Job) Run() bool {
	if !j.status.CompareAndSwap(statusPending, statusFired) {
		return false
	}
	if j.fn != nil {
		j.fn()
	}
	return true
}

// Pending reports whether the job has neither run nor been cancelled.
func (j *Job) Pending() bool { return j.status.Load() == statusPending }

// Task returns the caller-facing handle for the job.
func (j *Job) Task() Task { return Task{job: j} }

func (j *Job) cancel() bool {
	if !j.status.CompareAndSwap(statusPending, statusCanceled) {
		return false
	}
	if j.onCancel != nil {
		j.onCancel()
	}
	return true
}

// Task is a cancelable handle to scheduled work. The zero Task is valid and
// behaves as work that was never scheduled.
type Task struct {
	job *Job
}

// Token returns the task's token, or 0 for the zero Task.
func (t Task) Token() Token {
	if t.job == nil {
		return 0
	}
	return t.job.token
}

// Pending reports whether the work is still due to run.
func (t Task) Pending() bool {
	return t.job != nil && t.job.Pending()
}

// Cancel prevents the work from running. It is idempotent and safe to call
// after the work ran; it reports whether this call prevented the run.
func (t Task) Cancel() bool {
	if t.job == nil {
		return false
	}
	return t.job.cancel()
}
