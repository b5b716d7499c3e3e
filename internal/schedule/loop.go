package schedule

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/joeycumines/go-eventloop"
	"github.com/rs/zerolog"
)

// DefaultIdlePoll is how often the loop scheduler checks for an idle window.
const DefaultIdlePoll = time.Millisecond

// LoopOption configures a Loop scheduler.
type LoopOption func(*Loop)

// WithIdlePoll sets the idle poll interval.
func WithIdlePoll(d time.Duration) LoopOption {
	return func(l *Loop) {
		if d > 0 {
			l.poll = d
		}
	}
}

// WithLogger sets the scheduler's logger.
func WithLogger(logger zerolog.Logger) LoopOption {
	return func(l *Loop) { l.log = logger }
}

// Loop is a Scheduler backed by a go-eventloop JS adapter. Next-turn work is
// queued with SetImmediate. Idle work is granted when a poll timer finds no
// next-turn work outstanding, or when its SetTimeout ceiling fires.
//
// Scheduling and cancellation must happen on the loop goroutine.
type Loop struct {
	js          *eventloop.JS
	log         zerolog.Logger
	poll        time.Duration
	next        atomic.Uint64
	outstanding atomic.Int64
}

// NewLoop returns a scheduler bound to js.
func NewLoop(js *eventloop.JS, opts ...LoopOption) *Loop {
	l := &Loop{
		js:    js,
		log:   zerolog.Nop(),
		poll:  DefaultIdlePoll,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NextTurn implements Scheduler.
func (l *Loop) NextTurn(fn func()) (Task, error) {
	j := NewJob(Token(l.next.Add(1)), fn)
	l.outstanding.Add(1)

	id, err := l.js.SetImmediate(func() {
		l.outstanding.Add(-1)
		j.Run()
	})
	if err != nil {
		l.outstanding.Add(-1)
		return Task{}, wrapLoopErr(err)
	}

	j.OnCancel(func() {
		if l.js.ClearImmediate(id) == nil {
			l.outstanding.Add(-1)
		}
	})
	return j.Task(), nil
}

// RequestIdle implements Scheduler.
func (l *Loop) RequestIdle(fn func(), timeout time.Duration) (Task, error) {
	j := NewJob(Token(l.next.Add(1)), fn)

	var pollID, ceilingID uint64

	ceilingID, err := l.js.SetTimeout(func() {
		_ = l.js.ClearTimeout(pollID)
		if j.Run() {
			l.log.Debug().Uint64("token", uint64(j.token)).Msg("idle ceiling reached")
		}
	}, toMillis(timeout))
	if err != nil {
		return Task{}, wrapLoopErr(err)
	}

	var poll func()
	poll = func() {
		if !j.Pending() {
			return
		}
		if l.outstanding.Load() > 0 {
			next, perr := l.js.SetTimeout(poll, toMillis(l.poll))
			if perr != nil {
				l.log.Warn().Err(perr).Msg("idle poll not rearmed; waiting for ceiling")
				return
			}
			pollID = next
			return
		}
		_ = l.js.ClearTimeout(ceilingID)
		j.Run()
	}

	pollID, err = l.js.SetTimeout(poll, toMillis(l.poll))
	if err != nil {
		_ = l.js.ClearTimeout(ceilingID)
		return Task{}, wrapLoopErr(err)
	}

	j.OnCancel(func() {
		_ = l.js.ClearTimeout(pollID)
		_ = l.js.ClearTimeout(ceilingID)
	})
	return j.Task(), nil
}

// Outstanding returns the number of next-turn jobs waiting to run.
func (l *Loop) Outstanding() int {
	return int(l.outstanding.Load())
}

func wrapLoopErr(err error) error {
	return errors.Join(ErrStopped, err)
}

func toMillis(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	ms := int(d / time.Millisecond)
	if ms == 0 {
		ms = 1
	}
	return ms
}
