package grid

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/lazygrid/internal/schedule"
)

// defaultIdlePoll is how often the program scheduler checks for an idle
// window.
const defaultIdlePoll = 16 * time.Millisecond

type turnMsg struct{ token schedule.Token }

type idlePollMsg struct{ token schedule.Token }

type idleDeadlineMsg struct{ token schedule.Token }

// teaScheduler runs deferred work as bubbletea messages, so every task
// executes inside Update on the program goroutine. Next-turn work is a
// command that returns immediately; idle work is granted by a tick poll
// once no next-turn work is outstanding, or by a tick at its ceiling.
//
// Commands cannot be withdrawn once issued. A cancelled task's message is
// dropped when it arrives.
type teaScheduler struct {
	poll  time.Duration
	next  schedule.Token
	turns map[schedule.Token]*schedule.Job
	idle  map[schedule.Token]*schedule.Job
	cmds  []tea.Cmd
}

func newTeaScheduler(poll time.Duration) *teaScheduler {
	if poll <= 0 {
		poll = defaultIdlePoll
	}
	return &teaScheduler{
		poll:  poll,
		turns: make(map[schedule.Token]*schedule.Job),
		idle:  make(map[schedule.Token]*schedule.Job),
	}
}

// NextTurn implements schedule.Scheduler.
func (s *teaScheduler) NextTurn(fn func()) (schedule.Task, error) {
	s.next++
	token := s.next
	j := schedule.NewJob(token, fn)
	j.OnCancel(func() { delete(s.turns, token) })
	s.turns[token] = j
	s.cmds = append(s.cmds, func() tea.Msg { return turnMsg{token: token} })
	return j.Task(), nil
}

// RequestIdle implements schedule.Scheduler.
func (s *teaScheduler) RequestIdle(fn func(), timeout time.Duration) (schedule.Task, error) {
	s.next++
	token := s.next
	j := schedule.NewJob(token, fn)
	j.OnCancel(func() { delete(s.idle, token) })
	s.idle[token] = j
	s.cmds = append(s.cmds,
		s.pollCmd(token),
		tea.Tick(timeout, func(time.Time) tea.Msg { return idleDeadlineMsg{token: token} }),
	)
	return j.Task(), nil
}

func (s *teaScheduler) pollCmd(token schedule.Token) tea.Cmd {
	return tea.Tick(s.poll, func(time.Time) tea.Msg { return idlePollMsg{token: token} })
}

// Handle runs the task a scheduler message refers to. It reports whether msg
// belonged to the scheduler.
func (s *teaScheduler) Handle(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case turnMsg:
		if j, ok := s.turns[msg.token]; ok {
			delete(s.turns, msg.token)
			j.Run()
		}
	case idlePollMsg:
		j, ok := s.idle[msg.token]
		if !ok {
			return true
		}
		if len(s.turns) > 0 {
			s.cmds = append(s.cmds, s.pollCmd(msg.token))
			return true
		}
		delete(s.idle, msg.token)
		j.Run()
	case idleDeadlineMsg:
		if j, ok := s.idle[msg.token]; ok {
			delete(s.idle, msg.token)
			j.Run()
		}
	default:
		return false
	}
	return true
}

// Cmd drains the commands issued since the last call.
func (s *teaScheduler) Cmd() tea.Cmd {
	if len(s.cmds) == 0 {
		return nil
	}
	cmds := s.cmds
	s.cmds = nil
	return tea.Batch(cmds...)
}

// Pending returns the number of tasks waiting to run.
func (s *teaScheduler) Pending() int {
	return len(s.turns) + len(s.idle)
}
