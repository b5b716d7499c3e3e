package grid

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeaScheduler_NextTurn(t *testing.T) {
	s := newTeaScheduler(0)
	ran := 0

	task, err := s.NextTurn(func() { ran++ })
	require.NoError(t, err)
	assert.Zero(t, ran, "never runs synchronously")

	cmd := s.Cmd()
	require.NotNil(t, cmd)
	assert.Nil(t, s.Cmd(), "commands are drained once")

	assert.True(t, s.Handle(turnMsg{token: task.Token()}))
	assert.Equal(t, 1, ran)
	assert.False(t, task.Pending())

	assert.True(t, s.Handle(turnMsg{token: task.Token()}))
	assert.Equal(t, 1, ran, "a task runs at most once")
	assert.False(t, s.Handle(tea.KeyMsg{}))
}

func TestTeaScheduler_CancelledTurnIsDropped(t *testing.T) {
	s := newTeaScheduler(0)
	ran := false

	task, err := s.NextTurn(func() { ran = true })
	require.NoError(t, err)
	assert.True(t, task.Cancel())
	assert.Zero(t, s.Pending())

	s.Handle(turnMsg{token: task.Token()})
	assert.False(t, ran)
}

func TestTeaScheduler_IdleWaitsForTurns(t *testing.T) {
	s := newTeaScheduler(time.Millisecond)
	idle := false

	idleTask, err := s.RequestIdle(func() { idle = true }, time.Second)
	require.NoError(t, err)
	turnTask, err := s.NextTurn(func() {})
	require.NoError(t, err)
	s.Cmd()

	s.Handle(idlePollMsg{token: idleTask.Token()})
	assert.False(t, idle, "idle is not granted while a turn is outstanding")
	assert.NotNil(t, s.Cmd(), "poll is re-armed")

	s.Handle(turnMsg{token: turnTask.Token()})
	s.Handle(idlePollMsg{token: idleTask.Token()})
	assert.True(t, idle)
	assert.Zero(t, s.Pending())
}

func TestTeaScheduler_IdleCeiling(t *testing.T) {
	s := newTeaScheduler(time.Millisecond)
	runs := 0

	task, err := s.RequestIdle(func() { runs++ }, 50*time.Millisecond)
	require.NoError(t, err)
	_, err = s.NextTurn(func() {})
	require.NoError(t, err)

	s.Handle(idleDeadlineMsg{token: task.Token()})
	assert.Equal(t, 1, runs, "ceiling fires even with turns outstanding")

	s.Handle(idlePollMsg{token: task.Token()})
	assert.Equal(t, 1, runs)
}

func TestTeaScheduler_CancelledIdleIsDropped(t *testing.T) {
	s := newTeaScheduler(time.Millisecond)
	ran := false

	task, err := s.RequestIdle(func() { ran = true }, time.Second)
	require.NoError(t, err)
	task.Cancel()

	s.Handle(idlePollMsg{token: task.Token()})
	s.Handle(idleDeadlineMsg{token: task.Token()})
	assert.False(t, ran)
	assert.Zero(t, s.Pending())
}

func TestTeaScheduler_TurnCommandDeliversMessage(t *testing.T) {
	s := newTeaScheduler(0)
	task, err := s.NextTurn(func() {})
	require.NoError(t, err)

	msg := s.Cmd()()
	if batch, ok := msg.(tea.BatchMsg); ok {
		require.Len(t, batch, 1)
		msg = batch[0]()
	}
	assert.Equal(t, turnMsg{token: task.Token()}, msg)
}
