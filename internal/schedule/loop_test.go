package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/joeycumines/go-eventloop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loopTestTimeout = 2 * time.Second

// startLoop runs an event loop for the duration of the test.
func startLoop(t *testing.T) (*eventloop.Loop, *Loop) {
	t.Helper()

	loop, err := eventloop.New()
	require.NoError(t, err)
	js, err := eventloop.NewJS(loop)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = loop.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	return loop, NewLoop(js)
}

// onLoop runs fn on the loop goroutine and waits for it.
func onLoop(t *testing.T, loop *eventloop.Loop, fn func()) {
	t.Helper()
	done := make(chan struct{})
	require.NoError(t, loop.Submit(func() {
		fn()
		close(done)
	}))
	select {
	case <-done:
	case <-time.After(loopTestTimeout):
		t.Fatal("timed out waiting for loop")
	}
}

func TestLoop_NextTurn(t *testing.T) {
	loop, sched := startLoop(t)
	fired := make(chan struct{})

	onLoop(t, loop, func() {
		_, err := sched.NextTurn(func() { close(fired) })
		assert.NoError(t, err)
	})

	select {
	case <-fired:
	case <-time.After(loopTestTimeout):
		t.Fatal("next-turn work never ran")
	}
	assert.Zero(t, sched.Outstanding())
}

func TestLoop_NextTurnCancel(t *testing.T) {
	loop, sched := startLoop(t)
	ran := make(chan struct{}, 1)

	onLoop(t, loop, func() {
		task, err := sched.NextTurn(func() { ran <- struct{}{} })
		if assert.NoError(t, err) {
			assert.True(t, task.Cancel())
		}
	})
	onLoop(t, loop, func() {})

	select {
	case <-ran:
		t.Fatal("cancelled work ran")
	case <-time.After(20 * time.Millisecond):
	}
	assert.Zero(t, sched.Outstanding())
}

func TestLoop_RequestIdle(t *testing.T) {
	loop, sched := startLoop(t)
	fired := make(chan struct{})

	onLoop(t, loop, func() {
		_, err := sched.RequestIdle(func() { close(fired) }, 50*time.Millisecond)
		assert.NoError(t, err)
	})

	select {
	case <-fired:
	case <-time.After(loopTestTimeout):
		t.Fatal("idle work never ran")
	}
}

func TestLoop_RequestIdleCancel(t *testing.T) {
	loop, sched := startLoop(t)
	ran := make(chan struct{}, 1)

	onLoop(t, loop, func() {
		task, err := sched.RequestIdle(func() { ran <- struct{}{} }, 5*time.Millisecond)
		if assert.NoError(t, err) {
			assert.True(t, task.Cancel())
		}
	})

	select {
	case <-ran:
		t.Fatal("cancelled idle work ran")
	case <-time.After(30 * time.Millisecond):
	}
}

func TestToMillis(t *testing.T) {
	assert.Zero(t, toMillis(0))
	assert.Equal(t, 1, toMillis(time.Microsecond))
	assert.Equal(t, 50, toMillis(50*time.Millisecond))
}
