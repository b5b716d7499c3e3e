package sim

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/lazygrid/internal/adapter"
	"github.com/rshade/lazygrid/internal/dom"
	"github.com/rshade/lazygrid/internal/host"
	"github.com/rshade/lazygrid/internal/schedule"
	"github.com/rshade/lazygrid/internal/view"
	"github.com/rshade/lazygrid/internal/widgets"
)

func TestRun_NoLeaks(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := Run(ctx, Config{
		Cells:         30,
		InteractEvery: 4,
		Recycles:      2,
		Churn:         10,
		Options:       &adapter.Options{IdleTimeout: 20 * time.Millisecond},
		IdlePoll:      time.Millisecond,
	}, widgets.ValueInputType)
	require.NoError(t, err)

	assert.Equal(t, 3*30+10, res.Initialized)
	assert.Equal(t, 3*8, res.Interacted, "cells 0,4,...,28 per pass")
	assert.Equal(t, int64(res.Interacted), res.Created, "one component per hovered cell")
	assert.Equal(t, res.Created, res.Released)
	assert.Zero(t, res.Live)
	assert.Zero(t, res.Views)
	assert.Zero(t, res.Listeners)
	assert.Zero(t, res.PendingTurns)
	assert.True(t, res.Clean())
	assert.Positive(t, res.Elapsed)
}

func TestRun_CustomActivation(t *testing.T) {
	tests := []struct {
		name   string
		events []string
	}{
		{name: "click", events: []string{dom.EventClick}},
		{name: "focus only", events: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			res, err := Run(ctx, Config{
				Cells:         9,
				InteractEvery: 3,
				Recycles:      1,
				Churn:         4,
				Options:       &adapter.Options{ActivationEvents: tt.events, IdleTimeout: 10 * time.Millisecond},
				IdlePoll:      time.Millisecond,
			}, widgets.ValueInputType)
			require.NoError(t, err)
			assert.Equal(t, 2*3, res.Interacted)
			assert.Equal(t, int64(res.Interacted), res.Created)
			assert.Zero(t, res.Listeners)
			assert.True(t, res.Clean())
		})
	}
}

func TestLeakedListeners(t *testing.T) {
	sched := schedule.NewManual()
	mgr := host.NewManager(view.NewApp(zerolog.Nop()))
	events := []string{dom.EventMouseOver, dom.EventClick}

	newArmed := func() trackedCell {
		focus := dom.NewElement("td")
		a := adapter.New(sched)
		require.NoError(t, a.Init(context.Background(), &adapter.CellParams{
			Value:       1,
			Component:   widgets.ValueInputType,
			Options:     &adapter.Options{ActivationEvents: events},
			FocusTarget: focus,
			Host:        mgr,
		}))
		return trackedCell{adapter: a, focus: focus}
	}

	live := newArmed()
	destroyed := newArmed()
	sched.FlushIdle()
	destroyed.adapter.Destroy(context.Background())

	assert.Zero(t, leakedListeners([]trackedCell{destroyed}, events))
	assert.Equal(t, len(events)+1, leakedListeners([]trackedCell{live, destroyed}, events),
		"every activation listener and the focus listener of a live cell count")
	assert.Equal(t, 2, leakedListeners([]trackedCell{live}, []string{dom.EventClick}),
		"a non-default activation listener and the focus listener are seen")
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, Config{Cells: 5}, widgets.ValueInputType)
	require.Error(t, err)
}

func TestRun_PromotionTimeout(t *testing.T) {
	broken := &view.Type{Name: "broken"}

	_, err := Run(context.Background(), Config{
		Cells:       3,
		Recycles:    0,
		WaitTimeout: 200 * time.Millisecond,
		Options:     &adapter.Options{IdleTimeout: 10 * time.Millisecond},
	}, broken)
	require.ErrorIs(t, err, ErrTimeout)
}

func TestResult_Clean(t *testing.T) {
	assert.True(t, Result{Interacted: 2, Created: 2, Released: 2}.Clean())
	assert.False(t, Result{Interacted: 2, Created: 2, Released: 1, Live: 1}.Clean())
	assert.False(t, Result{Interacted: 2, Created: 3, Released: 3}.Clean())
	assert.False(t, Result{Listeners: 1}.Clean())
}
