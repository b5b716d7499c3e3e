// Package sim drives cell adapters headlessly on a real event loop. It
// initializes a batch of cells, hovers a fraction of them, recycles the
// batch several times and tears everything down, then reports lifecycle
// counters so leaks show up as non-zero live counts.
package sim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joeycumines/go-eventloop"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rshade/lazygrid/internal/adapter"
	"github.com/rshade/lazygrid/internal/dom"
	"github.com/rshade/lazygrid/internal/host"
	"github.com/rshade/lazygrid/internal/logging"
	"github.com/rshade/lazygrid/internal/schedule"
	"github.com/rshade/lazygrid/internal/view"
)

// ErrTimeout is returned when cells do not reach the expected state in time.
var ErrTimeout = errors.New("simulation timed out waiting for cells")

const (
	defaultCells         = 200
	defaultInteractEvery = 7
	defaultRecycles      = 3
	defaultChurn         = 50
	defaultWaitTimeout   = 10 * time.Second
	pollInterval         = 2 * time.Millisecond
)

// Config controls a simulation run. Zero fields use defaults.
type Config struct {
	// Cells is the number of cells per batch.
	Cells int
	// InteractEvery hovers every Nth cell of a batch.
	InteractEvery int
	// Recycles is the number of destroy-and-rebuild passes after the first
	// batch.
	Recycles int
	// Churn is the number of cells created and destroyed within a single
	// turn, before their listeners could attach.
	Churn int
	// Options are passed to every adapter.
	Options *adapter.Options
	// IdlePoll is the loop scheduler's idle poll interval.
	IdlePoll time.Duration
	// WaitTimeout bounds each wait for cells to settle.
	WaitTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Cells <= 0 {
		c.Cells = defaultCells
	}
	if c.InteractEvery <= 0 {
		c.InteractEvery = defaultInteractEvery
	}
	if c.Recycles < 0 {
		c.Recycles = 0
	}
	if c.Churn < 0 {
		c.Churn = 0
	}
	if c.WaitTimeout <= 0 {
		c.WaitTimeout = defaultWaitTimeout
	}
	return c
}

// Result holds the counters of a finished run.
type Result struct {
	// Initialized is the number of adapters initialized, churn included.
	Initialized int
	// Interacted is the number of cells hovered.
	Interacted int
	// Created and Released count components through the host.
	Created  int64
	Released int64
	// Live is the number of components still alive after teardown.
	Live int64
	// Views is the number of views still attached to the update cycle.
	Views int
	// Listeners is the number of activation listeners left on placeholders
	// plus focus listeners left on focus targets.
	Listeners int
	// PendingTurns is the number of next-turn tasks left on the scheduler.
	PendingTurns int
	// Elapsed is the wall time of the run.
	Elapsed time.Duration
}

// Clean reports whether the run finished without leaks.
func (r Result) Clean() bool {
	return r.Created == int64(r.Interacted) &&
		r.Released == r.Created &&
		r.Live == 0 && r.Views == 0 && r.Listeners == 0 && r.PendingTurns == 0
}

// Run executes a simulation promoting cells to components of type typ.
func Run(ctx context.Context, cfg Config, typ *view.Type) (Result, error) {
	cfg = cfg.withDefaults()
	log := logging.ComponentLogger(*logging.FromContext(ctx), "sim")
	start := time.Now()

	loop, err := eventloop.New()
	if err != nil {
		return Result{}, fmt.Errorf("creating event loop: %w", err)
	}
	js, err := eventloop.NewJS(loop)
	if err != nil {
		return Result{}, fmt.Errorf("creating event loop timers: %w", err)
	}

	app := view.NewApp(log)
	d := &driver{
		cfg:   cfg,
		typ:   typ,
		loop:  loop,
		sched: schedule.NewLoop(js, schedule.WithIdlePoll(cfg.IdlePoll), schedule.WithLogger(log)),
		app:   app,
		mgr:   host.NewManager(app),
		log:   log,
		focus: make(map[*adapter.Adapter]*dom.Node),
	}

	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		if runErr := loop.Run(gctx); runErr != nil && !errors.Is(runErr, context.Canceled) {
			return fmt.Errorf("event loop: %w", runErr)
		}
		return nil
	})
	g.Go(func() error {
		defer stop()
		cellCtx := logging.ContextWithTraceID(gctx, logging.GetOrGenerateTraceID(ctx))
		return d.run(log.WithContext(cellCtx))
	})
	if err = g.Wait(); err != nil {
		return d.result, err
	}
	if err = ctx.Err(); err != nil {
		return d.result, err
	}

	d.result.Elapsed = time.Since(start)
	log.Info().
		Int("initialized", d.result.Initialized).
		Int("interacted", d.result.Interacted).
		Int64("created", d.result.Created).
		Int64("released", d.result.Released).
		Int64("live", d.result.Live).
		Dur("elapsed", d.result.Elapsed).
		Msg("simulation finished")
	return d.result, nil
}

type driver struct {
	cfg    Config
	typ    *view.Type
	loop   *eventloop.Loop
	sched  *schedule.Loop
	app    *view.App
	mgr    *host.Manager
	log    zerolog.Logger
	cells  []*adapter.Adapter
	dead   []trackedCell
	focus  map[*adapter.Adapter]*dom.Node
	result Result
}

// trackedCell keeps a destroyed adapter together with its focus target so
// listeners left on either node can be counted.
type trackedCell struct {
	adapter *adapter.Adapter
	focus   *dom.Node
}

func (d *driver) run(ctx context.Context) error {
	for pass := 0; pass <= d.cfg.Recycles; pass++ {
		if pass > 0 {
			if err := d.do(ctx, func() { d.destroyAll(ctx) }); err != nil {
				return err
			}
		}
		if err := d.batch(ctx); err != nil {
			return fmt.Errorf("pass %d: %w", pass, err)
		}
		d.log.Debug().Int("pass", pass).Msg("batch promoted")
	}

	if err := d.do(ctx, func() { d.churn(ctx) }); err != nil {
		return err
	}
	if err := d.do(ctx, func() { d.destroyAll(ctx) }); err != nil {
		return err
	}
	return d.do(ctx, d.collect)
}

// batch initializes a full set of cells, waits for them to arm, hovers
// every Nth one and waits for those to promote.
func (d *driver) batch(ctx context.Context) error {
	if err := d.do(ctx, func() { d.initCells(ctx) }); err != nil {
		return err
	}
	if err := d.waitFor(ctx, func() bool { return d.allIn(adapter.StateArmed) }); err != nil {
		return fmt.Errorf("arming: %w", err)
	}

	var hovered []*adapter.Adapter
	if err := d.do(ctx, func() {
		for i := 0; i < len(d.cells); i += d.cfg.InteractEvery {
			a := d.cells[i]
			d.interact(a)
			d.interact(a)
			hovered = append(hovered, a)
		}
		d.app.Tick()
	}); err != nil {
		return err
	}
	d.result.Interacted += len(hovered)

	return d.waitFor(ctx, func() bool {
		for _, a := range hovered {
			if a.State() != adapter.StatePromoted {
				return false
			}
		}
		return true
	})
}

func (d *driver) initCells(ctx context.Context) {
	d.cells = make([]*adapter.Adapter, d.cfg.Cells)
	for i := range d.cells {
		d.cells[i] = d.newCell(ctx, i)
	}
}

// interact fires the first configured activation event on the placeholder,
// or focus when pointer activation is disabled.
func (d *driver) interact(a *adapter.Adapter) {
	if events := d.activationEvents(); len(events) > 0 {
		a.GUI().Dispatch(events[0])
		return
	}
	d.focus[a].Dispatch(dom.EventFocus)
}

func (d *driver) activationEvents() []string {
	return adapter.Resolve(d.cfg.Options).ActivationEvents
}

func (d *driver) newCell(ctx context.Context, row int) *adapter.Adapter {
	a := adapter.New(d.sched)
	focus := dom.NewElement("td")
	d.focus[a] = focus
	err := a.Init(ctx, &adapter.CellParams{
		Value:       row,
		Row:         row,
		Column:      "value",
		Component:   d.typ,
		Options:     d.cfg.Options,
		FocusTarget: focus,
		Host:        d.mgr,
	})
	if err != nil {
		d.log.Error().Err(err).Int("row", row).Msg("cell init failed")
	}
	d.result.Initialized++
	return a
}

// churn creates and destroys cells within one turn, so every idle request
// is cancelled before it can fire.
func (d *driver) churn(ctx context.Context) {
	for i := range d.cfg.Churn {
		a := d.newCell(ctx, i)
		a.Destroy(ctx)
		d.retire(a)
	}
}

func (d *driver) retire(a *adapter.Adapter) {
	d.dead = append(d.dead, trackedCell{adapter: a, focus: d.focus[a]})
	delete(d.focus, a)
}

func (d *driver) destroyAll(ctx context.Context) {
	for _, a := range d.cells {
		a.Destroy(ctx)
		d.retire(a)
	}
	d.cells = nil
	d.app.Tick()
}

func (d *driver) collect() {
	stats := d.mgr.Stats()
	d.result.Created = stats.Created
	d.result.Released = stats.Released
	d.result.Live = stats.Live()
	d.result.Views = d.app.ViewCount()
	d.result.PendingTurns = d.sched.Outstanding()
	d.result.Listeners = leakedListeners(d.dead, d.activationEvents())
}

// leakedListeners counts activation listeners left on placeholders and focus
// listeners left on focus targets.
func leakedListeners(cells []trackedCell, events []string) int {
	n := 0
	for _, c := range cells {
		if gui := c.adapter.GUI(); gui != nil {
			for _, event := range events {
				n += gui.ListenerCount(event)
			}
		}
		if c.focus != nil {
			n += c.focus.ListenerCount(dom.EventFocus)
		}
	}
	return n
}

func (d *driver) allIn(state adapter.State) bool {
	for _, a := range d.cells {
		if a.State() != state {
			return false
		}
	}
	return true
}

// do runs fn on the loop goroutine and waits for it.
func (d *driver) do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	if err := d.loop.Submit(func() {
		defer close(done)
		fn()
	}); err != nil {
		return fmt.Errorf("submitting to event loop: %w", err)
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// waitFor polls cond on the loop goroutine until it holds.
func (d *driver) waitFor(ctx context.Context, cond func() bool) error {
	deadline := time.NewTimer(d.cfg.WaitTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		var ok bool
		if err := d.do(ctx, func() { ok = cond() }); err != nil {
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-ticker.C:
		case <-deadline.C:
			return ErrTimeout
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
