// Package adapter implements the deferred-activation cell renderer.
//
// An Adapter paints a cheap placeholder immediately and only promotes the
// cell to a rich component once the user interacts with it. Listener
// attachment is deferred to an idle window and component creation to the
// next turn; Destroy cancels both and releases the promoted component, so
// cells can be recycled at any point of that lifecycle without leaking
// timers, listeners or attached views.
package adapter

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rshade/lazygrid/internal/dom"
	"github.com/rshade/lazygrid/internal/host"
	"github.com/rshade/lazygrid/internal/logging"
	"github.com/rshade/lazygrid/internal/schedule"
	"github.com/rshade/lazygrid/internal/view"
)

// ComponentHost creates and releases rich components.
type ComponentHost interface {
	Create(ctx context.Context, typ *view.Type, hostNode *dom.Node, params any) (*host.Handle, error)
	Release(ctx context.Context, h *host.Handle)
}

// CellParams is the per-cell context supplied by the grid.
type CellParams struct {
	// Value is the raw cell value.
	Value any
	// Data is the row record the value was read from.
	Data any
	// Row is the row index within the data source.
	Row int
	// Column is the column field name.
	Column string
	// Component is the rich component type used on promotion.
	Component *view.Type
	// Options customizes the adapter; nil uses the defaults.
	Options *Options
	// FocusTarget is the cell's keyboard focus target.
	FocusTarget *dom.Node
	// Host creates and releases the promoted component.
	Host ComponentHost
}

// CellValue returns the raw cell value.
func (p *CellParams) CellValue() any { return p.Value }

// State is the adapter's lifecycle state.
type State int

const (
	// StateIdle shows the placeholder with no listeners attached.
	StateIdle State = iota
	// StateArmed has listeners attached and is waiting for interaction.
	StateArmed
	// StatePromoting has seen an interaction; creation is scheduled.
	StatePromoting
	// StatePromoted has a live rich component.
	StatePromoted
	// StateDestroyed is terminal.
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateArmed:
		return "armed"
	case StatePromoting:
		return "promoting"
	case StatePromoted:
		return "promoted"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

type binding struct {
	node  *dom.Node
	event string
	id    dom.ListenerID
}

// Adapter is the per-cell deferred-activation renderer. All methods must be
// called from the goroutine that drives sched.
type Adapter struct {
	sched schedule.Scheduler

	//nolint:containedctx // Deferred callbacks log and create components with the Init context.
	ctx         context.Context
	params      *CellParams
	opts        Options
	state       State
	placeholder *dom.Node
	handle      *host.Handle
	attachTask  schedule.Task
	promoteTask schedule.Task
	listeners   []binding
}

// New returns an uninitialized adapter scheduling its work on sched.
func New(sched schedule.Scheduler) *Adapter {
	return &Adapter{sched: sched}
}

// Init validates params, builds the placeholder and schedules listener
// attachment for the next idle window. Configuration errors are returned
// as *ConfigurationError. Init on an initialized or destroyed adapter is a
// no-op.
func (a *Adapter) Init(ctx context.Context, params *CellParams) error {
	if a.params != nil || a.state == StateDestroyed {
		return nil
	}
	if err := validate(params); err != nil {
		return err
	}

	a.ctx = ctx
	a.params = params
	a.opts = Resolve(params.Options)
	a.placeholder = a.opts.Placeholder.Build(params)
	if a.placeholder == nil {
		a.log().Warn().Msg("placeholder factory returned nil; using default placeholder")
		a.placeholder = DefaultPlaceholder(params)
	}

	task, err := a.sched.RequestIdle(a.attachListeners, a.opts.IdleTimeout)
	if err != nil {
		a.log().Warn().Err(err).Msg("listener attachment not scheduled; cell stays a placeholder")
		return nil
	}
	a.attachTask = task
	return nil
}

func validate(params *CellParams) error {
	const op = "adapter.Init"
	if params == nil || params.Host == nil {
		var column string
		if params != nil {
			column = params.Column
		}
		return &ConfigurationError{Op: op, Column: column, Err: ErrMissingComponentHost}
	}
	if params.Component == nil {
		return &ConfigurationError{Op: op, Column: params.Column, Err: ErrMissingRendererType}
	}
	return nil
}

// attachListeners runs in the idle window.
func (a *Adapter) attachListeners() {
	if a.state != StateIdle {
		return
	}
	opts := dom.ListenerOptions{Once: true, Passive: true}
	for _, event := range a.opts.ActivationEvents {
		a.listen(a.placeholder, event, opts)
	}
	if a.params.FocusTarget != nil {
		a.listen(a.params.FocusTarget, dom.EventFocus, opts)
	}
	a.state = StateArmed
	a.log().Trace().Int("listeners", len(a.listeners)).Msg("cell armed")
}

func (a *Adapter) listen(node *dom.Node, event string, opts dom.ListenerOptions) {
	id := node.AddEventListener(event, a.onActivate, opts)
	a.listeners = append(a.listeners, binding{node: node, event: event, id: id})
}

// onActivate defers promotion to the next turn so no component is built
// inside the input event's dispatch.
func (a *Adapter) onActivate(e *dom.Event) {
	if a.state != StateArmed {
		return
	}
	task, err := a.sched.NextTurn(a.promote)
	if err != nil {
		a.log().Warn().Err(err).Str("event", e.Type).Msg("promotion not scheduled")
		return
	}
	a.promoteTask = task
	a.state = StatePromoting
	a.log().Debug().Str("event", e.Type).Msg("promotion scheduled")
}

func (a *Adapter) promote() {
	if a.state != StatePromoting || a.handle != nil {
		return
	}
	h, err := a.params.Host.Create(a.ctx, a.params.Component, a.placeholder, a.params)
	a.detachListeners()
	if err != nil {
		a.state = StateIdle
		a.log().Error().Err(err).Msg("component creation failed; cell keeps its placeholder")
		return
	}
	a.handle = h
	a.state = StatePromoted
	a.log().Debug().Str("component_id", h.ID().String()).Msg("cell promoted")
}

func (a *Adapter) detachListeners() {
	for _, b := range a.listeners {
		b.node.RemoveEventListener(b.event, b.id)
	}
	a.listeners = nil
}

// Refresh forwards params to the promoted component and returns its result.
// Before promotion it returns false so the grid rebuilds the cell, which
// builds a fresh placeholder from the new value.
func (a *Adapter) Refresh(_ context.Context, params *CellParams) bool {
	if a.state != StatePromoted || a.handle == nil {
		return false
	}
	return a.handle.Instance().Refresh(params)
}

// GUI returns the cell's root node. It is the placeholder node in every
// state; a promoted component is mounted beneath it by the host.
func (a *Adapter) GUI() *dom.Node {
	return a.placeholder
}

// Destroy cancels all scheduled work, detaches listeners and releases the
// promoted component exactly once. It is safe in every state.
func (a *Adapter) Destroy(ctx context.Context) {
	if a.state == StateDestroyed {
		return
	}
	prev := a.state

	a.attachTask.Cancel()
	a.promoteTask.Cancel()
	a.detachListeners()
	if a.handle != nil {
		h := a.handle
		a.handle = nil
		a.params.Host.Release(ctx, h)
	}
	a.state = StateDestroyed

	if a.params != nil {
		a.log().Trace().Stringer("from", prev).Msg("cell destroyed")
	}
}

// State returns the current lifecycle state.
func (a *Adapter) State() State { return a.state }

// Handle returns the promoted component handle, or nil.
func (a *Adapter) Handle() *host.Handle { return a.handle }

func (a *Adapter) log() *zerolog.Logger {
	l := logging.FromContext(a.ctx).With().
		Str("component", "adapter").
		Str("column", a.params.Column).
		Int("row", a.params.Row).
		Stringer("state", a.state).
		Logger()
	return &l
}
