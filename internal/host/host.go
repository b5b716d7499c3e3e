// Package host creates and releases rich cell components, wiring each one
// into the view runtime's update cycle.
package host

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/oklog/ulid/v2"

	"github.com/rshade/lazygrid/internal/dom"
	"github.com/rshade/lazygrid/internal/logging"
	"github.com/rshade/lazygrid/internal/view"
)

// Handle is an exclusively owned reference to a live component.
type Handle struct {
	id       ulid.ULID
	typeName string
	view     *view.View
	released atomic.Bool
}

// ID returns the handle's unique ID.
func (h *Handle) ID() ulid.ULID { return h.id }

// TypeName returns the name of the component type.
func (h *Handle) TypeName() string { return h.typeName }

// Instance returns the component instance.
func (h *Handle) Instance() view.Component { return h.view.Component() }

// View returns the component's view.
func (h *Handle) View() *view.View { return h.view }

// Released reports whether the handle has been released.
func (h *Handle) Released() bool { return h.released.Load() }

// Stats counts component lifecycles.
type Stats struct {
	Created  int64
	Released int64
}

// Live returns the number of components created and not yet released.
func (s Stats) Live() int64 { return s.Created - s.Released }

// Manager creates and releases components against an App.
type Manager struct {
	app      *view.App
	created  atomic.Int64
	released atomic.Int64
}

// NewManager returns a Manager attaching views to app.
func NewManager(app *view.App) *Manager {
	return &Manager{app: app}
}

// App returns the update scheduler views are attached to.
func (m *Manager) App() *view.App { return m.app }

// Create instantiates typ under hostNode, attaches its view to the update
// cycle, initializes it with params and runs one change detection pass so
// the node is complete before it is shown.
//
// Errors from the type's constructor are returned wrapped; nothing is
// attached in that case.
func (m *Manager) Create(ctx context.Context, typ *view.Type, hostNode *dom.Node, params any) (*Handle, error) {
	c, err := typ.Instantiate()
	if err != nil {
		return nil, fmt.Errorf("creating component: %w", err)
	}

	v := view.NewView(typ.Name, c, hostNode)
	m.app.AttachView(v)
	c.Init(params)
	v.DetectChanges()

	h := &Handle{id: ulid.Make(), typeName: typ.Name, view: v}
	m.created.Add(1)

	logging.FromContext(ctx).Debug().Ctx(ctx).
		Str("component_id", h.id.String()).
		Str("type", h.typeName).
		Msg("component created")
	return h, nil
}

// Release detaches the handle's view from the update cycle and destroys the
// instance. Releasing a handle twice is a caller error; the second call is
// logged and ignored.
func (m *Manager) Release(ctx context.Context, h *Handle) {
	log := logging.FromContext(ctx)
	if h == nil {
		return
	}
	if !h.released.CompareAndSwap(false, true) {
		log.Warn().Ctx(ctx).Str("component_id", h.id.String()).Msg("component released twice")
		return
	}

	m.app.DetachView(h.view)
	h.view.Destroy()
	m.released.Add(1)

	log.Debug().Ctx(ctx).
		Str("component_id", h.id.String()).
		Str("type", h.typeName).
		Msg("component released")
}

// Stats returns lifecycle counters.
func (m *Manager) Stats() Stats {
	return Stats{Created: m.created.Load(), Released: m.released.Load()}
}
