// Package view is the component runtime for rich cell renderers. An App holds
// the set of attached views and runs change detection over them on every
// update cycle; a View binds one component instance to a host node.
package view

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rshade/lazygrid/internal/dom"
)

// ErrNilFactory is returned when a Type has no constructor.
var ErrNilFactory = errors.New("component type has no constructor")

// Component is a rich cell renderer.
type Component interface {
	// Init receives the cell parameters once, before the first render.
	Init(params any)
	// Refresh receives updated cell parameters. Returning false asks the
	// caller to tear the renderer down and build a new one.
	Refresh(params any) bool
	// Render returns the component's current content.
	Render() string
}

// Destroyer is implemented by components that hold resources.
type Destroyer interface {
	Destroy()
}

// Type names a component and constructs instances of it.
type Type struct {
	Name string
	New  func() (Component, error)
}

// NewType returns a Type whose constructor cannot fail.
func NewType(name string, ctor func() Component) *Type {
	return &Type{
		Name: name,
		New:  func() (Component, error) { return ctor(), nil },
	}
}

// Instantiate builds a new instance of t.
func (t *Type) Instantiate() (Component, error) {
	if t == nil || t.New == nil {
		return nil, ErrNilFactory
	}
	c, err := t.New()
	if err != nil {
		return nil, fmt.Errorf("constructing %s: %w", t.Name, err)
	}
	return c, nil
}

// View binds a component instance to a host node. The view owns a mount node
// that replaces the host's children while the view is alive.
type View struct {
	component Component
	host      *dom.Node
	mount     *dom.Node
	checks    int
	destroyed bool
}

// NewView mounts c under host.
func NewView(typeName string, c Component, host *dom.Node) *View {
	mount := dom.NewElement(typeName)
	if host != nil {
		host.ReplaceChildren(mount)
	}
	return &View{component: c, host: host, mount: mount}
}

// Component returns the bound instance.
func (v *View) Component() Component { return v.component }

// Node returns the view's mount node.
func (v *View) Node() *dom.Node { return v.mount }

// Host returns the node the view is mounted under.
func (v *View) Host() *dom.Node { return v.host }

// Checks returns how many change detection passes have run.
func (v *View) Checks() int { return v.checks }

// Destroyed reports whether Destroy has run.
func (v *View) Destroyed() bool { return v.destroyed }

// DetectChanges renders the component into the mount node.
func (v *View) DetectChanges() {
	if v.destroyed {
		return
	}
	v.mount.SetTextContent(v.component.Render())
	v.checks++
}

// Destroy disposes the component and unmounts the view.
func (v *View) Destroy() {
	if v.destroyed {
		return
	}
	v.destroyed = true
	if d, ok := v.component.(Destroyer); ok {
		d.Destroy()
	}
	if v.host != nil {
		v.host.RemoveChild(v.mount)
	}
}

// App is the update scheduler. Attached views take part in every Tick.
type App struct {
	mu    sync.Mutex
	views map[*View]struct{}
	log   zerolog.Logger
}

// NewApp returns an App with no attached views.
func NewApp(logger zerolog.Logger) *App {
	return &App{
		views: make(map[*View]struct{}),
		log:   logger,
	}
}

// AttachView registers v for future update cycles.
func (a *App) AttachView(v *View) {
	a.mu.Lock()
	a.views[v] = struct{}{}
	a.mu.Unlock()
}

// DetachView unregisters v. It reports whether v was attached.
func (a *App) DetachView(v *View) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.views[v]; !ok {
		return false
	}
	delete(a.views, v)
	return true
}

// IsAttached reports whether v is registered.
func (a *App) IsAttached(v *View) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.views[v]
	return ok
}

// ViewCount returns the number of attached views.
func (a *App) ViewCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.views)
}

// Tick runs change detection over every attached view and returns how many
// were checked.
func (a *App) Tick() int {
	a.mu.Lock()
	views := make([]*View, 0, len(a.views))
	for v := range a.views {
		views = append(views, v)
	}
	a.mu.Unlock()

	for _, v := range views {
		v.DetectChanges()
	}
	if len(views) > 0 {
		a.log.Trace().Int("views", len(views)).Msg("update cycle")
	}
	return len(views)
}
