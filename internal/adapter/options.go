package adapter

import (
	"slices"
	"time"

	"github.com/rshade/lazygrid/internal/cellfmt"
	"github.com/rshade/lazygrid/internal/dom"
)

// DefaultIdleTimeout bounds how long listener attachment waits for an idle
// window.
const DefaultIdleTimeout = 50 * time.Millisecond

// PlaceholderClass is the class of the default placeholder node.
const PlaceholderClass = "native-renderer"

// Placeholder builds the node shown before a cell is promoted.
type Placeholder interface {
	Build(params *CellParams) *dom.Node
}

// PlaceholderFunc adapts a function to Placeholder.
type PlaceholderFunc func(params *CellParams) *dom.Node

// Build implements Placeholder.
func (f PlaceholderFunc) Build(params *CellParams) *dom.Node { return f(params) }

type staticPlaceholder struct {
	node *dom.Node
}

func (s staticPlaceholder) Build(*CellParams) *dom.Node {
	if s.node == nil {
		return nil
	}
	return s.node.Clone()
}

// StaticPlaceholder returns a Placeholder that yields a copy of node for
// every cell, so listeners and mounted components stay per cell.
func StaticPlaceholder(node *dom.Node) Placeholder {
	return staticPlaceholder{node: node}
}

// DefaultPlaceholder renders a full-width div holding a span with the
// formatted cell value.
func DefaultPlaceholder(params *CellParams) *dom.Node {
	div := dom.NewElement("div")
	div.SetClass(PlaceholderClass)
	div.SetStyle("width", "100%")

	span := dom.NewElement("span")
	span.SetTextContent(cellfmt.Value(params.Value))
	div.AppendChild(span)
	return div
}

// Options customizes adapter behavior. A nil or zero field falls back to its
// default; a set field replaces the default entirely.
type Options struct {
	// ActivationEvents are the placeholder events that trigger promotion.
	// A non-nil empty slice disables pointer activation, leaving focus only.
	ActivationEvents []string
	// Placeholder builds the pre-promotion node.
	Placeholder Placeholder
	// IdleTimeout bounds the wait for an idle window before listeners are
	// attached anyway.
	IdleTimeout time.Duration
}

// DefaultOptions returns the defaults applied by Resolve.
func DefaultOptions() Options {
	return Options{
		ActivationEvents: []string{dom.EventMouseOver},
		Placeholder:      PlaceholderFunc(DefaultPlaceholder),
		IdleTimeout:      DefaultIdleTimeout,
	}
}

// Resolve shallow-merges o over the defaults.
func Resolve(o *Options) Options {
	resolved := DefaultOptions()
	if o == nil {
		return resolved
	}
	if o.ActivationEvents != nil {
		resolved.ActivationEvents = slices.Clone(o.ActivationEvents)
	}
	if o.Placeholder != nil {
		resolved.Placeholder = o.Placeholder
	}
	if o.IdleTimeout > 0 {
		resolved.IdleTimeout = o.IdleTimeout
	}
	return resolved
}
