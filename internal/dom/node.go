// Package dom is a minimal retained node tree for terminal cells. Nodes carry
// DOM-style event targets so renderers can listen for pointer and focus
// events the same way they would on a browser element.
package dom

import (
	"strings"

	"github.com/joeycumines/go-eventloop"
)

// Common event names.
const (
	EventMouseOver = "mouseover"
	EventFocus     = "focus"
	EventClick     = "click"
)

// TextTag is the tag of text nodes.
const TextTag = "#text"

// Listener is called when a matching event is dispatched on a node.
type Listener = eventloop.EventListenerFunc

// ListenerID identifies a registered listener for removal.
type ListenerID = eventloop.ListenerID

// Event is the value passed to listeners.
type Event = eventloop.Event

// ListenerOptions mirrors the subset of addEventListener options that cell
// renderers use.
type ListenerOptions struct {
	// Once removes the listener after its first invocation.
	Once bool
	// Passive listeners cannot cancel the event's default action.
	Passive bool
}

// Node is an element or text node. Nodes are not safe for concurrent
// mutation; the tree belongs to the goroutine driving the grid.
type Node struct {
	tag      string
	class    string
	text     string
	styles   map[string]string
	parent   *Node
	children []*Node
	events   *eventloop.EventTarget
}

// NewElement creates an element node with the given tag.
func NewElement(tag string) *Node {
	return &Node{tag: tag, events: eventloop.NewEventTarget()}
}

// NewText creates a text node.
func NewText(text string) *Node {
	return &Node{tag: TextTag, text: text, events: eventloop.NewEventTarget()}
}

// Tag returns the node's tag.
func (n *Node) Tag() string { return n.tag }

// Class returns the node's class attribute.
func (n *Node) Class() string { return n.class }

// SetClass replaces the node's class attribute.
func (n *Node) SetClass(class string) { n.class = class }

// HasClass reports whether class is one of the node's space-separated classes.
func (n *Node) HasClass(class string) bool {
	for _, c := range strings.Fields(n.class) {
		if c == class {
			return true
		}
	}
	return false
}

// SetStyle sets an inline style property.
func (n *Node) SetStyle(prop, value string) {
	if n.styles == nil {
		n.styles = make(map[string]string)
	}
	n.styles[prop] = value
}

// Style returns an inline style property.
func (n *Node) Style(prop string) string { return n.styles[prop] }

// Parent returns the node's parent, or nil.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the node's children.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// FirstChild returns the first child, or nil.
func (n *Node) FirstChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

// AppendChild appends child, detaching it from its previous parent first.
func (n *Node) AppendChild(child *Node) {
	if child == nil {
		return
	}
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// RemoveChild detaches child. It reports whether child was found.
func (n *Node) RemoveChild(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// ReplaceChildren removes all children and appends the given nodes.
func (n *Node) ReplaceChildren(children ...*Node) {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
	for _, c := range children {
		n.AppendChild(c)
	}
}

// Clone returns a deep copy of the node and its descendants. Listeners are
// not copied and the copy has no parent.
func (n *Node) Clone() *Node {
	c := &Node{tag: n.tag, class: n.class, text: n.text, events: eventloop.NewEventTarget()}
	for k, v := range n.styles {
		c.SetStyle(k, v)
	}
	for _, child := range n.children {
		c.AppendChild(child.Clone())
	}
	return c
}

// SetTextContent replaces the node's children with a single text node, or
// sets the text of a text node.
func (n *Node) SetTextContent(text string) {
	if n.tag == TextTag {
		n.text = text
		return
	}
	n.ReplaceChildren(NewText(text))
}

// TextContent returns the concatenated text of the node and its descendants.
func (n *Node) TextContent() string {
	if n.tag == TextTag {
		return n.text
	}
	var sb strings.Builder
	n.writeText(&sb)
	return sb.String()
}

func (n *Node) writeText(sb *strings.Builder) {
	for _, c := range n.children {
		if c.tag == TextTag {
			sb.WriteString(c.text)
			continue
		}
		c.writeText(sb)
	}
}

// AddEventListener registers fn for eventType and returns its ID.
func (n *Node) AddEventListener(eventType string, fn Listener, opts ListenerOptions) ListenerID {
	if fn == nil {
		return 0
	}
	if opts.Passive {
		inner := fn
		fn = func(e *Event) {
			prevented := e.DefaultPrevented
			inner(e)
			e.DefaultPrevented = prevented
		}
	}
	if opts.Once {
		return n.events.AddEventListenerOnce(eventType, fn)
	}
	return n.events.AddEventListener(eventType, fn)
}

// RemoveEventListener removes the listener with the given ID. It reports
// whether a listener was removed; removing an already-fired once listener
// returns false.
func (n *Node) RemoveEventListener(eventType string, id ListenerID) bool {
	return n.events.RemoveEventListenerByID(eventType, id)
}

// ListenerCount returns the number of listeners registered for eventType.
func (n *Node) ListenerCount(eventType string) int {
	return n.events.ListenerCount(eventType)
}

// Dispatch dispatches a new cancelable event of the given type and reports
// whether its default action was left intact.
func (n *Node) Dispatch(eventType string) bool {
	return n.events.DispatchEvent(eventloop.NewEventWithOptions(eventType, false, true))
}
