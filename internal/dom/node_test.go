package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode_Tree(t *testing.T) {
	div := NewElement("div")
	span := NewElement("span")
	span.SetTextContent("42")
	div.AppendChild(span)

	assert.Equal(t, "42", div.TextContent())
	assert.Same(t, div, span.Parent())
	assert.Same(t, span, div.FirstChild())

	other := NewElement("div")
	other.AppendChild(span)
	assert.Empty(t, div.Children())
	assert.Same(t, other, span.Parent())

	other.ReplaceChildren(NewText("a"), NewText("b"))
	assert.Equal(t, "ab", other.TextContent())
	assert.Nil(t, span.Parent())
}

func TestNode_ClassAndStyle(t *testing.T) {
	n := NewElement("div")
	n.SetClass("native-renderer selected")
	n.SetStyle("width", "100%")

	assert.True(t, n.HasClass("native-renderer"))
	assert.False(t, n.HasClass("native"))
	assert.Equal(t, "100%", n.Style("width"))
	assert.Empty(t, n.Style("height"))
}

func TestNode_OnceListener(t *testing.T) {
	n := NewElement("div")
	calls := 0
	n.AddEventListener(EventMouseOver, func(*Event) { calls++ }, ListenerOptions{Once: true})
	require.Equal(t, 1, n.ListenerCount(EventMouseOver))

	n.Dispatch(EventMouseOver)
	n.Dispatch(EventMouseOver)

	assert.Equal(t, 1, calls)
	assert.Zero(t, n.ListenerCount(EventMouseOver))
}

func TestNode_RemoveListener(t *testing.T) {
	n := NewElement("div")
	calls := 0
	id := n.AddEventListener(EventFocus, func(*Event) { calls++ }, ListenerOptions{})

	assert.True(t, n.RemoveEventListener(EventFocus, id))
	assert.False(t, n.RemoveEventListener(EventFocus, id))
	n.Dispatch(EventFocus)
	assert.Zero(t, calls)
}

func TestNode_PassiveListenerCannotPreventDefault(t *testing.T) {
	n := NewElement("div")
	n.AddEventListener(EventClick, func(e *Event) { e.PreventDefault() }, ListenerOptions{Passive: true})
	assert.True(t, n.Dispatch(EventClick))

	m := NewElement("div")
	m.AddEventListener(EventClick, func(e *Event) { e.PreventDefault() }, ListenerOptions{})
	assert.False(t, m.Dispatch(EventClick))
}

func TestNode_NilListenerIgnored(t *testing.T) {
	n := NewElement("div")
	assert.Zero(t, n.AddEventListener(EventClick, nil, ListenerOptions{}))
	assert.Zero(t, n.ListenerCount(EventClick))
}

func TestNode_Clone(t *testing.T) {
	div := NewElement("div")
	div.SetClass("native-renderer")
	div.SetStyle("width", "100%")
	span := NewElement("span")
	span.SetTextContent("42")
	div.AppendChild(span)
	div.AddEventListener(EventMouseOver, func(*Event) {}, ListenerOptions{})

	c := div.Clone()
	require.NotSame(t, div, c)
	assert.Nil(t, c.Parent())
	assert.Equal(t, "42", c.TextContent())
	assert.True(t, c.HasClass("native-renderer"))
	assert.Equal(t, "100%", c.Style("width"))
	assert.Zero(t, c.ListenerCount(EventMouseOver), "listeners stay on the original")

	c.FirstChild().SetTextContent("7")
	c.SetStyle("width", "50%")
	assert.Equal(t, "42", div.TextContent())
	assert.Equal(t, "100%", div.Style("width"))
	assert.Same(t, div, span.Parent())
}
