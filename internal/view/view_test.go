package view

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/lazygrid/internal/dom"
)

type echo struct {
	value     string
	destroyed bool
}

func (e *echo) Init(params any) { e.value, _ = params.(string) }

func (e *echo) Refresh(params any) bool {
	e.value, _ = params.(string)
	return true
}

func (e *echo) Render() string { return "[" + e.value + "]" }

func (e *echo) Destroy() { e.destroyed = true }

func TestType_Instantiate(t *testing.T) {
	typ := NewType("echo", func() Component { return &echo{} })
	c, err := typ.Instantiate()
	require.NoError(t, err)
	assert.IsType(t, &echo{}, c)

	var missing *Type
	_, err = missing.Instantiate()
	require.ErrorIs(t, err, ErrNilFactory)

	boom := errors.New("boom")
	failing := &Type{Name: "failing", New: func() (Component, error) { return nil, boom }}
	_, err = failing.Instantiate()
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failing")
}

func TestView_MountDetectDestroy(t *testing.T) {
	host := dom.NewElement("div")
	host.SetTextContent("placeholder")
	c := &echo{}
	c.Init("42")

	v := NewView("echo", c, host)
	assert.Same(t, v.Node(), host.FirstChild())

	v.DetectChanges()
	assert.Equal(t, "[42]", host.TextContent())
	assert.Equal(t, 1, v.Checks())

	v.Destroy()
	v.Destroy()
	assert.True(t, c.destroyed)
	assert.True(t, v.Destroyed())
	assert.Empty(t, host.Children())

	v.DetectChanges()
	assert.Equal(t, 1, v.Checks(), "destroyed views are not checked")
}

func TestApp_Tick(t *testing.T) {
	app := NewApp(zerolog.Nop())
	a := NewView("echo", &echo{value: "a"}, dom.NewElement("div"))
	b := NewView("echo", &echo{value: "b"}, dom.NewElement("div"))

	app.AttachView(a)
	app.AttachView(b)
	assert.Equal(t, 2, app.ViewCount())
	assert.Equal(t, 2, app.Tick())
	assert.Equal(t, "[a]", a.Node().TextContent())

	assert.True(t, app.DetachView(a))
	assert.False(t, app.DetachView(a))
	assert.False(t, app.IsAttached(a))
	assert.Equal(t, 1, app.Tick())
	assert.Equal(t, 1, a.Checks())
	assert.Equal(t, 2, b.Checks())
}
