// Package widgets holds the rich cell components the grid promotes cells to.
package widgets

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/lazygrid/internal/cellfmt"
	"github.com/rshade/lazygrid/internal/view"
)

// hiddenInputCount is the number of offscreen inputs a ValueInput carries.
const hiddenInputCount = 40

const valueInputCharLimit = 64

//nolint:gochecknoglobals // Component types are registered once and shared by every column.
var ValueInputType = view.NewType("value-input", func() view.Component { return NewValueInput() })

var valueInputStyle = lipgloss.NewStyle().Underline(true)

// valueCarrier is satisfied by the adapter's cell params.
type valueCarrier interface {
	CellValue() any
}

// ValueInput is a heavy editable-looking cell: a text input holding the
// formatted value plus a batch of hidden inputs.
type ValueInput struct {
	input     textinput.Model
	hidden    []textinput.Model
	renders   int
	destroyed bool
}

// NewValueInput builds a ValueInput with all of its inputs allocated.
func NewValueInput() *ValueInput {
	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = valueInputCharLimit

	hidden := make([]textinput.Model, hiddenInputCount)
	for i := range hidden {
		h := textinput.New()
		h.Prompt = ""
		h.EchoMode = textinput.EchoNone
		hidden[i] = h
	}
	return &ValueInput{input: input, hidden: hidden}
}

// Init implements view.Component.
func (v *ValueInput) Init(params any) {
	v.setValue(params)
}

// Refresh implements view.Component. The value is updated in place.
func (v *ValueInput) Refresh(params any) bool {
	v.setValue(params)
	return true
}

func (v *ValueInput) setValue(params any) {
	p, ok := params.(valueCarrier)
	if !ok {
		return
	}
	value := cellfmt.Value(p.CellValue())
	v.input.SetValue(value)
	for i := range v.hidden {
		v.hidden[i].SetValue(value)
	}
}

// Render implements view.Component.
func (v *ValueInput) Render() string {
	v.renders++
	return valueInputStyle.Render(v.input.Value())
}

// Destroy implements view.Destroyer.
func (v *ValueInput) Destroy() {
	v.input.Blur()
	v.hidden = nil
	v.destroyed = true
}

// Value returns the displayed value.
func (v *ValueInput) Value() string { return v.input.Value() }

// HiddenInputs returns the number of hidden inputs still held.
func (v *ValueInput) HiddenInputs() int { return len(v.hidden) }

// Destroyed reports whether Destroy has run.
func (v *ValueInput) Destroyed() bool { return v.destroyed }
