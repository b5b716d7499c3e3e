package cellfmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type ticker string

func (t ticker) String() string { return "$" + string(t) }

func TestValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "42", "42"},
		{"int", 1234567, "1,234,567"},
		{"negative int", -500000, "-500,000"},
		{"float", 3.14159, "3.14"},
		{"stringer", ticker("VTI"), "$VTI"},
		{"bool", true, "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Value(tt.in))
		})
	}
}
