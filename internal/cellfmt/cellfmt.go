// Package cellfmt formats raw cell values for display.
package cellfmt

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//nolint:gochecknoglobals // Printer is safe for concurrent use and expensive to build.
var printer = message.NewPrinter(language.English)

// Value formats v for display in a cell. Integers get thousands separators,
// floats get two decimals, strings are returned unchanged and nil is empty.
func Value(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return printer.Sprintf("%d", x)
	case float32:
		return printer.Sprintf("%.2f", x)
	case float64:
		return printer.Sprintf("%.2f", x)
	default:
		return fmt.Sprint(x)
	}
}
