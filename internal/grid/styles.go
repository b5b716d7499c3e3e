package grid

import "github.com/charmbracelet/lipgloss"

// Color palette.
//
//nolint:gochecknoglobals // Styles are immutable after init.
var (
	ColorHeader   = lipgloss.Color("39")
	ColorMuted    = lipgloss.Color("240")
	ColorCursor   = lipgloss.Color("57")
	ColorPromoted = lipgloss.Color("229")
	ColorError    = lipgloss.Color("196")
)

//nolint:gochecknoglobals // Styles are immutable after init.
var (
	headerStyle   = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	cellStyle     = lipgloss.NewStyle()
	cursorStyle   = lipgloss.NewStyle().Background(ColorCursor).Foreground(lipgloss.Color("229"))
	promotedStyle = lipgloss.NewStyle().Foreground(ColorPromoted)
	errorStyle    = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	statusStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
)

// columnSeparator is drawn between cells.
const columnSeparator = " "

// fit truncates s to width cells and pads it to exactly width.
func fit(style lipgloss.Style, s string, width int) string {
	truncated := lipgloss.NewStyle().MaxWidth(width).Render(s)
	return style.Width(width).Render(truncated)
}
