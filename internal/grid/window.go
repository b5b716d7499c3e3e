package grid

// defaultBufferRows is the number of extra rows kept initialized above and
// below the viewport, so short scrolls reuse live cells.
const defaultBufferRows = 5

// halfViewportDivisor is used to calculate half the viewport height for centering.
const halfViewportDivisor = 2

// window tracks which rows are visible and which are kept alive. The visible
// range is centered on the selected row where possible; the render range
// extends it by the buffer on both sides.
type window struct {
	// total is the number of rows in the source
	total int

	// selected is the cursor row (0-based)
	selected int

	// visibleFrom is the first visible row
	visibleFrom int

	// visibleTo is the last visible row (exclusive)
	visibleTo int

	// height is the viewport height in rows
	height int

	// buffer is the number of extra rows kept alive above/below the viewport
	buffer int
}

func newWindow(total, height, buffer int) *window {
	w := &window{total: total, height: height, buffer: buffer}
	w.update()
	return w
}

// update recalculates the visible range so the selected row stays visible.
func (w *window) update() {
	if w.total == 0 || w.height <= 0 {
		w.visibleFrom = 0
		w.visibleTo = 0
		return
	}

	halfViewport := w.height / halfViewportDivisor

	idealFrom := w.selected - halfViewport
	idealTo := idealFrom + w.height

	// Adjust if we're near the start
	if idealFrom < 0 {
		idealFrom = 0
		idealTo = w.height
	}

	// Adjust if we're near the end
	if idealTo > w.total {
		idealTo = w.total
		idealFrom = max(idealTo-w.height, 0)
	}

	w.visibleFrom = idealFrom
	w.visibleTo = idealTo
}

// renderRange returns the rows that should hold initialized cells.
func (w *window) renderRange() (int, int) {
	from := max(w.visibleFrom-w.buffer, 0)
	to := min(w.visibleTo+w.buffer, w.total)
	return from, to
}

// selectRow moves the cursor, capping to valid bounds.
func (w *window) selectRow(row int) {
	switch {
	case w.total == 0:
		w.selected = 0
	case row < 0:
		w.selected = 0
	case row >= w.total:
		w.selected = w.total - 1
	default:
		w.selected = row
	}
	w.update()
}

func (w *window) resize(height int) {
	w.height = height
	w.update()
}
