// Package grid is a virtualized terminal data grid. Only rows in and around
// the viewport hold initialized cell renderers; rows that leave the render
// range have their renderers destroyed, and fresh ones are built when the
// rows come back.
package grid

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/lazygrid/internal/adapter"
	"github.com/rshade/lazygrid/internal/dom"
	"github.com/rshade/lazygrid/internal/host"
	"github.com/rshade/lazygrid/internal/logging"
	"github.com/rshade/lazygrid/internal/schedule"
	"github.com/rshade/lazygrid/internal/view"
)

const (
	defaultColumnWidth  = 16
	defaultViewportRows = 20

	// chromeRows are the header, status and help lines.
	chromeRows = 3
)

// RowSource supplies the grid's data.
type RowSource interface {
	Len() int
	Value(row int, field string) any
	Record(row int) any
}

// ticker is implemented by sources that can produce a new set of values.
type ticker interface {
	Tick()
}

// CellRenderer is the per-cell renderer contract.
type CellRenderer interface {
	Init(ctx context.Context, params *adapter.CellParams) error
	GUI() *dom.Node
	Refresh(ctx context.Context, params *adapter.CellParams) bool
	Destroy(ctx context.Context)
}

type stateful interface {
	State() adapter.State
}

// Column describes one grid column.
type Column struct {
	Field  string
	Header string
	// Width in terminal cells; zero uses the grid default.
	Width int
	// Component is the rich component cells are promoted to.
	Component *view.Type
	// Options customizes the column's cell adapters.
	Options *adapter.Options
	// NewRenderer builds a cell renderer; nil builds an adapter.
	NewRenderer func(schedule.Scheduler) CellRenderer
}

// Option configures a Model.
type Option func(*Model)

// WithScheduler replaces the program-message scheduler. Tests use this to
// drive deferred work explicitly.
func WithScheduler(s schedule.Scheduler) Option {
	return func(m *Model) { m.sched = s }
}

// WithViewportRows sets the initial number of visible rows.
func WithViewportRows(n int) Option {
	return func(m *Model) {
		if n > 0 {
			m.win.height = n
		}
	}
}

// WithBufferRows sets how many rows above and below the viewport keep live
// cells.
func WithBufferRows(n int) Option {
	return func(m *Model) {
		if n >= 0 {
			m.win.buffer = n
		}
	}
}

// WithColumnWidth sets the default column width.
func WithColumnWidth(n int) Option {
	return func(m *Model) {
		if n > 0 {
			m.colWidth = n
		}
	}
}

// WithIdlePoll sets the idle poll interval of the default scheduler.
func WithIdlePoll(d time.Duration) Option {
	return func(m *Model) { m.poll = d }
}

type cellKey struct {
	row int
	col int
}

type cell struct {
	renderer CellRenderer
	focus    *dom.Node
	err      error
}

// Model is the grid's bubbletea model.
type Model struct {
	//nolint:containedctx // The program owns the grid; cells log and create components with this context.
	ctx      context.Context
	source   RowSource
	columns  []Column
	host     *host.Manager
	sched    schedule.Scheduler
	poll     time.Duration
	cells    map[cellKey]*cell
	win      *window
	col      int
	colWidth int
	hovered  *cell
	keys     keyMap
	help     help.Model
	printer  *message.Printer
	log      zerolog.Logger
	closed   bool
}

// New returns a grid over source. Cells are created through mgr.
func New(ctx context.Context, source RowSource, columns []Column, mgr *host.Manager, opts ...Option) *Model {
	m := &Model{
		ctx:      ctx,
		source:   source,
		columns:  columns,
		host:     mgr,
		cells:    make(map[cellKey]*cell),
		win:      newWindow(source.Len(), defaultViewportRows, defaultBufferRows),
		colWidth: defaultColumnWidth,
		keys:     defaultKeyMap(),
		help:     help.New(),
		printer:  message.NewPrinter(language.English),
		log:      logging.ComponentLogger(*logging.FromContext(ctx), "grid"),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.sched == nil {
		m.sched = newTeaScheduler(m.poll)
	}
	m.win.update()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	m.reconcile()
	return m.afterUpdate()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.closed {
		return m, nil
	}
	if h, ok := m.sched.(interface{ Handle(msg tea.Msg) bool }); ok && h.Handle(msg) {
		return m, m.afterUpdate()
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.win.resize(max(msg.Height-chromeRows, 1))
		m.reconcile()
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.Close()
			return m, tea.Quit
		}
		m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, m.afterUpdate()
}

// afterUpdate runs the component update pass and collects scheduler work.
func (m *Model) afterUpdate() tea.Cmd {
	if m.host != nil {
		m.host.App().Tick()
	}
	if c, ok := m.sched.(interface{ Cmd() tea.Cmd }); ok {
		return c.Cmd()
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) {
	row := m.win.selected
	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveTo(row-1, m.col)
	case key.Matches(msg, m.keys.Down):
		m.moveTo(row+1, m.col)
	case key.Matches(msg, m.keys.Left):
		m.moveTo(row, m.col-1)
	case key.Matches(msg, m.keys.Right):
		m.moveTo(row, m.col+1)
	case key.Matches(msg, m.keys.PageUp):
		m.moveTo(row-m.win.height, m.col)
	case key.Matches(msg, m.keys.PageDown):
		m.moveTo(row+m.win.height, m.col)
	case key.Matches(msg, m.keys.Home):
		m.moveTo(0, m.col)
	case key.Matches(msg, m.keys.End):
		m.moveTo(m.win.total-1, m.col)
	case key.Matches(msg, m.keys.Update):
		m.refreshAll()
	}
}

//nolint:exhaustive // Only wheel and motion events matter to the grid.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.moveTo(m.win.selected-1, m.col)
		return
	case tea.MouseButtonWheelDown:
		m.moveTo(m.win.selected+1, m.col)
		return
	}
	if msg.Action != tea.MouseActionMotion {
		return
	}

	row, col, ok := m.cellAt(msg.X, msg.Y)
	if !ok {
		m.hovered = nil
		return
	}
	c := m.cells[cellKey{row: row, col: col}]
	if c == nil || c == m.hovered {
		return
	}
	m.hovered = c
	if gui := c.renderer.GUI(); gui != nil {
		gui.Dispatch(dom.EventMouseOver)
	}
}

// cellAt maps screen coordinates to a visible cell.
func (m *Model) cellAt(x, y int) (int, int, bool) {
	if y < 1 || x < 0 {
		return 0, 0, false
	}
	row := m.win.visibleFrom + y - 1
	if row >= m.win.visibleTo {
		return 0, 0, false
	}
	left := 0
	for col, c := range m.columns {
		right := left + m.widthOf(c)
		if x < right {
			return row, col, true
		}
		left = right + len(columnSeparator)
		if x < left {
			return 0, 0, false
		}
	}
	return 0, 0, false
}

func (m *Model) moveTo(row, col int) {
	if len(m.columns) > 0 {
		m.col = min(max(col, 0), len(m.columns)-1)
	}
	m.win.selectRow(row)
	m.reconcile()

	if c := m.cells[cellKey{row: m.win.selected, col: m.col}]; c != nil {
		c.focus.Dispatch(dom.EventFocus)
	}
}

// reconcile destroys cells outside the render range and initializes the
// missing ones inside it.
func (m *Model) reconcile() {
	from, to := m.win.renderRange()
	for k, c := range m.cells {
		if k.row < from || k.row >= to {
			m.destroyCell(c)
			delete(m.cells, k)
		}
	}
	for row := from; row < to; row++ {
		for col := range m.columns {
			k := cellKey{row: row, col: col}
			if _, ok := m.cells[k]; !ok {
				m.cells[k] = m.newCell(row, col)
			}
		}
	}
}

func (m *Model) newCell(row, col int) *cell {
	column := m.columns[col]
	c := &cell{focus: dom.NewElement("td")}
	if column.NewRenderer != nil {
		c.renderer = column.NewRenderer(m.sched)
	} else {
		c.renderer = adapter.New(m.sched)
	}

	if err := c.renderer.Init(m.ctx, m.params(row, column, c.focus)); err != nil {
		m.log.Error().Ctx(m.ctx).Err(err).
			Int("row", row).
			Str("column", column.Field).
			Msg("cell renderer failed to initialize")
		c.err = err
	}
	return c
}

func (m *Model) destroyCell(c *cell) {
	if c == m.hovered {
		m.hovered = nil
	}
	c.renderer.Destroy(m.ctx)
}

func (m *Model) params(row int, column Column, focus *dom.Node) *adapter.CellParams {
	p := &adapter.CellParams{
		Value:       m.source.Value(row, column.Field),
		Data:        m.source.Record(row),
		Row:         row,
		Column:      column.Field,
		Component:   column.Component,
		Options:     column.Options,
		FocusTarget: focus,
	}
	if m.host != nil {
		p.Host = m.host
	}
	return p
}

// refreshAll pulls new values from the source into every live cell. A cell
// whose renderer declines the refresh is destroyed and rebuilt.
func (m *Model) refreshAll() {
	if t, ok := m.source.(ticker); ok {
		t.Tick()
	}
	rebuilt := 0
	for k, c := range m.cells {
		column := m.columns[k.col]
		if c.err == nil && c.renderer.Refresh(m.ctx, m.params(k.row, column, c.focus)) {
			continue
		}
		m.destroyCell(c)
		m.cells[k] = m.newCell(k.row, k.col)
		rebuilt++
	}
	m.log.Debug().Ctx(m.ctx).
		Int("cells", len(m.cells)).
		Int("rebuilt", rebuilt).
		Msg("values refreshed")
}

// Close destroys every live cell. The model renders nothing afterwards.
func (m *Model) Close() {
	if m.closed {
		return
	}
	m.closed = true
	for k, c := range m.cells {
		m.destroyCell(c)
		delete(m.cells, k)
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.closed {
		return ""
	}

	var b strings.Builder
	headers := make([]string, len(m.columns))
	for i, c := range m.columns {
		headers[i] = fit(headerStyle, c.Header, m.widthOf(c))
	}
	b.WriteString(strings.Join(headers, columnSeparator))
	b.WriteString("\n")

	parts := make([]string, len(m.columns))
	for row := m.win.visibleFrom; row < m.win.visibleTo; row++ {
		for col, c := range m.columns {
			parts[col] = m.renderCell(row, col, m.widthOf(c))
		}
		b.WriteString(strings.Join(parts, columnSeparator))
		b.WriteString("\n")
	}

	b.WriteString(m.status())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderCell(row, col, width int) string {
	c := m.cells[cellKey{row: row, col: col}]
	style := cellStyle
	var text string
	switch {
	case c == nil:
	case c.err != nil:
		text = "!error"
		style = errorStyle
	default:
		if gui := c.renderer.GUI(); gui != nil {
			text = gui.TextContent()
		}
		if s, ok := c.renderer.(stateful); ok && s.State() == adapter.StatePromoted {
			style = promotedStyle
		}
	}
	if row == m.win.selected && col == m.col {
		style = cursorStyle
	}
	return fit(style, text, width)
}

func (m *Model) status() string {
	var stats host.Stats
	if m.host != nil {
		stats = m.host.Stats()
	}
	return statusStyle.Render(m.printer.Sprintf(
		"row %d/%d  cells %d  components live %d (created %d, released %d)",
		m.win.selected+1, m.win.total, len(m.cells), stats.Live(), stats.Created, stats.Released,
	))
}

func (m *Model) widthOf(c Column) int {
	if c.Width > 0 {
		return c.Width
	}
	return m.colWidth
}

// CellCount returns the number of live cells.
func (m *Model) CellCount() int { return len(m.cells) }

// Renderer returns the renderer of a live cell, or nil.
func (m *Model) Renderer(row, col int) CellRenderer {
	if c := m.cells[cellKey{row: row, col: col}]; c != nil {
		return c.renderer
	}
	return nil
}

// FocusTarget returns the focus node of a live cell, or nil.
func (m *Model) FocusTarget(row, col int) *dom.Node {
	if c := m.cells[cellKey{row: row, col: col}]; c != nil {
		return c.focus
	}
	return nil
}

// Cursor returns the selected row and column.
func (m *Model) Cursor() (int, int) { return m.win.selected, m.col }

// VisibleRange returns the visible rows as [from, to).
func (m *Model) VisibleRange() (int, int) { return m.win.visibleFrom, m.win.visibleTo }

// RenderRange returns the rows holding live cells as [from, to).
func (m *Model) RenderRange() (int, int) { return m.win.renderRange() }
