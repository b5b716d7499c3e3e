package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/lazygrid/internal/config"
	"github.com/rshade/lazygrid/internal/etf"
	"github.com/rshade/lazygrid/internal/grid"
	"github.com/rshade/lazygrid/internal/host"
	"github.com/rshade/lazygrid/internal/logging"
	"github.com/rshade/lazygrid/internal/view"
	"github.com/rshade/lazygrid/internal/widgets"
)

// ErrNotTerminal is returned when the interactive grid is started without a terminal.
var ErrNotTerminal = errors.New("demo requires an interactive terminal")

// DemoOptions holds the flags of the demo command.
type DemoOptions struct {
	Rows int
	Seed uint64
}

// NewDemoCmd creates the demo command, which browses a generated ETF dataset
// in an interactive grid whose cells are promoted on hover or focus.
func NewDemoCmd() *cobra.Command {
	var opts DemoOptions

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Browse a generated ETF dataset in an interactive grid",
		Long: `Opens a full-screen grid over generated exchange-traded fund rows.

Every cell is painted as a cheap placeholder. Hovering a cell with the mouse,
or moving the cursor onto it, promotes it to an editable value input on the
next turn. Cells that scroll out of the buffered window are destroyed.`,
		Example: `  # Default dataset
  lazygrid demo

  # 5000 rows, deterministic values
  lazygrid demo --rows 5000 --seed 7`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemo(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Rows, "rows", 0, "number of rows (default: demo.rows from config)")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed (default: demo.seed from config)")

	return cmd
}

func runDemo(cmd *cobra.Command, opts DemoOptions) error {
	if !isTerminal(os.Stdin) || !isWriterTerminal(cmd.OutOrStdout()) {
		return ErrNotTerminal
	}

	cfg := config.GetGlobalConfig()
	ctx := cmd.Context()
	// Log lines on stderr would tear the full-screen view.
	debug, _ := cmd.Flags().GetBool("debug")
	if cfg.Logging.File == "" || debug {
		nop := zerolog.Nop()
		ctx = nop.WithContext(ctx)
	}

	model, err := newDemoModel(ctx, cfg, opts)
	if err != nil {
		return err
	}
	defer model.Close()

	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	if _, err = p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running grid: %w", err)
	}
	return nil
}

// newDemoModel builds the grid for the demo dataset. Flag values override
// the configuration's demo section.
func newDemoModel(ctx context.Context, cfg *config.Config, opts DemoOptions) (*grid.Model, error) {
	rows := cfg.Demo.Rows
	if opts.Rows != 0 {
		rows = opts.Rows
	}
	if rows <= 0 {
		return nil, fmt.Errorf("%w: rows must be positive, got %d", config.ErrInvalidConfig, rows)
	}
	seed := cfg.Demo.Seed
	if opts.Seed != 0 {
		seed = opts.Seed
	}

	log := logging.FromContext(ctx)
	log.Debug().Ctx(ctx).Int("rows", rows).Uint64("seed", seed).Msg("building demo grid")

	table := etf.NewTable(rows, seed)
	adapterOpts := cfg.AdapterOptions()
	var columns []grid.Column
	for _, c := range etf.Columns() {
		columns = append(columns, grid.Column{
			Field:     c.Field,
			Header:    c.Header,
			Component: widgets.ValueInputType,
			Options:   adapterOpts,
		})
	}

	mgr := host.NewManager(view.NewApp(logging.ComponentLogger(*log, "view")))
	return grid.New(ctx, table, columns, mgr,
		grid.WithViewportRows(cfg.Grid.ViewportRows),
		grid.WithBufferRows(cfg.Grid.BufferRows),
		grid.WithColumnWidth(cfg.Grid.ColumnWidth),
		grid.WithIdlePoll(cfg.IdlePoll()),
	), nil
}

// isWriterTerminal reports whether w is an *os.File attached to a terminal.
func isWriterTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isTerminal(f)
	}
	return false
}
