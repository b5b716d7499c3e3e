package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/lazygrid/internal/config"
	"github.com/rshade/lazygrid/internal/sim"
	"github.com/rshade/lazygrid/internal/widgets"
)

// SimulateOptions holds the flags of the simulate command.
type SimulateOptions struct {
	Cells         int
	InteractEvery int
	Recycles      int
	Churn         int
	Timeout       time.Duration
}

// NewSimulateCmd creates the simulate command, a headless lifecycle check on
// a real event loop.
func NewSimulateCmd() *cobra.Command {
	var opts SimulateOptions

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run cells headlessly on an event loop and report leaks",
		Long: `Initializes a batch of cells on an event loop, hovers every Nth cell so it
is promoted, destroys and rebuilds the batch several times, and finally
creates and destroys a burst of cells within a single turn.

The counters printed at the end must balance: every hovered cell creates
exactly one component, every component is released, and no listeners or
next-turn tasks remain. Otherwise the command exits with code 3.`,
		Example: `  # Defaults
  lazygrid simulate

  # Larger run
  lazygrid simulate --cells 1000 --every 3 --recycles 10`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSimulate(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Cells, "cells", 200, "cells per batch")
	cmd.Flags().IntVar(&opts.InteractEvery, "every", 7, "hover every Nth cell")
	cmd.Flags().IntVar(&opts.Recycles, "recycles", 3, "destroy-and-rebuild passes after the first batch")
	cmd.Flags().IntVar(&opts.Churn, "churn", 50, "cells created and destroyed within one turn")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 10*time.Second, "maximum wait for cells to settle")

	return cmd
}

func runSimulate(cmd *cobra.Command, opts SimulateOptions) error {
	cfg := config.GetGlobalConfig()
	res, err := sim.Run(cmd.Context(), sim.Config{
		Cells:         opts.Cells,
		InteractEvery: opts.InteractEvery,
		Recycles:      opts.Recycles,
		Churn:         opts.Churn,
		Options:       cfg.AdapterOptions(),
		IdlePoll:      cfg.IdlePoll(),
		WaitTimeout:   opts.Timeout,
	}, widgets.ValueInputType)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	renderSimulation(cmd.OutOrStdout(), res)
	if !res.Clean() {
		return &ExitError{
			ExitCode: ExitCodeLeak,
			Reason:   fmt.Sprintf("simulation leaked: %d live components, %d listeners", res.Live, res.Listeners),
		}
	}
	return nil
}

func renderSimulation(w io.Writer, res sim.Result) {
	p := message.NewPrinter(language.English)
	_, _ = p.Fprintf(w, "Cells initialized:   %d\n", res.Initialized)
	_, _ = p.Fprintf(w, "Cells interacted:    %d\n", res.Interacted)
	_, _ = p.Fprintf(w, "Components created:  %d\n", res.Created)
	_, _ = p.Fprintf(w, "Components released: %d\n", res.Released)
	_, _ = p.Fprintf(w, "Components live:     %d\n", res.Live)
	_, _ = p.Fprintf(w, "Views attached:      %d\n", res.Views)
	_, _ = p.Fprintf(w, "Listeners left:      %d\n", res.Listeners)
	_, _ = p.Fprintf(w, "Pending turns:       %d\n", res.PendingTurns)
	_, _ = p.Fprintf(w, "Elapsed:             %s\n", res.Elapsed.Round(time.Millisecond))
	if res.Clean() {
		_, _ = fmt.Fprintln(w, "Result: clean")
	} else {
		_, _ = fmt.Fprintln(w, "Result: LEAKED")
	}
}
