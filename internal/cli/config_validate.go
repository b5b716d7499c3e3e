package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/lazygrid/internal/config"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the resolved configuration: the file found via --config,
$` + config.EnvConfigPath + ` or the nearest ` + config.DefaultFileName + `, plus
environment overrides.

This includes:
- Schema version compatibility
- Activation event names
- Idle timeout and grid sizes`,
		Example: `  # Validate current configuration
  lazygrid config validate

  # Validate and show detailed information
  lazygrid config validate --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	if err := configErrFromContext(cmd.Context()); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	cfg := config.GetGlobalConfig()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	cmd.Printf("Configuration is valid\n")

	if verbose {
		printVerboseDetails(cmd, cfg)
	}
	return nil
}

// printVerboseDetails prints detailed configuration information.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	source := cfg.ConfigPath()
	if source == "" {
		source = "(defaults)"
	}

	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Source: %s\n", source)
	cmd.Printf("  Schema version: %s\n", cfg.SchemaVersion)
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	cmd.Printf("  Log file: %s\n", cfg.Logging.File)

	events := "(focus only)"
	if len(cfg.Adapter.ActivationEvents) > 0 {
		events = strings.Join(cfg.Adapter.ActivationEvents, ", ")
	}
	cmd.Printf("  Activation events: %s\n", events)
	cmd.Printf("  Idle timeout: %dms\n", cfg.Adapter.IdleTimeoutMS)
	cmd.Printf("  Viewport rows: %d (buffer %d)\n", cfg.Grid.ViewportRows, cfg.Grid.BufferRows)
	cmd.Printf("  Column width: %d\n", cfg.Grid.ColumnWidth)
	cmd.Printf("  Demo dataset: %d rows, seed %d\n", cfg.Demo.Rows, cfg.Demo.Seed)
}
