package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/lazygrid/internal/config"
	"github.com/rshade/lazygrid/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the lazygrid CLI.
// It wires up configuration, logging and tracing before any subcommand runs.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithEnv(ver, os.LookupEnv)
}

// NewRootCmdWithEnv creates the root command with an explicit env lookup for testability.
func NewRootCmdWithEnv(ver string, lookupEnv func(string) (string, bool)) *cobra.Command {
	var (
		logResult  *logging.LogPathResult
		configFlag string
	)

	cmd := &cobra.Command{
		Use:     "lazygrid",
		Short:   "Deferred-activation cell rendering for data grids",
		Long:    "lazygrid: paint cheap placeholders first, promote cells to rich components on interaction",
		Version: ver,
		Example: rootCmdExample,
		// Errors are printed once by main.
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, configFlag, lookupEnv)
			if err != nil {
				if !toleratesBadConfig(cmd) {
					return err
				}
				cmd.SetContext(context.WithValue(cmd.Context(), configErrKey{}, err))
				cfg = config.New()
			}
			config.SetGlobalConfig(cfg)
			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&configFlag, "config", "",
		"path to "+config.DefaultFileName+" (default: $"+config.EnvConfigPath+" or the nearest file upwards)")
	cmd.AddCommand(NewDemoCmd(), NewSimulateCmd(), newConfigCmd())

	return cmd
}

type configErrKey struct{}

// configErrFromContext returns the configuration error tolerated for cmd, if any.
func configErrFromContext(ctx context.Context) error {
	err, _ := ctx.Value(configErrKey{}).(error)
	return err
}

// toleratesBadConfig reports whether cmd runs on defaults when the
// configuration cannot be loaded. Both config subcommands must work on a
// broken file.
func toleratesBadConfig(cmd *cobra.Command) bool {
	return cmd.HasParent() && cmd.Parent().Name() == "config"
}

// loadConfig resolves, loads and validates the configuration.
func loadConfig(cmd *cobra.Command, flagValue string, lookupEnv func(string) (string, bool)) (*config.Config, error) {
	startDir, err := os.Getwd()
	if err != nil {
		startDir = "."
	}
	path := config.ResolveConfigPath(cmd.Context(), flagValue, startDir)

	cfg := config.New()
	if path != "" {
		if err = config.ShallowMergeYAML(cfg, path); err != nil {
			return nil, fmt.Errorf("loading configuration: %w", err)
		}
		cfg.SetConfigPath(path)
	}
	if err = cfg.ApplyEnv(lookupEnv); err != nil {
		return nil, err
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

const rootCmdExample = `  # Browse 1000 generated ETF rows; hover or focus a cell to promote it
  lazygrid demo

  # Larger grid with a fixed seed
  lazygrid demo --rows 5000 --seed 7

  # Headless leak check on the event loop
  lazygrid simulate --cells 500 --recycles 5

  # Write a default configuration file
  lazygrid config init

  # Check the resolved configuration
  lazygrid config validate --verbose`

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigValidateCmd())
	return cmd
}
