package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rshade/lazygrid/internal/config"
)

// NewConfigInitCmd creates the config init command for initializing configuration.
// It writes a default lazygrid.yaml into the given directory, the current one by default.
func NewConfigInitCmd() *cobra.Command {
	var (
		force bool
		dir   string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates a new ` + config.DefaultFileName + ` with default values.

The file is picked up by every command run in that directory or below it,
unless --config or $` + config.EnvConfigPath + ` points elsewhere.`,
		Example: `  # Create configuration in the current directory
  lazygrid config init

  # Create configuration elsewhere, overwriting an existing file
  lazygrid config init --dir ./grid --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(cmd, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	cmd.Flags().StringVar(&dir, "dir", ".", "directory to write the configuration file to")

	return cmd
}

func initConfig(cmd *cobra.Command, dir string, force bool) error {
	configPath := filepath.Join(dir, config.DefaultFileName)

	// Check if config already exists and force isn't set
	if !force {
		_, err := os.Stat(configPath)
		if err == nil {
			return errors.New("configuration file already exists, use --force to overwrite")
		}
		if !os.IsNotExist(err) {
			return fmt.Errorf("cannot access config path %s: %w", configPath, err)
		}
	}

	cfg := config.New()
	cfg.SetConfigPath(configPath)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	cmd.Printf("Configuration initialized at %s\n", configPath)
	return nil
}
