package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rshade/lazygrid/internal/logging"
)

// ResolveConfigPath determines which config file to load.
// It checks (in order):
//  1. flagValue (--config CLI flag)
//  2. LAZYGRID_CONFIG env var
//  3. a lazygrid.yaml in startDir or any of its parents
//
// Returns an absolute path, or empty string if no config file applies.
// Does NOT check that an explicitly requested file exists; Load reports that.
func ResolveConfigPath(ctx context.Context, flagValue, startDir string) string {
	if flagValue != "" {
		return toAbs(ctx, flagValue)
	}

	if envPath := os.Getenv(EnvConfigPath); envPath != "" {
		return toAbs(ctx, envPath)
	}

	found, err := findUp(toAbs(ctx, startDir), DefaultFileName)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger := logging.FromContext(ctx)
			logger.Warn().
				Str("component", "config").
				Err(err).
				Str("start_dir", startDir).
				Msg("unexpected error during config discovery")
		}
		return ""
	}
	return found
}

// findUp walks from dir towards the filesystem root looking for name.
func findUp(dir, name string) (string, error) {
	for {
		candidate := filepath.Join(dir, name)
		info, err := os.Stat(candidate)
		switch {
		case err == nil && !info.IsDir():
			return candidate, nil
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return "", err
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fs.ErrNotExist
		}
		dir = parent
	}
}

// toAbs converts path to an absolute path, falling back to path unchanged.
func toAbs(ctx context.Context, path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		logger := logging.FromContext(ctx)
		logger.Warn().
			Str("component", "config").
			Err(err).
			Str("path", path).
			Msg("failed to resolve absolute path")
		return path
	}
	return abs
}
