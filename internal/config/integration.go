package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// GlobalConfig holds the configuration of the running command.
var GlobalConfig *Config        //nolint:gochecknoglobals // Singleton pattern for configuration
var globalConfigMu sync.RWMutex //nolint:gochecknoglobals // Protects GlobalConfig

// SetGlobalConfig installs cfg as the global configuration.
func SetGlobalConfig(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	GlobalConfig = cfg
}

// GetGlobalConfig returns the global configuration, installing the defaults
// if none was set.
func GetGlobalConfig() *Config {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	if GlobalConfig == nil {
		GlobalConfig = New()
	}
	return GlobalConfig
}

// ResetGlobalConfigForTest resets the global config for testing purposes.
func ResetGlobalConfigForTest() {
	SetGlobalConfig(nil)
}

// EnsureLogDir creates the directory of the configured log file, if any.
func EnsureLogDir() error {
	cfg := GetGlobalConfig()
	if cfg.Logging.File == "" {
		return nil
	}
	logDir := filepath.Dir(cfg.Logging.File)
	if err := os.MkdirAll(logDir, 0o700); err != nil {
		return fmt.Errorf("failed to create log directory %q: %w", logDir, err)
	}
	return nil
}
