package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/lazygrid/internal/config"
	"github.com/rshade/lazygrid/internal/logging"
)

// writeConfig is a test helper that writes YAML content to a temp file
// and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, config.DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestNew_Defaults(t *testing.T) {
	cfg := config.New()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, config.SchemaVersion, cfg.SchemaVersion)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, []string{"mouseover"}, cfg.Adapter.ActivationEvents)
	assert.Equal(t, 50, cfg.Adapter.IdleTimeoutMS)
	assert.Equal(t, 1000, cfg.Demo.Rows)

	opts := cfg.AdapterOptions()
	assert.Equal(t, 50*time.Millisecond, opts.IdleTimeout)
	assert.Equal(t, []string{"mouseover"}, opts.ActivationEvents)
	assert.Equal(t, 16*time.Millisecond, cfg.IdlePoll())
}

func TestLoad(t *testing.T) {
	t.Setenv(config.EnvLogLevel, "")
	t.Setenv(config.EnvLogFormat, "")
	t.Setenv(config.EnvIdleTimeoutMS, "")

	path := writeConfig(t, `
schema_version: 1.2.0
adapter:
  activation_events: [mouseover, click]
  idle_timeout_ms: 120
grid:
  viewport_rows: 12
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.ConfigPath())
	assert.Equal(t, []string{"mouseover", "click"}, cfg.Adapter.ActivationEvents)
	assert.Equal(t, 120, cfg.Adapter.IdleTimeoutMS)
	assert.Equal(t, 12, cfg.Grid.ViewportRows)
	assert.Equal(t, 5, cfg.Grid.BufferRows, "omitted fields keep their defaults")
	assert.Equal(t, "info", cfg.Logging.Level, "absent sections are untouched")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(config.EnvLogLevel, "trace")
	t.Setenv(config.EnvLogFormat, "json")
	t.Setenv(config.EnvIdleTimeoutMS, "75")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "trace", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 75, cfg.Adapter.IdleTimeoutMS)
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv(config.EnvIdleTimeoutMS, "")

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = config.Load(writeConfig(t, "adapter: [unclosed"))
	require.Error(t, err)

	_, err = config.Load(writeConfig(t, "schema_version: 2.0.0\n"))
	require.ErrorIs(t, err, config.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "not supported")
}

func TestApplyEnv_BadTimeout(t *testing.T) {
	cfg := config.New()
	err := cfg.ApplyEnv(envMap(map[string]string{config.EnvIdleTimeoutMS: "soon"}))
	require.ErrorIs(t, err, config.ErrInvalidConfig)

	require.NoError(t, cfg.ApplyEnv(noEnv))
	assert.Equal(t, 50, cfg.Adapter.IdleTimeoutMS)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{name: "empty event", mutate: func(c *config.Config) { c.Adapter.ActivationEvents = []string{""} }, wantErr: "activation_events[0]"},
		{name: "zero timeout", mutate: func(c *config.Config) { c.Adapter.IdleTimeoutMS = 0 }, wantErr: "idle_timeout_ms"},
		{name: "zero viewport", mutate: func(c *config.Config) { c.Grid.ViewportRows = 0 }, wantErr: "viewport_rows"},
		{name: "negative buffer", mutate: func(c *config.Config) { c.Grid.BufferRows = -1 }, wantErr: "buffer_rows"},
		{name: "zero width", mutate: func(c *config.Config) { c.Grid.ColumnWidth = 0 }, wantErr: "column_width"},
		{name: "zero poll", mutate: func(c *config.Config) { c.Grid.IdlePollMS = 0 }, wantErr: "idle_poll_ms"},
		{name: "negative rows", mutate: func(c *config.Config) { c.Demo.Rows = -5 }, wantErr: "demo.rows"},
		{name: "bad schema", mutate: func(c *config.Config) { c.SchemaVersion = "one" }, wantErr: "schema_version"},
		{name: "focus only is valid", mutate: func(c *config.Config) { c.Adapter.ActivationEvents = []string{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, config.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	t.Setenv(config.EnvLogLevel, "")
	t.Setenv(config.EnvLogFormat, "")
	t.Setenv(config.EnvIdleTimeoutMS, "")

	cfg := config.New()
	require.Error(t, cfg.Save(), "no path set")

	cfg.SetConfigPath(filepath.Join(t.TempDir(), "nested", config.DefaultFileName))
	cfg.Grid.ColumnWidth = 24
	require.NoError(t, cfg.Save())

	loaded, err := config.Load(cfg.ConfigPath())
	require.NoError(t, err)
	assert.Equal(t, 24, loaded.Grid.ColumnWidth)
}

func TestLoggingConfig_ToLoggingConfig(t *testing.T) {
	lc := config.LoggingConfig{Level: "debug", Format: "json"}
	got := lc.ToLoggingConfig()
	assert.Equal(t, logging.OutputStderr, got.Output)
	assert.Equal(t, "debug", got.Level)

	lc.File = "/tmp/lazygrid.log"
	got = lc.ToLoggingConfig()
	assert.Equal(t, logging.OutputFile, got.Output)
	assert.Equal(t, "/tmp/lazygrid.log", got.File)
}

func TestGlobalConfig(t *testing.T) {
	t.Cleanup(config.ResetGlobalConfigForTest)

	config.ResetGlobalConfigForTest()
	assert.Equal(t, config.New(), config.GetGlobalConfig(), "defaults are installed lazily")

	cfg := config.New()
	cfg.Logging.Level = "warn"
	config.SetGlobalConfig(cfg)
	assert.Equal(t, "warn", config.GetLoggingConfig().Level)

	cfg.Logging.File = filepath.Join(t.TempDir(), "logs", "lazygrid.log")
	require.NoError(t, config.EnsureLogDir())
	assert.DirExists(t, filepath.Dir(cfg.Logging.File))
}
