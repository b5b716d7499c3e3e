// Package config loads lazygrid's YAML configuration: defaults, an optional
// file shallow-merged on top, then environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/rshade/lazygrid/internal/adapter"
	"github.com/rshade/lazygrid/internal/dom"
)

// SchemaVersion is the schema written by this build.
const SchemaVersion = "1.0.0"

// supportedSchema is the range of schema versions this build can read.
const supportedSchema = "^1.0.0"

// DefaultFileName is the config file looked up when no path is given.
const DefaultFileName = "lazygrid.yaml"

// Environment variables recognized by Load.
const (
	EnvConfigPath    = "LAZYGRID_CONFIG"
	EnvLogLevel      = "LAZYGRID_LOG_LEVEL"
	EnvLogFormat     = "LAZYGRID_LOG_FORMAT"
	EnvIdleTimeoutMS = "LAZYGRID_IDLE_TIMEOUT_MS"
)

const (
	defaultViewportRows = 20
	defaultBufferRows   = 5
	defaultColumnWidth  = 18
	defaultIdlePollMS   = 16
	defaultDemoRows     = 1000
	defaultDemoSeed     = 42
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the complete lazygrid configuration.
type Config struct {
	SchemaVersion string        `yaml:"schema_version"`
	Logging       LoggingConfig `yaml:"logging"`
	Adapter       AdapterConfig `yaml:"adapter"`
	Grid          GridConfig    `yaml:"grid"`
	Demo          DemoConfig    `yaml:"demo"`

	path string
}

// LoggingConfig configures the application logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// AdapterConfig configures the cell adapters of every column.
type AdapterConfig struct {
	ActivationEvents []string `yaml:"activation_events"`
	IdleTimeoutMS    int      `yaml:"idle_timeout_ms"`
}

// GridConfig configures the grid's viewport.
type GridConfig struct {
	ViewportRows int `yaml:"viewport_rows"`
	BufferRows   int `yaml:"buffer_rows"`
	ColumnWidth  int `yaml:"column_width"`
	IdlePollMS   int `yaml:"idle_poll_ms"`
}

// DemoConfig configures the mock dataset.
type DemoConfig struct {
	Rows int    `yaml:"rows"`
	Seed uint64 `yaml:"seed"`
}

// New returns the default configuration.
func New() *Config {
	return &Config{
		SchemaVersion: SchemaVersion,
		Logging:       defaultLogging(),
		Adapter:       defaultAdapter(),
		Grid:          defaultGrid(),
		Demo:          defaultDemo(),
	}
}

func defaultLogging() LoggingConfig {
	return LoggingConfig{Level: "info", Format: "console"}
}

func defaultAdapter() AdapterConfig {
	return AdapterConfig{
		ActivationEvents: []string{dom.EventMouseOver},
		IdleTimeoutMS:    int(adapter.DefaultIdleTimeout / time.Millisecond),
	}
}

func defaultGrid() GridConfig {
	return GridConfig{
		ViewportRows: defaultViewportRows,
		BufferRows:   defaultBufferRows,
		ColumnWidth:  defaultColumnWidth,
		IdlePollMS:   defaultIdlePollMS,
	}
}

func defaultDemo() DemoConfig {
	return DemoConfig{Rows: defaultDemoRows, Seed: defaultDemoSeed}
}

// Load builds a configuration from the defaults, the file at path (skipped
// when path is empty), and the environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := New()
	if path != "" {
		if err := ShallowMergeYAML(cfg, path); err != nil {
			return nil, err
		}
		cfg.path = path
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv applies environment overrides using lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		c.Logging.Format = v
	}
	if v, ok := lookup(EnvIdleTimeoutMS); ok && v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, EnvIdleTimeoutMS, v)
		}
		c.Adapter.IdleTimeoutMS = ms
	}
	return nil
}

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if err := checkSchema(c.SchemaVersion); err != nil {
		errs = append(errs, err)
	}
	for i, e := range c.Adapter.ActivationEvents {
		if e == "" {
			add("adapter.activation_events[%d] is empty", i)
		}
	}
	if c.Adapter.IdleTimeoutMS <= 0 {
		add("adapter.idle_timeout_ms must be positive, got %d", c.Adapter.IdleTimeoutMS)
	}
	if c.Grid.ViewportRows <= 0 {
		add("grid.viewport_rows must be positive, got %d", c.Grid.ViewportRows)
	}
	if c.Grid.BufferRows < 0 {
		add("grid.buffer_rows must not be negative, got %d", c.Grid.BufferRows)
	}
	if c.Grid.ColumnWidth <= 0 {
		add("grid.column_width must be positive, got %d", c.Grid.ColumnWidth)
	}
	if c.Grid.IdlePollMS <= 0 {
		add("grid.idle_poll_ms must be positive, got %d", c.Grid.IdlePollMS)
	}
	if c.Demo.Rows < 0 {
		add("demo.rows must not be negative, got %d", c.Demo.Rows)
	}
	return errors.Join(errs...)
}

func checkSchema(version string) error {
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%w: schema_version %q: %w", ErrInvalidConfig, version, err)
	}
	constraint, err := semver.NewConstraint(supportedSchema)
	if err != nil {
		return fmt.Errorf("parsing supported schema range: %w", err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("%w: schema_version %s is not supported (want %s)",
			ErrInvalidConfig, version, supportedSchema)
	}
	return nil
}

// AdapterOptions converts the adapter section to adapter options.
func (c *Config) AdapterOptions() *adapter.Options {
	return &adapter.Options{
		ActivationEvents: c.Adapter.ActivationEvents,
		IdleTimeout:      time.Duration(c.Adapter.IdleTimeoutMS) * time.Millisecond,
	}
}

// IdlePoll returns the grid's idle poll interval.
func (c *Config) IdlePoll() time.Duration {
	return time.Duration(c.Grid.IdlePollMS) * time.Millisecond
}

// ConfigPath returns the file the configuration was loaded from or will be
// saved to.
func (c *Config) ConfigPath() string { return c.path }

// SetConfigPath sets the file Save writes to.
func (c *Config) SetConfigPath(path string) { c.path = path }

// Save writes the configuration as YAML to its config path.
func (c *Config) Save() error {
	if c.path == "" {
		return errors.New("config path is not set")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if dir := filepath.Dir(c.path); dir != "" {
		if err = os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}
	if err = os.WriteFile(c.path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file %s: %w", c.path, err)
	}
	return nil
}
