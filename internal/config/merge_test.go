package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/lazygrid/internal/config"
)

// newCustomTarget returns a Config with non-default values so tests can
// verify that absent overlay keys leave the original values intact.
func newCustomTarget() *config.Config {
	cfg := config.New()
	cfg.Logging = config.LoggingConfig{Level: "debug", Format: "json"}
	cfg.Adapter = config.AdapterConfig{ActivationEvents: []string{"click"}, IdleTimeoutMS: 200}
	cfg.Grid.ViewportRows = 40
	return cfg
}

func TestShallowMergeYAML_SingleKeyOverride(t *testing.T) {
	target := newCustomTarget()
	overlay := writeConfig(t, `
logging:
  level: warn
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))

	// Logging is replaced; its omitted fields take defaults, not the old values.
	assert.Equal(t, "warn", target.Logging.Level)
	assert.Equal(t, "console", target.Logging.Format)

	// Other sections should be unchanged.
	assert.Equal(t, []string{"click"}, target.Adapter.ActivationEvents)
	assert.Equal(t, 40, target.Grid.ViewportRows)
}

func TestShallowMergeYAML_ListIsReplacedNotMerged(t *testing.T) {
	target := newCustomTarget()
	overlay := writeConfig(t, `
adapter:
  activation_events: [focusin]
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))
	assert.Equal(t, []string{"focusin"}, target.Adapter.ActivationEvents)
	assert.Equal(t, 50, target.Adapter.IdleTimeoutMS)
}

func TestShallowMergeYAML_UnknownKeysIgnored(t *testing.T) {
	target := newCustomTarget()
	overlay := writeConfig(t, `
plugins:
  aws: {}
demo:
  rows: 10
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))
	assert.Equal(t, 10, target.Demo.Rows)
	assert.Equal(t, uint64(42), target.Demo.Seed)
}

func TestShallowMergeYAML_EmptyFile(t *testing.T) {
	target := newCustomTarget()
	overlay := writeConfig(t, "# nothing here\n")

	require.NoError(t, config.ShallowMergeYAML(target, overlay))
	assert.Equal(t, newCustomTarget(), target)
}

func TestShallowMergeYAML_Errors(t *testing.T) {
	require.Error(t, config.ShallowMergeYAML(nil, "x.yaml"))
	require.Error(t, config.ShallowMergeYAML(config.New(), "/nonexistent/lazygrid.yaml"))

	overlay := writeConfig(t, "grid:\n  viewport_rows: many\n")
	err := config.ShallowMergeYAML(config.New(), overlay)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"grid"`)
}
