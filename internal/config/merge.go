package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML config key names used for shallow merge.
const (
	keySchemaVersion = "schema_version"
	keyLogging       = "logging"
	keyAdapter       = "adapter"
	keyGrid          = "grid"
	keyDemo          = "demo"
)

// knownTopLevelKeys lists the YAML keys that correspond to exported Config fields.
// Keys not in this list are silently ignored during merge.
//
//nolint:gochecknoglobals // Compile-time constant lookup table.
var knownTopLevelKeys = map[string]bool{
	keySchemaVersion: true,
	keyLogging:       true,
	keyAdapter:       true,
	keyGrid:          true,
	keyDemo:          true,
}

// ShallowMergeYAML loads a YAML file and merges its top-level keys onto
// the target Config. Keys present in the overlay replace entire sections
// in the target. Keys absent in the overlay are left unchanged.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	// Discover which top-level keys are present in the overlay.
	var overlay map[string]interface{}
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	// Empty or comment-only file: nothing to merge.
	if len(overlay) == 0 {
		return nil
	}

	for key, value := range overlay {
		if !knownTopLevelKeys[key] {
			continue
		}

		// Re-marshal the single section so we can unmarshal it onto the
		// strongly-typed target field.
		sectionBytes, marshalErr := yaml.Marshal(value)
		if marshalErr != nil {
			return fmt.Errorf("re-marshalling overlay section %q: %w", key, marshalErr)
		}

		if err = unmarshalSection(target, key, sectionBytes); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}

	return nil
}

// unmarshalSection unmarshals raw YAML bytes into the correct field of target
// based on the given key name. Each section is decoded onto a fresh copy of
// its defaults, so the overlay replaces whatever the target held and fields
// the overlay omits take their default values.
func unmarshalSection(target *Config, key string, data []byte) error {
	switch key {
	case keySchemaVersion:
		var v string
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.SchemaVersion = v
		return nil
	case keyLogging:
		v := defaultLogging()
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Logging = v
		return nil
	case keyAdapter:
		v := defaultAdapter()
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Adapter = v
		return nil
	case keyGrid:
		v := defaultGrid()
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Grid = v
		return nil
	case keyDemo:
		v := defaultDemo()
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Demo = v
		return nil
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
}
