package adapter

import (
	"errors"
	"fmt"
)

// Sentinel errors for adapter misconfiguration. Both are returned from Init
// wrapped in a *ConfigurationError and are never retried.
var (
	// ErrMissingComponentHost indicates the cell params carry no component
	// host, so the grid integration is misconfigured.
	ErrMissingComponentHost = errors.New(
		"no component host in cell params; provide a host.Manager at CellParams.Host")

	// ErrMissingRendererType indicates no rich component type was supplied
	// for promotion.
	ErrMissingRendererType = errors.New(
		"no component type in cell params; provide one at CellParams.Component")
)

// ConfigurationError reports an unusable cell configuration.
type ConfigurationError struct {
	// Op is the operation that failed.
	Op string
	// Column is the column the cell belongs to, if known.
	Column string
	// Err is the underlying sentinel.
	Err error
}

func (e *ConfigurationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s (column %q): %v", e.Op, e.Column, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
