package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/lazygrid/internal/adapter"
	"github.com/rshade/lazygrid/internal/config"
)

func TestNewDemoModel(t *testing.T) {
	cfg := config.New()
	cfg.Grid.ViewportRows = 4
	cfg.Grid.BufferRows = 1

	m, err := newDemoModel(context.Background(), cfg, DemoOptions{Rows: 3, Seed: 9})
	require.NoError(t, err)
	defer m.Close()

	m.Init()
	assert.Equal(t, 3*10, m.CellCount(), "every row of the small dataset is rendered")

	r, ok := m.Renderer(0, 0).(*adapter.Adapter)
	require.True(t, ok, "cells are adapters")
	assert.Equal(t, adapter.StateIdle, r.State())
	assert.Equal(t, "native-renderer", r.GUI().Class())
}

func TestNewDemoModel_InvalidRows(t *testing.T) {
	cfg := config.New()
	cfg.Demo.Rows = 0

	_, err := newDemoModel(context.Background(), cfg, DemoOptions{})
	require.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = newDemoModel(context.Background(), config.New(), DemoOptions{Rows: -2})
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestIsWriterTerminal(t *testing.T) {
	assert.False(t, isWriterTerminal(&nopWriter{}))
}

type nopWriter struct{}

func (*nopWriter) Write(p []byte) (int, error) { return len(p), nil }
