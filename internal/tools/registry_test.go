// Copyright (C) 2026 Solidforge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solidforge/solidforge/internal/config"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	dir := t.TempDir()
	return NewRegistry(&config.AppConfig{
		Repos:    config.ReposConfig{ShapesPath: dir, ObjectPath: dir},
		Shell:    config.ShellConfig{Timeout: 10 * time.Second},
		Pipeline: config.PipelineConfig{WorkDir: dir},
	})
}

func TestRegistryResolve(t *testing.T) {
	r := newTestRegistry(t)

	ids, err := r.Resolve([]string{"read_file", "run_shell"})
	require.NoError(t, err)
	assert.Equal(t, []ID{ReadFile, RunShell}, ids)
}

func TestRegistryResolveUnknown(t *testing.T) {
	r := newTestRegistry(t)

	_, err := r.Resolve([]string{"read_file", "format_disk"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown tool: format_disk")
}

func TestRegistryDeclarations(t *testing.T) {
	r := newTestRegistry(t)

	decls, err := r.Declarations([]ID{WriteFile, ListDirectory})
	require.NoError(t, err)
	require.Len(t, decls, 2)
	assert.Equal(t, "write_file", decls[0].Name)
	assert.Equal(t, "list_directory", decls[1].Name)
	assert.NotEmpty(t, decls[0].Parameters)
}

func TestRegistryExecuteUnknownTool(t *testing.T) {
	r := newTestRegistry(t)

	inv := r.Execute(context.Background(), ID("bogus"), nil)
	assert.Equal(t, 1, inv.ExitStatus)
	assert.Contains(t, inv.Output, "unknown tool")
}

func TestRegistryExecute(t *testing.T) {
	r := newTestRegistry(t)

	inv := r.Execute(context.Background(), RunShell, map[string]any{"command": "echo hi"})
	assert.Equal(t, RunShell, inv.Tool)
	assert.Equal(t, 0, inv.ExitStatus)
	assert.Contains(t, inv.Output, "hi")
}
