// Copyright (C) 2026 Solidforge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFileTool(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shape.ttl")
	require.NoError(t, os.WriteFile(path, []byte("ex:EmailShape a sh:NodeShape ."), 0644))

	tool := &readFileTool{roots: []string{dir}}
	out := tool.Run(context.Background(), map[string]any{"path": path})

	assert.Equal(t, "ex:EmailShape a sh:NodeShape .", out)
}

func TestReadFileToolOutsideRoots(t *testing.T) {
	tool := &readFileTool{roots: []string{t.TempDir()}}

	out := tool.Run(context.Background(), map[string]any{"path": "/etc/passwd"})
	assert.Contains(t, out, "outside the allowed directories")
}

func TestReadFileToolMissing(t *testing.T) {
	dir := t.TempDir()
	tool := &readFileTool{roots: []string{dir}}

	out := tool.Run(context.Background(), map[string]any{"path": filepath.Join(dir, "nope.ttl")})
	assert.Contains(t, out, "Error: failed to read file")
}

func TestListDirectoryTool(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.ttl"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.ttl"), nil, 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "examples"), 0755))

	tool := &listDirectoryTool{roots: []string{dir}}
	out := tool.Run(context.Background(), map[string]any{"path": dir})

	assert.Equal(t, "a.ttl\nb.ttl\nexamples/", out)
}

func TestWriteFileTool(t *testing.T) {
	dir := t.TempDir()
	tool := &writeFileTool{roots: []string{dir}}
	path := filepath.Join(dir, "generated", "email.ts")

	out := tool.Run(context.Background(), map[string]any{
		"path":    path,
		"content": "export class Email {}",
	})

	assert.Contains(t, out, "Wrote 21 bytes")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "export class Email {}", string(data))
}

func TestWriteFileAtomicReplacesWholeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.md")
	require.NoError(t, WriteFileAtomic(path, []byte("first version")))
	require.NoError(t, WriteFileAtomic(path, []byte("second")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
