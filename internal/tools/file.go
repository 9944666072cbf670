// Copyright (C) 2026 Solidforge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/solidforge/solidforge/internal/logger"
)

// resolvePath makes path absolute and verifies it falls under one of the
// allowed roots. An empty root list disables the check.
func resolvePath(roots []string, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}
	abs = filepath.Clean(abs)

	if len(roots) == 0 {
		return abs, nil
	}
	for _, root := range roots {
		rootAbs, err := filepath.Abs(root)
		if err != nil {
			continue
		}
		rootAbs = filepath.Clean(rootAbs)
		if abs == rootAbs || strings.HasPrefix(abs, rootAbs+string(filepath.Separator)) {
			return abs, nil
		}
	}
	return "", fmt.Errorf("path %q is outside the allowed directories", path)
}

// readFileTool reads a file and returns its contents.
type readFileTool struct {
	roots []string
}

func (t *readFileTool) ID() ID { return ReadFile }

func (t *readFileTool) Declaration() Declaration {
	return Declaration{
		Name:        string(ReadFile),
		Description: "Read the complete contents of a file at the given path.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"path": map[string]any{
					"type":        "string",
					"description": "Path of the file to read.",
				},
			},
			"required": []string{"path"},
		},
	}
}

func (t *readFileTool) Run(ctx context.Context, args map[string]any) string {
	path, err := resolvePath(t.roots, stringArg(args, "path"))
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Sprintf("Error: failed to read file: %v", err)
	}
	return string(data)
}

// listDirectoryTool lists directory entries, marking subdirectories.
type listDirectoryTool struct {
	roots []string
}

func (t *listDirectoryTool) ID() ID { return ListDirectory }

func (t *listDirectoryTool) Declaration() Declaration {
	return Declaration{
		Name:        string(ListDirectory),
		Description: "List the entries of a directory. Directories are suffixed with a slash.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"path": map[string]any{
					"type":        "string",
					"description": "Path of the directory to list.",
				},
			},
			"required": []string{"path"},
		},
	}
}

func (t *listDirectoryTool) Run(ctx context.Context, args map[string]any) string {
	path, err := resolvePath(t.roots, stringArg(args, "path"))
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Sprintf("Error: failed to list directory: %v", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, "\n")
}

// writeFileTool writes file contents atomically: the data lands in a
// temporary file in the target directory and is renamed into place, so a
// crash never leaves a half-written artifact.
type writeFileTool struct {
	roots []string
}

func (t *writeFileTool) ID() ID { return WriteFile }

func (t *writeFileTool) Declaration() Declaration {
	return Declaration{
		Name:        string(WriteFile),
		Description: "Write content to a file, creating parent directories as needed. The write is atomic.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"path": map[string]any{
					"type":        "string",
					"description": "Destination file path.",
				},
				"content": map[string]any{
					"type":        "string",
					"description": "Full file content to write.",
				},
			},
			"required": []string{"path", "content"},
		},
	}
}

func (t *writeFileTool) Run(ctx context.Context, args map[string]any) string {
	path, err := resolvePath(t.roots, stringArg(args, "path"))
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	content := stringArg(args, "content")

	if err := WriteFileAtomic(path, []byte(content)); err != nil {
		return fmt.Sprintf("Error: failed to write file: %v", err)
	}

	log := logger.GetToolsLogger()
	log.Debug().Str("path", path).Int("bytes", len(content)).Msg("Wrote file")
	return fmt.Sprintf("Wrote %d bytes to %s", len(content), path)
}

// WriteFileAtomic writes data to path via a temp file and rename. Readers
// observe either the old content or the complete new content, never a
// partial write.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
