// Copyright (C) 2026 Solidforge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

import (
	"context"
	"fmt"

	"github.com/solidforge/solidforge/internal/config"
)

// Registry holds the full tool set and resolves the subsets agents declare.
type Registry struct {
	tools map[ID]Tool
}

// NewRegistry builds the tool set from config. File tools are scoped to the
// two repository roots and the pipeline work directory.
func NewRegistry(cfg *config.AppConfig) *Registry {
	roots := []string{
		cfg.Repos.ShapesPath,
		cfg.Repos.ObjectPath,
		cfg.Pipeline.WorkDir,
	}

	r := &Registry{tools: make(map[ID]Tool)}
	r.register(&readFileTool{roots: roots})
	r.register(&listDirectoryTool{roots: roots})
	r.register(&writeFileTool{roots: roots})
	r.register(newShellTool(&cfg.Shell, cfg.Pipeline.WorkDir))
	return r
}

func (r *Registry) register(t Tool) {
	r.tools[t.ID()] = t
}

// Get returns the tool for an id.
func (r *Registry) Get(id ID) (Tool, error) {
	t, ok := r.tools[id]
	if !ok {
		return nil, fmt.Errorf("unknown tool: %s", id)
	}
	return t, nil
}

// Resolve converts declared tool names into ids, failing on any name
// outside the registered set. This runs before a pipeline starts so bad
// references fail construction, not execution.
func (r *Registry) Resolve(names []string) ([]ID, error) {
	ids := make([]ID, 0, len(names))
	for _, name := range names {
		id := ID(name)
		if _, ok := r.tools[id]; !ok {
			return nil, fmt.Errorf("unknown tool: %s", name)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Declarations returns the function declarations for a tool subset, in the
// declared order.
func (r *Registry) Declarations(ids []ID) ([]Declaration, error) {
	decls := make([]Declaration, 0, len(ids))
	for _, id := range ids {
		t, err := r.Get(id)
		if err != nil {
			return nil, err
		}
		decls = append(decls, t.Declaration())
	}
	return decls, nil
}

// Execute runs a tool by id and returns the invocation record. An unknown
// id produces an error report, mirroring how tools themselves report
// failures as text.
func (r *Registry) Execute(ctx context.Context, id ID, args map[string]any) Invocation {
	inv := Invocation{Tool: id, Input: args}
	t, ok := r.tools[id]
	if !ok {
		inv.Output = fmt.Sprintf("Error: unknown tool: %s", id)
		inv.ExitStatus = 1
		return inv
	}
	inv.Output = t.Run(ctx, args)
	return inv
}
