// Copyright (C) 2026 Solidforge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"flag"
	"fmt"
	"strings"

	"github.com/solidforge/solidforge/internal/agents"
	"github.com/solidforge/solidforge/internal/config"
)

// agentsCommand prints the available agent definitions. With --shape the
// definitions are shown fully resolved, which makes placeholder problems
// visible before a run.
func agentsCommand(args []string) error {
	fs := flag.NewFlagSet("agents", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	shape := fs.String("shape", "", "resolve definitions for this shape name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		return err
	}

	loader := agents.NewLoader(&cfg.Agents)
	ids, err := loader.List()
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Printf("No agent definitions found in %s\n", cfg.Agents.DefinitionsDir)
		return nil
	}

	vars := map[string]string{
		"shape_name":  *shape,
		"shapes_path": cfg.Repos.ShapesPath,
		"object_path": cfg.Repos.ObjectPath,
		"work_dir":    cfg.Pipeline.WorkDir,
	}

	for _, id := range ids {
		def, err := loader.Load(id)
		if err != nil {
			return err
		}

		if *shape != "" {
			def, err = def.Resolve(vars)
			if err != nil {
				return err
			}
		}

		var b strings.Builder
		fmt.Fprintf(&b, "%s\n", titleStyle.Render(id))
		fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render("role:"), def.Role)
		fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render("goal:"), def.Goal)
		if len(def.Tools) > 0 {
			fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render("tools:"), strings.Join(def.Tools, ", "))
		}
		if len(def.DependsOn) > 0 {
			fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render("depends on:"), strings.Join(def.DependsOn, ", "))
		}
		if def.OutputFile != "" {
			fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render("output:"), def.OutputFile)
		}
		if def.ApprovalGate {
			fmt.Fprintf(&b, "  %s\n", dimStyle.Render("requires human approval"))
		}
		if *shape == "" && len(def.Placeholders()) > 0 {
			fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render("placeholders:"), strings.Join(def.Placeholders(), ", "))
		}
		fmt.Println(b.String())
	}
	return nil
}
