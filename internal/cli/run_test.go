// Copyright (C) 2026 Solidforge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solidforge/solidforge/internal/config"
)

func testAppConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	dir := t.TempDir()
	defsDir := filepath.Join(dir, "agents")
	require.NoError(t, os.MkdirAll(defsDir, 0755))

	write := func(id, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(defsDir, id+".yaml"), []byte(content), 0644))
	}
	write("architect", `
role: Architect
goal: guidance for {shape_name}
task_description: Analyze {shape_name} in {shapes_path}
tools: [read_file, list_directory]
`)
	write("developer", `
role: Developer
goal: implement {shape_name}
task_description: Implement {shape_name} per guidance
depends_on: [architect]
tools: [read_file, write_file]
`)

	return &config.AppConfig{
		LLM: config.LLMConfig{
			Model:   "gemini-2.5-pro",
			BaseURL: "http://127.0.0.1:1",
			Timeout: time.Second,
		},
		Repos:    config.ReposConfig{ShapesPath: dir, ObjectPath: dir},
		Shell:    config.ShellConfig{Timeout: 60 * time.Second},
		Pipeline: config.PipelineConfig{Tasks: []string{"architect", "developer"}, MaxRevisions: 3, MaxToolSteps: 8, WorkDir: dir},
		Agents:   config.AgentsConfig{DefinitionsDir: defsDir},
	}
}

func TestBuildCrew(t *testing.T) {
	cfg := testAppConfig(t)

	c, st, events, err := buildCrew(cfg, "Email", false, true, false)
	require.NoError(t, err)
	assert.NotNil(t, c)
	assert.Nil(t, st)
	assert.Nil(t, events)
}

func TestBuildCrewUnknownAgent(t *testing.T) {
	cfg := testAppConfig(t)
	cfg.Pipeline.Tasks = []string{"architect", "ghost"}

	_, _, _, err := buildCrew(cfg, "Email", false, true, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestBuildCrewBadToolReference(t *testing.T) {
	cfg := testAppConfig(t)
	bad := `
role: Rogue
goal: g
task_description: d
tools: [format_disk]
`
	require.NoError(t, os.WriteFile(
		filepath.Join(cfg.Agents.DefinitionsDir, "rogue.yaml"), []byte(bad), 0644))
	cfg.Pipeline.Tasks = []string{"rogue"}

	_, _, _, err := buildCrew(cfg, "Email", false, true, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown tool: format_disk")
}

func TestBuildCrewEventsWhenServing(t *testing.T) {
	cfg := testAppConfig(t)

	_, _, events, err := buildCrew(cfg, "Email", true, true, true)
	require.NoError(t, err)
	assert.NotNil(t, events)
}
