// Copyright (C) 2026 Solidforge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := NewConfig("")
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 60*time.Second, cfg.Shell.Timeout)
	assert.Equal(t, 3, cfg.Pipeline.MaxRevisions)
	assert.Equal(t, "gemini-2.5-pro", cfg.LLM.Model)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestNewConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
llm:
  model: gemini-2.5-flash
  models:
    developer: gemini-2.5-pro
  temperature: 0.4
shell:
  timeout: 30s
  allowed_commands:
    - npx
    - node
pipeline:
  max_revisions: 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := NewConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.Model)
	assert.Equal(t, 0.4, cfg.LLM.Temperature)
	assert.Equal(t, 30*time.Second, cfg.Shell.Timeout)
	assert.Equal(t, []string{"npx", "node"}, cfg.Shell.AllowedCommands)
	assert.Equal(t, 5, cfg.Pipeline.MaxRevisions)
}

func TestModelFor(t *testing.T) {
	lc := LLMConfig{
		Model:  "gemini-2.5-flash",
		Models: map[string]string{"architect": "gemini-2.5-pro"},
	}

	assert.Equal(t, "gemini-2.5-pro", lc.ModelFor("architect"))
	assert.Equal(t, "gemini-2.5-flash", lc.ModelFor("developer"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *AppConfig) {},
		},
		{
			name:    "bad log level",
			mutate:  func(c *AppConfig) { c.Log.Level = "LOUD" },
			wantErr: "invalid log level",
		},
		{
			name:    "bad port",
			mutate:  func(c *AppConfig) { c.Server.Port = 0 },
			wantErr: "invalid server port",
		},
		{
			name:    "missing model",
			mutate:  func(c *AppConfig) { c.LLM.Model = "" },
			wantErr: "llm.model is required",
		},
		{
			name:    "zero shell timeout",
			mutate:  func(c *AppConfig) { c.Shell.Timeout = 0 },
			wantErr: "shell.timeout must be positive",
		},
		{
			name:    "negative revisions",
			mutate:  func(c *AppConfig) { c.Pipeline.MaxRevisions = -1 },
			wantErr: "max_revisions must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(&cfg)
			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestGetDSN(t *testing.T) {
	sqlite := DatabaseConfig{Driver: "sqlite", Database: ":memory:"}
	assert.Equal(t, "file::memory:?cache=shared", sqlite.GetDSN())

	pg := DatabaseConfig{
		Driver: "postgres", Host: "db", Port: 5432,
		Username: "sf", Password: "secret", Database: "runs", SSLMode: "disable",
	}
	assert.Equal(t, "host=db port=5432 user=sf password=secret dbname=runs sslmode=disable", pg.GetDSN())
}
