// Copyright (C) 2026 Solidforge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solidforge/solidforge/internal/config"
)

func TestNewManagerFileOutput(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "test.log")

	m, err := NewManager(&config.LogConfig{
		Level:  "DEBUG",
		Format: "json",
		Output: []config.LogOutputConfig{
			{Type: "file", Enabled: true, Path: logPath},
		},
	})
	require.NoError(t, err)
	defer m.Close()

	l := m.GetLogger("crew")
	l.Info().Str("k", "v").Msg("hello")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"hello"`)
	assert.Contains(t, string(data), `"pkg":"crew"`)
}

func TestPerPackageLevels(t *testing.T) {
	m, err := NewManager(&config.LogConfig{
		Level:  "INFO",
		Format: "json",
		Levels: map[string]string{"tools": "ERROR"},
	})
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, zerolog.ErrorLevel, m.GetLogger("tools").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, m.GetLogger("crew").GetLevel())

	m.SetPackageLevel("tools", "DEBUG")
	assert.Equal(t, zerolog.DebugLevel, m.GetLogger("tools").GetLevel())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"Warning", zerolog.WarnLevel},
		{"ERROR", zerolog.ErrorLevel},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.in), tt.in)
	}
}

func TestGetLoggerUninitializedDiscards(t *testing.T) {
	// The global accessor must never panic before Initialize.
	l := GetLogger("anything")
	assert.NotPanics(t, func() { l.Info().Msg("dropped") })
}

func TestUnsupportedOutputType(t *testing.T) {
	_, err := NewManager(&config.LogConfig{
		Level:  "INFO",
		Output: []config.LogOutputConfig{{Type: "syslog", Enabled: true}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported log output type")
}
