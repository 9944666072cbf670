// Copyright (C) 2026 Solidforge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solidforge/solidforge/internal/config"
	"github.com/solidforge/solidforge/internal/crew"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(&config.DatabaseConfig{
		Driver:   "sqlite",
		Database: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	return s
}

func sampleRun() *crew.Run {
	return &crew.Run{
		ID:        "run-42",
		ShapeName: "Email",
		Status:    crew.RunRunning,
		StartedAt: time.Now(),
		Results: []*crew.TaskResult{
			{TaskID: "architect", Status: crew.TaskPending},
			{TaskID: "developer", Status: crew.TaskPending},
		},
	}
}

func TestStoreRoundTrip(t *testing.T) {
	s := newTestStore(t)
	run := sampleRun()

	s.RunStarted(run)

	run.Results[0].Status = crew.TaskCompleted
	run.Results[0].Output = "guidance"
	run.Results[0].StartedAt = time.Now()
	run.Results[0].CompletedAt = time.Now()
	s.TaskUpdated(run, run.Results[0])

	run.Status = crew.RunCompleted
	run.CompletedAt = time.Now()
	s.RunFinished(run)

	stored, err := s.GetRun("run-42")
	require.NoError(t, err)

	assert.Equal(t, "Email", stored.ShapeName)
	assert.Equal(t, "completed", stored.Status)
	require.NotNil(t, stored.CompletedAt)

	require.Len(t, stored.Tasks, 2)
	assert.Equal(t, "architect", stored.Tasks[0].TaskID)
	assert.Equal(t, "completed", stored.Tasks[0].Status)
	assert.Equal(t, "guidance", stored.Tasks[0].Output)
	assert.Equal(t, "pending", stored.Tasks[1].Status)
}

func TestStoreRunFailedError(t *testing.T) {
	s := newTestStore(t)
	run := sampleRun()
	s.RunStarted(run)

	run.Results[1].Status = crew.TaskFailed
	run.Results[1].Error = "llm backend unavailable"
	s.TaskUpdated(run, run.Results[1])

	run.Status = crew.RunFailed
	run.CompletedAt = time.Now()
	s.RunFinished(run)

	stored, err := s.GetRun("run-42")
	require.NoError(t, err)
	assert.Equal(t, "failed", stored.Status)
	assert.Equal(t, "llm backend unavailable", stored.Error)
}

func TestGetRunNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetRun("missing")
	require.ErrorIs(t, err, ErrRunNotFound)
}

func TestListRuns(t *testing.T) {
	s := newTestStore(t)

	older := sampleRun()
	older.ID = "run-old"
	older.StartedAt = time.Now().Add(-time.Hour)
	s.RunStarted(older)

	newer := sampleRun()
	newer.ID = "run-new"
	s.RunStarted(newer)

	runs, err := s.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-new", runs[0].ID)
	assert.Equal(t, "run-old", runs[1].ID)
}

func TestNewStoreUnsupportedDriver(t *testing.T) {
	_, err := NewStore(&config.DatabaseConfig{Driver: "oracle"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}
