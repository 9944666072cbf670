// Copyright (C) 2026 Solidforge
// SPDX-License-Identifier: AGPL-3.0-or-later

package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventMetadata(t *testing.T) {
	run := NewRunLifecycleEvent(RunStarted, "run-1", "Email")
	assert.Equal(t, "run-1", run.GetRunID())
	assert.Equal(t, CurrentProtocolVersion, run.GetMetadata().Version)
	assert.False(t, run.Timestamp.IsZero())

	task := NewTaskLifecycleEvent(TaskCompleted, "run-1", "developer", "Generate classes")
	assert.Equal(t, "run-1", task.GetRunID())
	assert.Equal(t, "developer", task.GetTaskID())
	assert.Equal(t, "Generate classes", task.TaskName)
}

func TestTaskLifecycleEventJSON(t *testing.T) {
	e := NewTaskLifecycleEvent(TaskAwaitingApproval, "run-9", "architect", "Guidance")
	e.Revision = 2

	data, err := json.Marshal(e)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "task_awaiting_approval", decoded["type"])
	assert.Equal(t, float64(2), decoded["revision"])

	meta := decoded["metadata"].(map[string]any)
	assert.Equal(t, "run-9", meta["run_id"])
	assert.Equal(t, "architect", meta["task_id"])
}
