// Copyright (C) 2026 Solidforge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package protocol defines the events the orchestrator emits for
// observers (websocket clients, the run store, the CLI).
package protocol

import "time"

// CurrentProtocolVersion is stamped into every event's metadata.
const CurrentProtocolVersion = "v1.0.0"

// Metadata carries the common correlation fields for all events.
type Metadata struct {
	// RunID correlates an event with a pipeline run.
	RunID string `json:"run_id,omitempty"`

	// TaskID is set for task-scoped events.
	TaskID string `json:"task_id,omitempty"`

	// Version indicates the protocol version for backward compatibility.
	Version string `json:"version"`
}

// Event is anything sent through the orchestrator's event channel.
type Event interface {
	GetMetadata() Metadata
}

func newMetadata(runID, taskID string) Metadata {
	return Metadata{RunID: runID, TaskID: taskID, Version: CurrentProtocolVersion}
}

// RunLifecycleType enumerates run-level transitions.
type RunLifecycleType string

const (
	RunStarted  RunLifecycleType = "run_started"
	RunFinished RunLifecycleType = "run_finished"
	RunFailed   RunLifecycleType = "run_failed"
)

// RunLifecycleEvent reports a run-level transition.
type RunLifecycleEvent struct {
	Metadata  Metadata         `json:"metadata"`
	Type      RunLifecycleType `json:"type"`
	ShapeName string           `json:"shape_name,omitempty"`
	Error     string           `json:"error,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// NewRunLifecycleEvent creates a run lifecycle event.
func NewRunLifecycleEvent(eventType RunLifecycleType, runID, shapeName string) RunLifecycleEvent {
	return RunLifecycleEvent{
		Metadata:  newMetadata(runID, ""),
		Type:      eventType,
		ShapeName: shapeName,
		Timestamp: time.Now(),
	}
}

func (e RunLifecycleEvent) GetMetadata() Metadata { return e.Metadata }

// GetRunID exposes the run ID for subscription filtering.
func (e RunLifecycleEvent) GetRunID() string { return e.Metadata.RunID }

// TaskLifecycleType enumerates task-level transitions.
type TaskLifecycleType string

const (
	TaskStarted           TaskLifecycleType = "task_started"
	TaskAwaitingApproval  TaskLifecycleType = "task_awaiting_approval"
	TaskRevisionRequested TaskLifecycleType = "task_revision_requested"
	TaskCompleted         TaskLifecycleType = "task_completed"
	TaskFailed            TaskLifecycleType = "task_failed"
)

// TaskLifecycleEvent reports a task-level transition.
type TaskLifecycleEvent struct {
	Metadata  Metadata          `json:"metadata"`
	Type      TaskLifecycleType `json:"type"`
	TaskName  string            `json:"task_name,omitempty"`
	AgentRole string            `json:"agent_role,omitempty"`
	Revision  int               `json:"revision,omitempty"`
	Error     string            `json:"error,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// NewTaskLifecycleEvent creates a task lifecycle event.
func NewTaskLifecycleEvent(eventType TaskLifecycleType, runID, taskID, taskName string) TaskLifecycleEvent {
	return TaskLifecycleEvent{
		Metadata:  newMetadata(runID, taskID),
		Type:      eventType,
		TaskName:  taskName,
		Timestamp: time.Now(),
	}
}

func (e TaskLifecycleEvent) GetMetadata() Metadata { return e.Metadata }

// GetRunID exposes the run ID for subscription filtering.
func (e TaskLifecycleEvent) GetRunID() string { return e.Metadata.RunID }

// GetTaskID exposes the task ID for subscription filtering.
func (e TaskLifecycleEvent) GetTaskID() string { return e.Metadata.TaskID }

// ErrorEvent reports a non-fatal problem observers may want to surface.
type ErrorEvent struct {
	Metadata  Metadata  `json:"metadata"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// NewErrorEvent creates an error event.
func NewErrorEvent(runID, taskID, message string) ErrorEvent {
	return ErrorEvent{
		Metadata:  newMetadata(runID, taskID),
		Message:   message,
		Timestamp: time.Now(),
	}
}

func (e ErrorEvent) GetMetadata() Metadata { return e.Metadata }

// GetRunID exposes the run ID for subscription filtering.
func (e ErrorEvent) GetRunID() string { return e.Metadata.RunID }

// GetTaskID exposes the task ID for subscription filtering.
func (e ErrorEvent) GetTaskID() string { return e.Metadata.TaskID }
