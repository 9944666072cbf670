// Copyright (C) 2026 Solidforge
// SPDX-License-Identifier: AGPL-3.0-or-later

package crew

import "time"

// TaskStatus tracks a task through its lifecycle.
type TaskStatus int

const (
	TaskPending TaskStatus = iota
	TaskRunning
	TaskAwaitingApproval
	TaskCompleted
	TaskFailed
)

// String returns the human-readable status name.
func (s TaskStatus) String() string {
	switch s {
	case TaskPending:
		return "pending"
	case TaskRunning:
		return "running"
	case TaskAwaitingApproval:
		return "awaiting_approval"
	case TaskCompleted:
		return "completed"
	case TaskFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// TaskSpec is one unit of work bound to an agent. Description and
// ExpectedOutput arrive fully resolved; no run-time template mutation
// happens here.
type TaskSpec struct {
	ID               string
	Name             string
	Description      string
	ExpectedOutput   string
	AgentID          string
	DependsOn        []string // ids of earlier tasks whose outputs feed this one
	OutputFile       string   // optional artifact destination
	RequiresApproval bool
}

// TaskResult is the per-task outcome recorded on a run.
type TaskResult struct {
	TaskID      string
	Status      TaskStatus
	Output      string
	Revisions   int
	Error       string
	StartedAt   time.Time
	CompletedAt time.Time
}
