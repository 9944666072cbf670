// Copyright (C) 2026 Solidforge
// SPDX-License-Identifier: AGPL-3.0-or-later

package crew

import "time"

// RunStatus tracks a whole pipeline run.
type RunStatus int

const (
	RunPending RunStatus = iota
	RunRunning
	RunCompleted
	RunFailed
)

// String returns the human-readable status name.
func (s RunStatus) String() string {
	switch s {
	case RunPending:
		return "pending"
	case RunRunning:
		return "running"
	case RunCompleted:
		return "completed"
	case RunFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Run is one execution of the task sequence. Outputs accumulate as tasks
// complete and are consumed by later tasks that declare a dependency.
type Run struct {
	ID          string
	ShapeName   string
	Status      RunStatus
	Results     []*TaskResult
	StartedAt   time.Time
	CompletedAt time.Time

	outputs map[string]string
}

// Output returns the stored output of a completed task.
func (r *Run) Output(taskID string) (string, bool) {
	out, ok := r.outputs[taskID]
	return out, ok
}

// Result returns the result record for a task id, or nil.
func (r *Run) Result(taskID string) *TaskResult {
	for _, res := range r.Results {
		if res.TaskID == taskID {
			return res
		}
	}
	return nil
}
