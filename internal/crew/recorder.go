// Copyright (C) 2026 Solidforge
// SPDX-License-Identifier: AGPL-3.0-or-later

package crew

// Recorder receives run-state changes for persistence. Implementations
// must not fail the run; persistence problems are theirs to log.
type Recorder interface {
	RunStarted(run *Run)
	TaskUpdated(run *Run, result *TaskResult)
	RunFinished(run *Run)
}

type nopRecorder struct{}

func (nopRecorder) RunStarted(*Run)               {}
func (nopRecorder) TaskUpdated(*Run, *TaskResult) {}
func (nopRecorder) RunFinished(*Run)              {}
