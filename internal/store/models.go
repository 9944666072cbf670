// Copyright (C) 2026 Solidforge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import "time"

// PipelineRun is the persisted record of one pipeline execution.
type PipelineRun struct {
	ID          string     `gorm:"primaryKey" json:"id"`
	ShapeName   string     `gorm:"index" json:"shape_name"`
	Status      string     `gorm:"index" json:"status"`
	Error       string     `json:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Tasks []TaskRecord `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE" json:"tasks,omitempty"`
}

// TaskRecord is the persisted outcome of one task within a run.
type TaskRecord struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	RunID       string     `gorm:"index;uniqueIndex:idx_run_task" json:"run_id"`
	TaskID      string     `gorm:"uniqueIndex:idx_run_task" json:"task_id"`
	Name        string     `json:"name"`
	Position    int        `json:"position"`
	Status      string     `json:"status"`
	Output      string     `gorm:"type:text" json:"output,omitempty"`
	Revisions   int        `json:"revisions"`
	Error       string     `json:"error,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
