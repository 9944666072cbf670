// Copyright (C) 2026 Solidforge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store persists run history with gorm. Persistence is
// supplemental: the orchestrator runs fine without a store, and store
// failures during a run are logged, never fatal.
package store

import (
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/solidforge/solidforge/internal/config"
	"github.com/solidforge/solidforge/internal/crew"
	"github.com/solidforge/solidforge/internal/logger"
)

// ErrRunNotFound indicates no persisted run matches the id.
var ErrRunNotFound = errors.New("run not found")

// Store wraps the run-history database.
type Store struct {
	db *gorm.DB
}

// NewStore opens the configured database and migrates the schema.
func NewStore(cfg *config.DatabaseConfig) (*Store, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.GetDSN())
	case "postgres":
		dialector = postgres.Open(cfg.GetDSN())
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&PipelineRun{}, &TaskRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	log := logger.GetStoreLogger()
	log.Info().Str("driver", cfg.Driver).Msg("Run store ready")
	return &Store{db: db}, nil
}

// GetRun loads a run with its task records.
func (s *Store) GetRun(id string) (*PipelineRun, error) {
	var run PipelineRun
	err := s.db.Preload("Tasks", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).First(&run, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", id, err)
	}
	return &run, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]PipelineRun, error) {
	if limit <= 0 {
		limit = 50
	}
	var runs []PipelineRun
	if err := s.db.Order("started_at DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// The methods below implement crew.Recorder. They only log on failure so
// persistence problems never interrupt a run.

// RunStarted persists the initial run record with pending task rows.
func (s *Store) RunStarted(run *crew.Run) {
	log := logger.GetStoreLogger()

	record := PipelineRun{
		ID:        run.ID,
		ShapeName: run.ShapeName,
		Status:    run.Status.String(),
		StartedAt: run.StartedAt,
	}
	for i, result := range run.Results {
		record.Tasks = append(record.Tasks, TaskRecord{
			RunID:    run.ID,
			TaskID:   result.TaskID,
			Position: i,
			Status:   result.Status.String(),
		})
	}

	if err := s.db.Create(&record).Error; err != nil {
		log.Error().Err(err).Str("run_id", run.ID).Msg("Failed to persist run start")
	}
}

// TaskUpdated upserts the task record for the latest state.
func (s *Store) TaskUpdated(run *crew.Run, result *crew.TaskResult) {
	log := logger.GetStoreLogger()

	updates := map[string]any{
		"status":    result.Status.String(),
		"output":    result.Output,
		"revisions": result.Revisions,
		"error":     result.Error,
	}
	if !result.StartedAt.IsZero() {
		updates["started_at"] = result.StartedAt
	}
	if !result.CompletedAt.IsZero() {
		updates["completed_at"] = result.CompletedAt
	}

	err := s.db.Model(&TaskRecord{}).
		Where("run_id = ? AND task_id = ?", run.ID, result.TaskID).
		Updates(updates).Error
	if err != nil {
		log.Error().Err(err).Str("run_id", run.ID).Str("task_id", result.TaskID).
			Msg("Failed to persist task update")
	}
}

// RunFinished records the terminal run state.
func (s *Store) RunFinished(run *crew.Run) {
	log := logger.GetStoreLogger()

	completed := run.CompletedAt
	updates := map[string]any{
		"status":       run.Status.String(),
		"completed_at": &completed,
	}
	if run.Status == crew.RunFailed {
		for _, result := range run.Results {
			if result.Error != "" {
				updates["error"] = result.Error
				break
			}
		}
	}

	if err := s.db.Model(&PipelineRun{}).Where("id = ?", run.ID).Updates(updates).Error; err != nil {
		log.Error().Err(err).Str("run_id", run.ID).Msg("Failed to persist run finish")
	}
}
