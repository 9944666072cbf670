// Copyright (C) 2026 Solidforge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package crew sequences agents and tasks into a pipeline run. Tasks
// execute strictly in order; each completed task's output becomes context
// for later tasks that declare a dependency on it.
package crew

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/solidforge/solidforge/internal/logger"
	"github.com/solidforge/solidforge/internal/protocol"
	"github.com/solidforge/solidforge/internal/tools"
)

var (
	// ErrRevisionLimit indicates the reviewer kept requesting changes past
	// the configured bound.
	ErrRevisionLimit = errors.New("revision limit exceeded")

	// ErrAborted indicates the reviewer aborted the run.
	ErrAborted = errors.New("run aborted by reviewer")
)

// Params configures a crew.
type Params struct {
	Agents       []*Agent
	Tasks        []*TaskSpec
	Process      Process               // defaults to Sequential
	Approver     Approver              // required when any task has an approval gate
	Recorder     Recorder              // optional run persistence
	Events       chan<- protocol.Event // optional observer channel
	ShapeName    string
	MaxRevisions int
}

// Crew holds an ordered task list and the agents that execute it.
type Crew struct {
	agents       map[string]*Agent
	tasks        []*TaskSpec
	process      Process
	approver     Approver
	recorder     Recorder
	events       chan<- protocol.Event
	shapeName    string
	maxRevisions int
	log          zerolog.Logger
}

// New validates the crew configuration and fails fast on construction
// problems, before any task runs: duplicate task ids, unknown agents,
// forward or unknown dependencies, and a missing approver for gated tasks.
func New(p Params) (*Crew, error) {
	c := &Crew{
		agents:       make(map[string]*Agent, len(p.Agents)),
		tasks:        p.Tasks,
		process:      p.Process,
		approver:     p.Approver,
		recorder:     p.Recorder,
		events:       p.Events,
		shapeName:    p.ShapeName,
		maxRevisions: p.MaxRevisions,
		log:          logger.GetCrewLogger(),
	}
	if c.process == nil {
		c.process = Sequential{}
	}
	if c.recorder == nil {
		c.recorder = nopRecorder{}
	}

	for _, a := range p.Agents {
		if _, dup := c.agents[a.Spec.ID]; dup {
			return nil, fmt.Errorf("duplicate agent id: %s", a.Spec.ID)
		}
		c.agents[a.Spec.ID] = a
	}

	seen := make(map[string]int, len(p.Tasks))
	for i, task := range p.Tasks {
		if task.ID == "" {
			return nil, fmt.Errorf("task at index %d has no id", i)
		}
		if _, dup := seen[task.ID]; dup {
			return nil, fmt.Errorf("duplicate task id: %s", task.ID)
		}
		if _, ok := c.agents[task.AgentID]; !ok {
			return nil, fmt.Errorf("task %s references unknown agent: %s", task.ID, task.AgentID)
		}
		for _, dep := range task.DependsOn {
			pos, ok := seen[dep]
			if !ok {
				return nil, fmt.Errorf("task %s depends on unknown or later task: %s", task.ID, dep)
			}
			if pos >= i {
				return nil, fmt.Errorf("task %s has a forward dependency: %s", task.ID, dep)
			}
		}
		if task.RequiresApproval && c.approver == nil {
			return nil, fmt.Errorf("task %s requires approval but no approver is configured", task.ID)
		}
		seen[task.ID] = i
	}

	return c, nil
}

// Kickoff executes the pipeline under the configured process discipline.
// The returned Run always carries the per-task results, also on failure;
// artifacts written by completed tasks stay in place.
func (c *Crew) Kickoff(ctx context.Context) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		ShapeName: c.shapeName,
		Status:    RunRunning,
		StartedAt: time.Now(),
		outputs:   make(map[string]string, len(c.tasks)),
	}
	for _, task := range c.tasks {
		run.Results = append(run.Results, &TaskResult{TaskID: task.ID, Status: TaskPending})
	}

	c.log.Info().Str("run_id", run.ID).Str("shape", run.ShapeName).
		Int("tasks", len(c.tasks)).Str("process", c.process.Name()).Msg("Pipeline run started")
	c.emit(protocol.NewRunLifecycleEvent(protocol.RunStarted, run.ID, run.ShapeName))
	c.recorder.RunStarted(run)

	err := c.process.Run(ctx, c, run)
	run.CompletedAt = time.Now()

	if err != nil {
		run.Status = RunFailed
		failed := protocol.NewRunLifecycleEvent(protocol.RunFailed, run.ID, run.ShapeName)
		failed.Error = err.Error()
		c.emit(failed)
		c.recorder.RunFinished(run)
		c.log.Error().Err(err).Str("run_id", run.ID).Msg("Pipeline run failed")
		return run, err
	}

	run.Status = RunCompleted
	c.emit(protocol.NewRunLifecycleEvent(protocol.RunFinished, run.ID, run.ShapeName))
	c.recorder.RunFinished(run)
	c.log.Info().Str("run_id", run.ID).Dur("elapsed", run.CompletedAt.Sub(run.StartedAt)).
		Msg("Pipeline run completed")
	return run, nil
}

// executeTask runs one task to completion, including its approval loop.
func (c *Crew) executeTask(ctx context.Context, run *Run, index int) error {
	task := c.tasks[index]
	result := run.Results[index]
	agent := c.agents[task.AgentID]
	log := c.log.With().Str("run_id", run.ID).Str("task", task.ID).Logger()

	result.Status = TaskRunning
	result.StartedAt = time.Now()
	c.emitTask(protocol.TaskStarted, run, task, result)
	c.recorder.TaskUpdated(run, result)
	log.Info().Str("agent", task.AgentID).Msg("Task started")

	prompt := c.buildPrompt(task, run)

	for {
		output, err := agent.Execute(ctx, prompt)
		if err != nil {
			return c.failTask(run, task, result, err)
		}

		if !task.RequiresApproval {
			return c.completeTask(run, task, result, output)
		}

		result.Status = TaskAwaitingApproval
		c.emitTask(protocol.TaskAwaitingApproval, run, task, result)
		c.recorder.TaskUpdated(run, result)

		decision, feedback, err := c.approver.Review(ctx, task, output)
		if err != nil {
			return c.failTask(run, task, result, err)
		}

		switch decision {
		case DecisionApprove:
			return c.completeTask(run, task, result, output)

		case DecisionAbort:
			return c.failTask(run, task, result, ErrAborted)

		case DecisionRevise:
			if result.Revisions >= c.maxRevisions {
				return c.failTask(run, task, result,
					fmt.Errorf("%w: %d revisions requested", ErrRevisionLimit, result.Revisions+1))
			}
			result.Revisions++
			result.Status = TaskRunning
			revised := protocol.NewTaskLifecycleEvent(protocol.TaskRevisionRequested, run.ID, task.ID, task.Name)
			revised.Revision = result.Revisions
			c.emit(revised)
			c.recorder.TaskUpdated(run, result)
			log.Info().Int("revision", result.Revisions).Msg("Reviewer requested changes")

			// The original description stays intact; feedback is appended
			// literally so the agent sees exactly what the reviewer wrote.
			prompt = prompt + "\n\nHuman feedback:\n" + feedback
		}
	}
}

// buildPrompt assembles the task prompt: resolved description, expected
// output, and the outputs of declared dependencies in declaration order.
func (c *Crew) buildPrompt(task *TaskSpec, run *Run) string {
	var b strings.Builder
	b.WriteString(task.Description)

	if task.ExpectedOutput != "" {
		b.WriteString("\n\nExpected output:\n")
		b.WriteString(task.ExpectedOutput)
	}

	for _, dep := range task.DependsOn {
		out, ok := run.Output(dep)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "\n\nContext from task %q:\n%s", dep, out)
	}

	return b.String()
}

func (c *Crew) completeTask(run *Run, task *TaskSpec, result *TaskResult, output string) error {
	if task.OutputFile != "" {
		if err := tools.WriteFileAtomic(task.OutputFile, []byte(output)); err != nil {
			return c.failTask(run, task, result, fmt.Errorf("failed to persist artifact: %w", err))
		}
		c.log.Info().Str("task", task.ID).Str("path", task.OutputFile).Msg("Artifact written")
	}

	run.outputs[task.ID] = output
	result.Output = output
	result.Status = TaskCompleted
	result.CompletedAt = time.Now()
	c.emitTask(protocol.TaskCompleted, run, task, result)
	c.recorder.TaskUpdated(run, result)
	return nil
}

func (c *Crew) failTask(run *Run, task *TaskSpec, result *TaskResult, err error) error {
	result.Status = TaskFailed
	result.Error = err.Error()
	result.CompletedAt = time.Now()

	failed := protocol.NewTaskLifecycleEvent(protocol.TaskFailed, run.ID, task.ID, task.Name)
	failed.Error = err.Error()
	c.emit(failed)
	c.recorder.TaskUpdated(run, result)
	return fmt.Errorf("task %s: %w", task.ID, err)
}

func (c *Crew) emitTask(t protocol.TaskLifecycleType, run *Run, task *TaskSpec, result *TaskResult) {
	e := protocol.NewTaskLifecycleEvent(t, run.ID, task.ID, task.Name)
	e.AgentRole = c.agents[task.AgentID].Spec.Role
	e.Revision = result.Revisions
	c.emit(e)
}

// emit sends an event without ever blocking the pipeline on a slow
// observer.
func (c *Crew) emit(e protocol.Event) {
	if c.events == nil {
		return
	}
	select {
	case c.events <- e:
	default:
		c.log.Warn().Msg("Event channel full, dropping event")
	}
}
