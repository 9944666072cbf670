// Copyright (C) 2026 Solidforge
// SPDX-License-Identifier: AGPL-3.0-or-later

package crew

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
)

// Decision is the reviewer's verdict on a candidate task output.
type Decision int

const (
	DecisionApprove Decision = iota
	DecisionRevise
	DecisionAbort
)

// Approver reviews candidate outputs for approval-gated tasks. Revise
// returns feedback text that is appended to the task prompt for the next
// attempt.
type Approver interface {
	Review(ctx context.Context, task *TaskSpec, candidate string) (Decision, string, error)
}

// TerminalApprover prompts the operator on the terminal.
type TerminalApprover struct{}

// Review shows the candidate output and asks for a verdict. On revise it
// collects free-form feedback.
func (TerminalApprover) Review(ctx context.Context, task *TaskSpec, candidate string) (Decision, string, error) {
	const (
		optApprove = "approve"
		optRevise  = "revise"
		optAbort   = "abort"
	)

	preview := candidate
	if len(preview) > 2000 {
		preview = preview[:2000] + "\n... (truncated)"
	}

	var choice string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(fmt.Sprintf("Review output of %q", task.Name)).
				Description(preview).
				Options(
					huh.NewOption("Approve", optApprove),
					huh.NewOption("Request changes", optRevise),
					huh.NewOption("Abort run", optAbort),
				).
				Value(&choice),
		),
	)
	if err := form.RunWithContext(ctx); err != nil {
		return DecisionAbort, "", fmt.Errorf("approval prompt failed: %w", err)
	}

	switch choice {
	case optApprove:
		return DecisionApprove, "", nil
	case optAbort:
		return DecisionAbort, "", nil
	}

	var feedback string
	feedbackForm := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("What should change?").
				Value(&feedback),
		),
	)
	if err := feedbackForm.RunWithContext(ctx); err != nil {
		return DecisionAbort, "", fmt.Errorf("feedback prompt failed: %w", err)
	}
	return DecisionRevise, feedback, nil
}

// ScriptedDecision is one pre-programmed review verdict.
type ScriptedDecision struct {
	Decision Decision
	Feedback string
}

// ScriptedApprover replays pre-programmed verdicts in order. It exists
// for tests.
type ScriptedApprover struct {
	decisions []ScriptedDecision

	// Reviewed records the candidate outputs seen, in order.
	Reviewed []string
}

// NewScriptedApprover queues the given verdicts.
func NewScriptedApprover(decisions ...ScriptedDecision) *ScriptedApprover {
	return &ScriptedApprover{decisions: decisions}
}

// Review pops the next scripted verdict.
func (s *ScriptedApprover) Review(ctx context.Context, task *TaskSpec, candidate string) (Decision, string, error) {
	s.Reviewed = append(s.Reviewed, candidate)
	if len(s.decisions) == 0 {
		return DecisionApprove, "", nil
	}
	d := s.decisions[0]
	s.decisions = s.decisions[1:]
	return d.Decision, d.Feedback, nil
}
