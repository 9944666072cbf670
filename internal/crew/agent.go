// Copyright (C) 2026 Solidforge
// SPDX-License-Identifier: AGPL-3.0-or-later

package crew

import (
	"context"
	"fmt"
	"strings"

	"github.com/solidforge/solidforge/internal/llm"
	"github.com/solidforge/solidforge/internal/logger"
	"github.com/solidforge/solidforge/internal/tools"
)

// AgentSpec is an agent's persona and capability set. Role, goal, and
// backstory are free text handed to the backend verbatim.
type AgentSpec struct {
	ID        string
	Role      string
	Goal      string
	Backstory string
	Tools     []tools.ID
}

// Agent binds a spec to an LLM backend and the tool registry. All
// reasoning is delegated to the backend; the agent's only job is to relay
// tool calls and feed results back until the backend produces a final
// text answer.
type Agent struct {
	Spec AgentSpec

	backend      llm.Backend
	registry     *tools.Registry
	maxToolSteps int
}

// NewAgent creates an agent runtime.
func NewAgent(spec AgentSpec, backend llm.Backend, registry *tools.Registry, maxToolSteps int) *Agent {
	return &Agent{
		Spec:         spec,
		backend:      backend,
		registry:     registry,
		maxToolSteps: maxToolSteps,
	}
}

// systemInstruction composes the persona prompt.
func (a *Agent) systemInstruction() string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s.\n\nYour goal: %s", a.Spec.Role, a.Spec.Goal)
	if a.Spec.Backstory != "" {
		b.WriteString("\n\n")
		b.WriteString(a.Spec.Backstory)
	}
	return b.String()
}

// Execute runs one task prompt to completion: repeated backend calls,
// executing any requested tools between turns, until the backend returns
// a final text answer or the step cap is hit.
func (a *Agent) Execute(ctx context.Context, prompt string) (string, error) {
	log := logger.GetCrewLogger().With().Str("agent", a.Spec.ID).Logger()

	decls, err := a.registry.Declarations(a.Spec.Tools)
	if err != nil {
		return "", fmt.Errorf("agent %s: %w", a.Spec.ID, err)
	}
	functions := make([]llm.FunctionDeclaration, 0, len(decls))
	for _, d := range decls {
		functions = append(functions, llm.FunctionDeclaration{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  d.Parameters,
		})
	}

	contents := []llm.Content{
		{Role: "user", Parts: []llm.Part{{Text: prompt}}},
	}

	for step := 0; step < a.maxToolSteps; step++ {
		resp, err := a.backend.Complete(ctx, llm.Request{
			System:    a.systemInstruction(),
			Contents:  contents,
			Functions: functions,
		})
		if err != nil {
			return "", fmt.Errorf("agent %s: %w", a.Spec.ID, err)
		}

		if len(resp.FunctionCalls) == 0 {
			log.Debug().Int("steps", step).Msg("Agent produced final answer")
			return resp.Text, nil
		}

		// Echo the model turn, then answer each call with a function turn.
		modelParts := make([]llm.Part, 0, len(resp.FunctionCalls)+1)
		if resp.Text != "" {
			modelParts = append(modelParts, llm.Part{Text: resp.Text})
		}
		for i := range resp.FunctionCalls {
			modelParts = append(modelParts, llm.Part{FunctionCall: &resp.FunctionCalls[i]})
		}
		contents = append(contents, llm.Content{Role: "model", Parts: modelParts})

		responseParts := make([]llm.Part, 0, len(resp.FunctionCalls))
		for _, call := range resp.FunctionCalls {
			inv := a.registry.Execute(ctx, tools.ID(call.Name), call.Args)
			log.Debug().Str("tool", call.Name).Int("output_len", len(inv.Output)).Msg("Executed tool call")
			responseParts = append(responseParts, llm.Part{
				FunctionResponse: &llm.FunctionResponse{
					Name:     call.Name,
					Response: map[string]any{"output": inv.Output},
				},
			})
		}
		contents = append(contents, llm.Content{Role: "function", Parts: responseParts})
	}

	return "", fmt.Errorf("agent %s: exceeded %d tool steps without a final answer", a.Spec.ID, a.maxToolSteps)
}
