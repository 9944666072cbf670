// Copyright (C) 2026 Solidforge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package llm abstracts the hosted language-model endpoint behind a small
// Backend interface so the orchestrator can be tested without network
// access.
package llm

import (
	"context"
	"errors"
)

// ErrBackendUnavailable indicates the model endpoint cannot complete a
// request. This is the only error class that is fatal to a pipeline run.
var ErrBackendUnavailable = errors.New("llm backend unavailable")

// Content is one conversation turn.
type Content struct {
	Role  string `json:"role,omitempty"` // "user", "model", "function"
	Parts []Part `json:"parts"`
}

// Part is a fragment of a turn: plain text, a model-issued function call,
// or a function result fed back to the model.
type Part struct {
	Text             string            `json:"text,omitempty"`
	FunctionCall     *FunctionCall     `json:"functionCall,omitempty"`
	FunctionResponse *FunctionResponse `json:"functionResponse,omitempty"`
}

// FunctionCall is the model asking for a tool invocation.
type FunctionCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// FunctionResponse carries a tool result back to the model.
type FunctionResponse struct {
	Name     string         `json:"name"`
	Response map[string]any `json:"response"`
}

// FunctionDeclaration describes a callable tool to the model.
type FunctionDeclaration struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// Request is one completion call: a system instruction, the conversation
// so far, and the functions the model may call.
type Request struct {
	System    string
	Contents  []Content
	Functions []FunctionDeclaration
}

// Response is the model's reply: final text, or one or more function
// calls, or both.
type Response struct {
	Text          string
	FunctionCalls []FunctionCall
	FinishReason  string
}

// Backend completes requests against a model endpoint.
type Backend interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}
