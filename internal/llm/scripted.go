// Copyright (C) 2026 Solidforge
// SPDX-License-Identifier: AGPL-3.0-or-later

package llm

import (
	"context"
	"fmt"
	"sync"
)

// ScriptedBackend replays canned responses in order and records every
// request it receives. It exists for tests.
type ScriptedBackend struct {
	mu        sync.Mutex
	responses []*Response
	err       error

	// Requests holds every request seen, in order.
	Requests []Request
}

// NewScriptedBackend queues the given responses.
func NewScriptedBackend(responses ...*Response) *ScriptedBackend {
	return &ScriptedBackend{responses: responses}
}

// TextResponse is a convenience constructor for a plain-text reply.
func TextResponse(text string) *Response {
	return &Response{Text: text, FinishReason: "STOP"}
}

// FailWith makes all subsequent calls return err.
func (s *ScriptedBackend) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Enqueue appends responses to the script.
func (s *ScriptedBackend) Enqueue(responses ...*Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses = append(s.responses, responses...)
}

// Complete records the request and pops the next scripted response.
func (s *ScriptedBackend) Complete(ctx context.Context, req Request) (*Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Requests = append(s.Requests, req)

	if s.err != nil {
		return nil, s.err
	}
	if len(s.responses) == 0 {
		return nil, fmt.Errorf("%w: script exhausted after %d requests", ErrBackendUnavailable, len(s.Requests))
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	return resp, nil
}
