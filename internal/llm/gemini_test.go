// Copyright (C) 2026 Solidforge
// SPDX-License-Identifier: AGPL-3.0-or-later

package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solidforge/solidforge/internal/config"
)

func newTestBackend(serverURL string) *GeminiBackend {
	return NewGeminiBackend(&config.LLMConfig{
		APIKey:          "test-key",
		BaseURL:         serverURL,
		Temperature:     0.1,
		MaxOutputTokens: 1024,
		Timeout:         5 * time.Second,
	}, "gemini-2.5-pro")
}

func TestGeminiCompleteText(t *testing.T) {
	var captured generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-2.5-pro:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content":      map[string]any{"role": "model", "parts": []map[string]any{{"text": "guidance doc"}}},
				"finishReason": "STOP",
			}},
		})
	}))
	defer server.Close()

	b := newTestBackend(server.URL)
	resp, err := b.Complete(context.Background(), Request{
		System:   "You are an architect.",
		Contents: []Content{{Role: "user", Parts: []Part{{Text: "Analyze Email"}}}},
	})
	require.NoError(t, err)

	assert.Equal(t, "guidance doc", resp.Text)
	assert.Empty(t, resp.FunctionCalls)
	require.NotNil(t, captured.SystemInstruction)
	assert.Equal(t, "You are an architect.", captured.SystemInstruction.Parts[0].Text)
	require.NotNil(t, captured.GenerationConfig)
	assert.Equal(t, 0.1, captured.GenerationConfig.Temperature)
}

func TestGeminiCompleteFunctionCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Tools, 1)
		assert.Equal(t, "read_file", req.Tools[0].FunctionDeclarations[0].Name)

		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"role": "model",
					"parts": []map[string]any{{
						"functionCall": map[string]any{
							"name": "read_file",
							"args": map[string]any{"path": "/shapes/email.ttl"},
						},
					}},
				},
			}},
		})
	}))
	defer server.Close()

	b := newTestBackend(server.URL)
	resp, err := b.Complete(context.Background(), Request{
		Contents:  []Content{{Role: "user", Parts: []Part{{Text: "go"}}}},
		Functions: []FunctionDeclaration{{Name: "read_file"}},
	})
	require.NoError(t, err)

	require.Len(t, resp.FunctionCalls, 1)
	assert.Equal(t, "read_file", resp.FunctionCalls[0].Name)
	assert.Equal(t, "/shapes/email.ttl", resp.FunctionCalls[0].Args["path"])
}

func TestGeminiRetriesOnRateLimit(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{"role": "model", "parts": []map[string]any{{"text": "ok"}}},
			}},
		})
	}))
	defer server.Close()

	b := newTestBackend(server.URL)
	resp, err := b.Complete(context.Background(), Request{
		Contents: []Content{{Role: "user", Parts: []Part{{Text: "hi"}}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
	assert.Equal(t, 2, calls)
}

func TestGeminiBadRequestNotRetried(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"invalid","status":"INVALID_ARGUMENT"}}`))
	}))
	defer server.Close()

	b := newTestBackend(server.URL)
	_, err := b.Complete(context.Background(), Request{
		Contents: []Content{{Role: "user", Parts: []Part{{Text: "hi"}}}},
	})
	require.ErrorIs(t, err, ErrBackendUnavailable)
	assert.Equal(t, 1, calls)
}

func TestGeminiServerDownIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse all connections

	b := newTestBackend(server.URL)
	_, err := b.Complete(context.Background(), Request{
		Contents: []Content{{Role: "user", Parts: []Part{{Text: "hi"}}}},
	})
	require.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestScriptedBackend(t *testing.T) {
	s := NewScriptedBackend(TextResponse("one"), TextResponse("two"))

	r1, err := s.Complete(context.Background(), Request{System: "sys"})
	require.NoError(t, err)
	assert.Equal(t, "one", r1.Text)

	r2, err := s.Complete(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "two", r2.Text)

	_, err = s.Complete(context.Background(), Request{})
	require.ErrorIs(t, err, ErrBackendUnavailable)

	assert.Len(t, s.Requests, 3)
	assert.Equal(t, "sys", s.Requests[0].System)
}
