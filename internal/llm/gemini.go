// Copyright (C) 2026 Solidforge
// SPDX-License-Identifier: AGPL-3.0-or-later

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/solidforge/solidforge/internal/config"
	"github.com/solidforge/solidforge/internal/logger"
)

const maxRetries = 3

// GeminiBackend talks to a Gemini-compatible generateContent endpoint over
// plain HTTP. One instance is bound to one model.
type GeminiBackend struct {
	model           string
	apiKey          string
	baseURL         string
	temperature     float64
	maxOutputTokens int
	httpClient      *http.Client
}

// NewGeminiBackend creates a backend for the given model using the shared
// endpoint configuration.
func NewGeminiBackend(cfg *config.LLMConfig, model string) *GeminiBackend {
	return &GeminiBackend{
		model:           model,
		apiKey:          cfg.APIKey,
		baseURL:         cfg.BaseURL,
		temperature:     cfg.Temperature,
		maxOutputTokens: cfg.MaxOutputTokens,
		httpClient:      &http.Client{Timeout: cfg.Timeout},
	}
}

// Wire format for the generateContent API.
type generateRequest struct {
	Contents          []Content         `json:"contents"`
	SystemInstruction *Content          `json:"systemInstruction,omitempty"`
	Tools             []wireTool        `json:"tools,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type wireTool struct {
	FunctionDeclarations []FunctionDeclaration `json:"functionDeclarations"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content      Content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Complete sends the request, retrying rate limits and transient server
// errors with exponential backoff. Any terminal failure is wrapped in
// ErrBackendUnavailable.
func (b *GeminiBackend) Complete(ctx context.Context, req Request) (*Response, error) {
	log := logger.GetBackendLogger()

	wire := generateRequest{
		Contents: req.Contents,
		GenerationConfig: &generationConfig{
			Temperature:     b.temperature,
			MaxOutputTokens: b.maxOutputTokens,
		},
	}
	if req.System != "" {
		wire.SystemInstruction = &Content{Parts: []Part{{Text: req.System}}}
	}
	if len(req.Functions) > 0 {
		wire.Tools = []wireTool{{FunctionDeclarations: req.Functions}}
	}

	body, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", b.baseURL, b.model, b.apiKey)

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			log.Warn().Int("attempt", attempt).Dur("backoff", backoff).Msg("Retrying backend call")
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, ctx.Err())
			}
		}

		resp, retryable, err := b.doRequest(ctx, url, body)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}

	return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, lastErr)
}

func (b *GeminiBackend) doRequest(ctx context.Context, url string, body []byte) (*Response, bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, false, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return nil, true, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, true, err
	}

	switch {
	case httpResp.StatusCode == http.StatusOK:
	case httpResp.StatusCode == http.StatusTooManyRequests || httpResp.StatusCode >= 500:
		return nil, true, fmt.Errorf("status %d: %s", httpResp.StatusCode, truncate(respBody, 512))
	default:
		return nil, false, fmt.Errorf("status %d: %s", httpResp.StatusCode, truncate(respBody, 512))
	}

	var wire generateResponse
	if err := json.Unmarshal(respBody, &wire); err != nil {
		return nil, false, fmt.Errorf("failed to parse response: %w", err)
	}
	if wire.Error != nil {
		return nil, false, fmt.Errorf("API error %d (%s): %s", wire.Error.Code, wire.Error.Status, wire.Error.Message)
	}
	if len(wire.Candidates) == 0 {
		return nil, false, fmt.Errorf("no candidates in response")
	}

	out := &Response{FinishReason: wire.Candidates[0].FinishReason}
	for _, part := range wire.Candidates[0].Content.Parts {
		if part.Text != "" {
			out.Text += part.Text
		}
		if part.FunctionCall != nil {
			out.FunctionCalls = append(out.FunctionCalls, *part.FunctionCall)
		}
	}
	return out, false, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
