// internal/providers/openai/provider.go
// Package openai provides a CompletionProvider backed by OpenAI-compatible
// chat-completions HTTP endpoints.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/livemedbench/medbench/internal/appconfig"
	"github.com/livemedbench/medbench/internal/logging"
	"github.com/livemedbench/medbench/internal/providers"
)

// Provider implements providers.CompletionProvider using the
// /chat/completions API shape.
type Provider struct {
	client  *http.Client
	baseURL string
	apiKey  string
	timeout time.Duration
	debug   bool
}

// New constructs a Provider configured with the application's request timeout
// and API key.
func New(cfg *appconfig.Config) (*Provider, error) {
	apiKey, err := cfg.APIKey()
	if err != nil {
		return nil, err
	}

	timeout := cfg.RequestTimeout()
	return &Provider{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(cfg.ProviderURL, "/"),
		apiKey:  apiKey,
		timeout: timeout,
		debug:   cfg.Debug,
	}, nil
}

// chatRequest defines the JSON body sent to /chat/completions.
type chatRequest struct {
	Model               string        `json:"model"`
	Messages            []chatMessage `json:"messages"`
	Temperature         float64       `json:"temperature"`
	MaxCompletionTokens int           `json:"max_completion_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse defines the subset of the completion response the pipeline uses.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete sends a single user-message completion request.
func (p *Provider) Complete(ctx context.Context, req providers.CompletionRequest) (providers.Completion, error) {
	payload := chatRequest{
		Model: req.Model,
		Messages: []chatMessage{{
			Role:    "user",
			Content: req.Prompt,
		}},
		Temperature:         req.Temperature,
		MaxCompletionTokens: req.MaxTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return providers.Completion{}, err
	}
	if p.debug {
		logging.LogRequest("MEDBENCH->LLM", req.Model, "", body)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	endpoint := p.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return providers.Completion{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return providers.Completion{}, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return providers.Completion{}, err
	}
	if p.debug {
		logging.LogRequest("LLM->MEDBENCH", req.Model, "", respBody)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return providers.Completion{}, fmt.Errorf("openai: malformed completion response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return providers.Completion{}, fmt.Errorf("openai: %s (%s)", parsed.Error.Message, resp.Status)
		}
		return providers.Completion{}, fmt.Errorf("openai: /chat/completions returned %s", resp.Status)
	}

	if len(parsed.Choices) == 0 {
		return providers.Completion{}, fmt.Errorf("openai: completion response contained no choices")
	}

	choice := parsed.Choices[0]
	finishReason := choice.FinishReason
	if finishReason == "" {
		finishReason = "unknown"
	}

	return providers.Completion{
		Text:         strings.TrimSpace(choice.Message.Content),
		FinishReason: finishReason,
	}, nil
}

// Close cleans up provider resources. The shared HTTP client needs no
// explicit teardown.
func (p *Provider) Close() error {
	p.client.CloseIdleConnections()
	return nil
}
