// Copyright 2025 KrakLabs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package llm wraps external text-generation backends behind a narrow
// interface. Supported backends: Ollama, OpenAI-compatible APIs, Anthropic,
// and a mock for tests. The rest of the system only sees the Generator
// lifecycle wrapper (generator.go); nothing here is on the hot path.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Provider is the raw text-generation capability.
type Provider interface {
	// Generate produces a completion for the given prompt.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// Name returns the provider identifier.
	Name() string

	// Models returns the models this provider can serve.
	Models(ctx context.Context) ([]string, error)
}

// GenerateRequest is a single-shot text generation request.
type GenerateRequest struct {
	Prompt      string   `json:"prompt"`
	Model       string   `json:"model,omitempty"`
	MaxTokens   int      `json:"max_tokens,omitempty"`
	Temperature float64  `json:"temperature,omitempty"`
	Stop        []string `json:"stop,omitempty"`
}

// GenerateResponse carries the completion and its token accounting.
type GenerateResponse struct {
	Text         string        `json:"text"`
	Model        string        `json:"model"`
	PromptTokens int           `json:"prompt_tokens,omitempty"`
	OutputTokens int           `json:"output_tokens,omitempty"`
	TotalTokens  int           `json:"total_tokens,omitempty"`
	Duration     time.Duration `json:"duration,omitempty"`
	Done         bool          `json:"done"`
}

// ProviderConfig selects and configures a backend.
type ProviderConfig struct {
	// Type is one of "ollama", "openai", "anthropic", "mock".
	Type string `json:"type"`

	// BaseURL overrides the API endpoint.
	BaseURL string `json:"base_url,omitempty"`

	// APIKey for authenticated providers.
	APIKey string `json:"api_key,omitempty"`

	// DefaultModel used when a request names none.
	DefaultModel string `json:"default_model,omitempty"`

	// Timeout per API request.
	Timeout time.Duration `json:"timeout,omitempty"`
}

// NewProvider creates a Provider from cfg.
//
// Environment variables:
//   - OLLAMA_HOST, OLLAMA_BASE_URL: Ollama server URL (default http://localhost:11434)
//   - OLLAMA_MODEL: default Ollama model
//   - OPENAI_API_KEY, OPENAI_BASE_URL, OPENAI_MODEL
//   - ANTHROPIC_API_KEY, ANTHROPIC_MODEL
func NewProvider(cfg ProviderConfig) (Provider, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}

	switch strings.ToLower(cfg.Type) {
	case "ollama", "local", "":
		return newOllamaProvider(cfg), nil
	case "openai", "openai-compatible":
		return newOpenAIProvider(cfg), nil
	case "anthropic", "claude":
		return newAnthropicProvider(cfg), nil
	case "mock", "test":
		return &MockProvider{model: cfg.DefaultModel}, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider type: %s (supported: ollama, openai, anthropic, mock)", cfg.Type)
	}
}

// DefaultProvider probes the environment for a configured backend, in order
// Ollama, OpenAI, Anthropic, and falls back to the mock.
func DefaultProvider() (Provider, error) {
	switch {
	case firstEnv("OLLAMA_HOST", "OLLAMA_BASE_URL", "OLLAMA_MODEL") != "":
		return NewProvider(ProviderConfig{Type: "ollama"})
	case os.Getenv("OPENAI_API_KEY") != "":
		return NewProvider(ProviderConfig{Type: "openai"})
	case os.Getenv("ANTHROPIC_API_KEY") != "":
		return NewProvider(ProviderConfig{Type: "anthropic"})
	default:
		return NewProvider(ProviderConfig{Type: "mock"})
	}
}

// firstEnv returns the value of the first set variable in names.
func firstEnv(names ...string) string {
	for _, n := range names {
		if v := os.Getenv(n); v != "" {
			return v
		}
	}
	return ""
}

// restClient is the HTTP plumbing shared by the three real backends: a
// base URL, static headers, and JSON request/response handling.
type restClient struct {
	baseURL string
	headers map[string]string
	http    *http.Client
}

func newRESTClient(baseURL string, headers map[string]string, timeout time.Duration) restClient {
	return restClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		headers: headers,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c restClient) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(detail))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c restClient) getJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c restClient) postJSON(ctx context.Context, path string, payload, out any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(encoded), out)
}

// ollamaProvider talks to a local or remote Ollama server.
type ollamaProvider struct {
	rest         restClient
	defaultModel string
}

func newOllamaProvider(cfg ProviderConfig) *ollamaProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = firstEnv("OLLAMA_HOST", "OLLAMA_BASE_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	model := cfg.DefaultModel
	if model == "" {
		model = os.Getenv("OLLAMA_MODEL")
	}

	return &ollamaProvider{
		rest:         newRESTClient(baseURL, nil, cfg.Timeout),
		defaultModel: model,
	}
}

func (p *ollamaProvider) Name() string { return "ollama" }

func (p *ollamaProvider) Models(ctx context.Context) ([]string, error) {
	var tags struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := p.rest.getJSON(ctx, "/api/tags", &tags); err != nil {
		return nil, fmt.Errorf("ollama list models: %w", err)
	}

	names := make([]string, len(tags.Models))
	for i, m := range tags.Models {
		names[i] = m.Name
	}
	return names, nil
}

func (p *ollamaProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	model := req.Model
	if model == "" {
		model = p.defaultModel
	}
	if model == "" {
		return nil, fmt.Errorf("ollama: model not specified (set OLLAMA_MODEL or pass in request)")
	}

	options := map[string]any{}
	if req.MaxTokens > 0 {
		options["num_predict"] = req.MaxTokens
	}
	if req.Temperature > 0 {
		options["temperature"] = req.Temperature
	}
	if len(req.Stop) > 0 {
		options["stop"] = req.Stop
	}
	payload := map[string]any{
		"model":  model,
		"prompt": req.Prompt,
		"stream": false,
	}
	if len(options) > 0 {
		payload["options"] = options
	}

	var reply struct {
		Response        string `json:"response"`
		Model           string `json:"model"`
		Done            bool   `json:"done"`
		PromptEvalCount int    `json:"prompt_eval_count"`
		EvalCount       int    `json:"eval_count"`
	}
	start := time.Now()
	if err := p.rest.postJSON(ctx, "/api/generate", payload, &reply); err != nil {
		return nil, fmt.Errorf("ollama generate: %w", err)
	}

	return &GenerateResponse{
		Text:         reply.Response,
		Model:        reply.Model,
		PromptTokens: reply.PromptEvalCount,
		OutputTokens: reply.EvalCount,
		TotalTokens:  reply.PromptEvalCount + reply.EvalCount,
		Duration:     time.Since(start),
		Done:         reply.Done,
	}, nil
}

// openaiProvider talks to api.openai.com or any compatible server
// (vLLM, llama.cpp server, LM Studio).
type openaiProvider struct {
	rest         restClient
	defaultModel string
}

func newOpenAIProvider(cfg ProviderConfig) *openaiProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = os.Getenv("OPENAI_BASE_URL")
	}
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	model := cfg.DefaultModel
	if model == "" {
		model = os.Getenv("OPENAI_MODEL")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}

	var headers map[string]string
	if apiKey != "" {
		headers = map[string]string{"Authorization": "Bearer " + apiKey}
	}
	return &openaiProvider{
		rest:         newRESTClient(baseURL, headers, cfg.Timeout),
		defaultModel: model,
	}
}

func (p *openaiProvider) Name() string { return "openai" }

func (p *openaiProvider) Models(ctx context.Context) ([]string, error) {
	var listing struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := p.rest.getJSON(ctx, "/models", &listing); err != nil {
		return nil, fmt.Errorf("openai list models: %w", err)
	}

	ids := make([]string, len(listing.Data))
	for i, m := range listing.Data {
		ids[i] = m.ID
	}
	return ids, nil
}

// Generate goes through the chat-completions endpoint; there is no bare
// completion endpoint on modern OpenAI-compatible servers.
func (p *openaiProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	model := req.Model
	if model == "" {
		model = p.defaultModel
	}

	payload := map[string]any{
		"model":    model,
		"messages": []map[string]string{{"role": "user", "content": req.Prompt}},
	}
	if req.MaxTokens > 0 {
		payload["max_tokens"] = req.MaxTokens
	}
	if req.Temperature > 0 {
		payload["temperature"] = req.Temperature
	}
	if len(req.Stop) > 0 {
		payload["stop"] = req.Stop
	}

	var reply struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		} `json:"choices"`
		Model string `json:"model"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
			TotalTokens      int `json:"total_tokens"`
		} `json:"usage"`
	}
	start := time.Now()
	if err := p.rest.postJSON(ctx, "/chat/completions", payload, &reply); err != nil {
		return nil, fmt.Errorf("openai generate: %w", err)
	}
	if len(reply.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	return &GenerateResponse{
		Text:         reply.Choices[0].Message.Content,
		Model:        reply.Model,
		PromptTokens: reply.Usage.PromptTokens,
		OutputTokens: reply.Usage.CompletionTokens,
		TotalTokens:  reply.Usage.TotalTokens,
		Duration:     time.Since(start),
		Done:         reply.Choices[0].FinishReason == "stop",
	}, nil
}

// anthropicProvider talks to the Anthropic messages API.
type anthropicProvider struct {
	rest         restClient
	defaultModel string
}

func newAnthropicProvider(cfg ProviderConfig) *anthropicProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.anthropic.com/v1"
	}
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	model := cfg.DefaultModel
	if model == "" {
		model = os.Getenv("ANTHROPIC_MODEL")
	}
	if model == "" {
		model = "claude-3-5-haiku-20241022"
	}

	return &anthropicProvider{
		rest: newRESTClient(baseURL, map[string]string{
			"x-api-key":         apiKey,
			"anthropic-version": "2023-06-01",
		}, cfg.Timeout),
		defaultModel: model,
	}
}

func (p *anthropicProvider) Name() string { return "anthropic" }

// Models returns a static set; the API exposes no listing endpoint.
func (p *anthropicProvider) Models(ctx context.Context) ([]string, error) {
	return []string{
		"claude-3-5-sonnet-20241022",
		"claude-3-5-haiku-20241022",
		"claude-3-haiku-20240307",
	}, nil
}

func (p *anthropicProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	model := req.Model
	if model == "" {
		model = p.defaultModel
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}

	payload := map[string]any{
		"model":      model,
		"messages":   []map[string]string{{"role": "user", "content": req.Prompt}},
		"max_tokens": maxTokens,
	}
	if req.Temperature > 0 {
		payload["temperature"] = req.Temperature
	}
	if len(req.Stop) > 0 {
		payload["stop_sequences"] = req.Stop
	}

	var reply struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		Model      string `json:"model"`
		StopReason string `json:"stop_reason"`
		Usage      struct {
			InputTokens  int `json:"input_tokens"`
			OutputTokens int `json:"output_tokens"`
		} `json:"usage"`
	}
	start := time.Now()
	if err := p.rest.postJSON(ctx, "/messages", payload, &reply); err != nil {
		return nil, fmt.Errorf("anthropic generate: %w", err)
	}

	var text strings.Builder
	for _, block := range reply.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return &GenerateResponse{
		Text:         text.String(),
		Model:        reply.Model,
		PromptTokens: reply.Usage.InputTokens,
		OutputTokens: reply.Usage.OutputTokens,
		TotalTokens:  reply.Usage.InputTokens + reply.Usage.OutputTokens,
		Duration:     time.Since(start),
		Done:         reply.StopReason == "end_turn",
	}, nil
}

// MockProvider returns predictable responses without any network call.
// Tests can override Generate through GenerateFunc.
type MockProvider struct {
	model        string
	GenerateFunc func(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

func (p *MockProvider) Name() string { return "mock" }

func (p *MockProvider) Models(ctx context.Context) ([]string, error) {
	return []string{"mock-model"}, nil
}

func (p *MockProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if p.GenerateFunc != nil {
		return p.GenerateFunc(ctx, req)
	}
	return &GenerateResponse{
		Text:         fmt.Sprintf("[mock] Generated response for: %.50s...", req.Prompt),
		Model:        "mock-model",
		PromptTokens: len(req.Prompt) / 4,
		OutputTokens: 20,
		TotalTokens:  len(req.Prompt)/4 + 20,
		Duration:     10 * time.Millisecond,
		Done:         true,
	}, nil
}
