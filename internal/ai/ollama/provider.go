// Package ollama talks to a local Ollama server.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kiranshivaraju/yaktalk/internal/config"
	"github.com/kiranshivaraju/yaktalk/pkg/models"
)

// Provider implements models.AIProvider using Ollama.
type Provider struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

type generateRequest struct {
	Model   string  `json:"model"`
	Prompt  string  `json:"prompt"`
	System  string  `json:"system,omitempty"`
	Format  string  `json:"format,omitempty"`
	Stream  bool    `json:"stream"`
	Options options `json:"options,omitempty"`
}

type options struct {
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewProvider(cfg config.OllamaConfig) *Provider {
	return &Provider{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		model:   cfg.Model,
		// Callers bound each call with a context deadline; this caps stuck connections.
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
}

func (p *Provider) Name() string { return "ollama" }

// Classify asks for JSON output with instruction as the system prompt.
func (p *Provider) Classify(ctx context.Context, question, instruction string) (string, error) {
	return p.generate(ctx, generateRequest{
		Model:   p.model,
		Prompt:  question,
		System:  instruction,
		Format:  "json",
		Options: options{Temperature: 0},
	})
}

func (p *Provider) Generate(ctx context.Context, prompt string) (string, error) {
	return p.generate(ctx, generateRequest{
		Model:   p.model,
		Prompt:  prompt,
		Options: options{Temperature: 0.3},
	})
}

func (p *Provider) generate(ctx context.Context, apiReq generateRequest) (string, error) {
	body, err := json.Marshal(apiReq)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error != "" {
			return "", fmt.Errorf("ollama API error (%d): %s", httpResp.StatusCode, apiErr.Error)
		}
		return "", fmt.Errorf("ollama API error (%d): %s", httpResp.StatusCode, string(respBody))
	}

	var resp generateResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	return resp.Response, nil
}

var _ models.AIProvider = (*Provider)(nil)
