// Package openai talks to the OpenAI chat completions API and to any server
// that speaks it, such as vLLM.
package openai

import (
	"context"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/kiranshivaraju/yaktalk/internal/config"
	"github.com/kiranshivaraju/yaktalk/pkg/models"
)

const (
	classifyTemperature = 0.0
	generateTemperature = 0.3
)

// Provider implements models.AIProvider using OpenAI.
type Provider struct {
	name   string
	model  string
	client *goopenai.Client
}

func NewProvider(cfg config.OpenAIConfig) *Provider {
	return NewCompatibleProvider("openai", cfg.BaseURL, cfg.APIKey, cfg.Model)
}

// NewCompatibleProvider creates a Provider for an OpenAI-compatible endpoint.
// An empty baseURL uses the public OpenAI API.
func NewCompatibleProvider(name, baseURL, apiKey, model string) *Provider {
	clientConfig := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	return &Provider{
		name:   name,
		model:  model,
		client: goopenai.NewClientWithConfig(clientConfig),
	}
}

func (p *Provider) Name() string { return p.name }

// Classify sends instruction as the system message and question as the user message.
func (p *Provider) Classify(ctx context.Context, question, instruction string) (string, error) {
	return p.complete(ctx, classifyTemperature, []goopenai.ChatCompletionMessage{
		{Role: goopenai.ChatMessageRoleSystem, Content: instruction},
		{Role: goopenai.ChatMessageRoleUser, Content: question},
	})
}

func (p *Provider) Generate(ctx context.Context, prompt string) (string, error) {
	return p.complete(ctx, generateTemperature, []goopenai.ChatCompletionMessage{
		{Role: goopenai.ChatMessageRoleUser, Content: prompt},
	})
}

func (p *Provider) complete(ctx context.Context, temperature float32, msgs []goopenai.ChatCompletionMessage) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    msgs,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%s chat completion: %w", p.name, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s chat completion: no choices returned", p.name)
	}
	return resp.Choices[0].Message.Content, nil
}

var _ models.AIProvider = (*Provider)(nil)
