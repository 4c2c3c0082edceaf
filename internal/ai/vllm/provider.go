// Package vllm connects to a vLLM server through its OpenAI-compatible API.
package vllm

import (
	"github.com/kiranshivaraju/yaktalk/internal/ai/openai"
	"github.com/kiranshivaraju/yaktalk/internal/config"
)

// placeholderKey satisfies clients that insist on a bearer token; vLLM ignores it
// unless started with --api-key.
const placeholderKey = "EMPTY"

// NewProvider returns a provider named "vllm" for the server at cfg.BaseURL,
// which must include the /v1 prefix.
func NewProvider(cfg config.VLLMConfig) *openai.Provider {
	return openai.NewCompatibleProvider("vllm", cfg.BaseURL, placeholderKey, cfg.Model)
}
