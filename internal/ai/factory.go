package ai

import (
	"fmt"

	"github.com/kiranshivaraju/yaktalk/internal/ai/anthropic"
	"github.com/kiranshivaraju/yaktalk/internal/ai/ollama"
	"github.com/kiranshivaraju/yaktalk/internal/ai/openai"
	"github.com/kiranshivaraju/yaktalk/internal/ai/vllm"
	"github.com/kiranshivaraju/yaktalk/internal/config"
	"github.com/kiranshivaraju/yaktalk/pkg/models"
)

// NewProvider constructs the appropriate AI provider based on config,
// wrapped in a GuardedProvider. Called once at startup.
func NewProvider(cfg config.AIConfig) (models.AIProvider, error) {
	var p models.AIProvider
	switch cfg.Provider {
	case "ollama":
		p = ollama.NewProvider(cfg.Ollama)
	case "vllm":
		p = vllm.NewProvider(cfg.VLLM)
	case "openai":
		p = openai.NewProvider(cfg.OpenAI)
	case "anthropic":
		p = anthropic.NewProvider(cfg.Anthropic)
	default:
		return nil, fmt.Errorf("unknown AI provider %q: must be one of ollama, vllm, openai, anthropic", cfg.Provider)
	}
	return NewGuardedProvider(p, cfg.RequestsPerSecond, cfg.Burst), nil
}
