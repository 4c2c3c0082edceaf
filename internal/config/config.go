package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the YakTalk server and CLI.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	AI        AIConfig
	RAG       RAGConfig
	Intent    IntentConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL string
}

type AIConfig struct {
	Provider         string
	InferenceTimeout time.Duration
	// RequestsPerSecond caps outbound model calls; 0 means unlimited.
	RequestsPerSecond float64
	Burst             int
	Ollama            OllamaConfig
	VLLM              VLLMConfig
	OpenAI            OpenAIConfig
	Anthropic         AnthropicConfig
}

type OllamaConfig struct {
	BaseURL string
	Model   string
}

type VLLMConfig struct {
	BaseURL string
	Model   string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type AnthropicConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RAGConfig controls retrieval and the answer cache.
type RAGConfig struct {
	TopK          int
	CacheCapacity int
}

type IntentConfig struct {
	// CacheTTL is how long a classification is reused; 0 disables reuse.
	CacheTTL time.Duration
}

type AuthConfig struct {
	// APIKeyHash is a bcrypt hash of the accepted API key. Empty disables auth.
	APIKeyHash string
}

type RateLimitConfig struct {
	PerMinute int
}

var validProviders = map[string]bool{
	"ollama":    true,
	"vllm":      true,
	"openai":    true,
	"anthropic": true,
}

// Load reads configuration from environment variables and returns a validated Config.
// Returns an error with a descriptive message if any required value is missing or invalid.
func Load() (*Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom is Load with a custom variable lookup. Lookups returning ""
// are treated as unset.
func LoadFrom(getenv func(string) string) (*Config, error) {
	e := source(getenv)
	cfg := &Config{
		Server: ServerConfig{
			Port: e.envInt("YAKTALK_PORT", 8080),
			Env:  e.envString("YAKTALK_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL:             getenv("DATABASE_URL"),
			MaxOpenConns:    e.envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    e.envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: e.envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL: getenv("REDIS_URL"),
		},
		AI: AIConfig{
			Provider:          getenv("AI_PROVIDER"),
			InferenceTimeout:  e.envDurationSecs("AI_INFERENCE_TIMEOUT_SECS", 60*time.Second),
			RequestsPerSecond: e.envFloat("AI_REQUESTS_PER_SECOND", 0),
			Burst:             e.envInt("AI_BURST", 5),
			Ollama: OllamaConfig{
				BaseURL: e.envString("OLLAMA_BASE_URL", "http://localhost:11434"),
				Model:   e.envString("OLLAMA_MODEL", "llama3"),
			},
			VLLM: VLLMConfig{
				BaseURL: e.envString("VLLM_BASE_URL", "http://localhost:8000/v1"),
				Model:   e.envString("VLLM_MODEL", ""),
			},
			OpenAI: OpenAIConfig{
				APIKey:  getenv("OPENAI_API_KEY"),
				Model:   e.envString("OPENAI_MODEL", "gpt-4"),
				BaseURL: getenv("OPENAI_BASE_URL"),
			},
			Anthropic: AnthropicConfig{
				APIKey:  getenv("ANTHROPIC_API_KEY"),
				Model:   e.envString("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929"),
				BaseURL: e.envString("ANTHROPIC_BASE_URL", "https://api.anthropic.com"),
			},
		},
		RAG: RAGConfig{
			TopK:          e.envInt("RAG_TOP_K", 4),
			CacheCapacity: e.envInt("RAG_CACHE_CAPACITY", 100),
		},
		Intent: IntentConfig{
			CacheTTL: e.envDuration("INTENT_CACHE_TTL", 10*time.Minute),
		},
		Auth: AuthConfig{
			APIKeyHash: getenv("YAKTALK_API_KEY_HASH"),
		},
		RateLimit: RateLimitConfig{
			PerMinute: e.envInt("RATE_LIMIT_PER_MINUTE", 60),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.AI.Provider == "" {
		return fmt.Errorf("AI_PROVIDER is required")
	}
	if !validProviders[c.AI.Provider] {
		return fmt.Errorf("AI_PROVIDER must be one of ollama, vllm, openai, anthropic; got %q", c.AI.Provider)
	}

	if c.AI.Provider == "openai" && c.AI.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required when AI_PROVIDER is openai")
	}
	if c.AI.Provider == "anthropic" && c.AI.Anthropic.APIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is required when AI_PROVIDER is anthropic")
	}
	if c.AI.Provider == "vllm" {
		if c.AI.VLLM.Model == "" {
			return fmt.Errorf("VLLM_MODEL is required when AI_PROVIDER is vllm")
		}
		if !strings.HasPrefix(c.AI.VLLM.BaseURL, "http://") && !strings.HasPrefix(c.AI.VLLM.BaseURL, "https://") {
			return fmt.Errorf("VLLM_BASE_URL must start with http:// or https://, got %q", c.AI.VLLM.BaseURL)
		}
	}
	if c.AI.RequestsPerSecond < 0 {
		return fmt.Errorf("AI_REQUESTS_PER_SECOND must not be negative, got %v", c.AI.RequestsPerSecond)
	}

	if c.RAG.TopK < 1 {
		return fmt.Errorf("RAG_TOP_K must be at least 1, got %d", c.RAG.TopK)
	}
	if c.RAG.CacheCapacity < 1 {
		return fmt.Errorf("RAG_CACHE_CAPACITY must be at least 1, got %d", c.RAG.CacheCapacity)
	}

	if c.RateLimit.PerMinute < 1 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be at least 1, got %d", c.RateLimit.PerMinute)
	}

	return nil
}

// source resolves typed values from a variable lookup, falling back to
// defaults on empty or malformed values.
type source func(string) string

func (s source) envString(key, defaultVal string) string {
	if v := s(key); v != "" {
		return v
	}
	return defaultVal
}

func (s source) envInt(key string, defaultVal int) int {
	v := s(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func (s source) envFloat(key string, defaultVal float64) float64 {
	v := s(key)
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func (s source) envDuration(key string, defaultVal time.Duration) time.Duration {
	v := s(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func (s source) envDurationSecs(key string, defaultVal time.Duration) time.Duration {
	v := s(key)
	if v == "" {
		return defaultVal
	}
	secs, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return time.Duration(secs) * time.Second
}
