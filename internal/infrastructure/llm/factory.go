// Package llm はLLMバックエンド（Ollama / OpenAI互換 / Claude）を設定から組み立てる。
package llm

import (
	"fmt"
	"strings"
	"time"

	domainllm "github.com/Nyukimin/kokoro/internal/domain/llm"
	"github.com/Nyukimin/kokoro/internal/infrastructure/llm/claude"
	"github.com/Nyukimin/kokoro/internal/infrastructure/llm/ollama"
	"github.com/Nyukimin/kokoro/internal/infrastructure/llm/openai"
)

const (
	ProviderOllama   = "ollama"
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"
	ProviderClaude   = "claude"
)

// Settings はプロバイダー生成に必要な設定
type Settings struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
}

// NewProvider は設定に応じたLLMProviderを作成
func NewProvider(s Settings) (domainllm.LLMProvider, error) {
	if s.Model == "" {
		return nil, fmt.Errorf("llm model is required")
	}

	switch strings.ToLower(s.Provider) {
	case "", ProviderOllama:
		baseURL := s.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, s.Model, s.Timeout), nil

	case ProviderOpenAI:
		return openai.NewOpenAIProvider(s.APIKey, s.Model,
			openai.WithBaseURL(s.BaseURL),
			openai.WithTimeout(s.Timeout),
		), nil

	case ProviderDeepSeek:
		if s.APIKey == "" {
			return nil, fmt.Errorf("deepseek provider requires an API key")
		}
		baseURL := s.BaseURL
		if baseURL == "" {
			baseURL = openai.DeepSeekBaseURL
		}
		return openai.NewOpenAIProvider(s.APIKey, s.Model,
			openai.WithBaseURL(baseURL),
			openai.WithTimeout(s.Timeout),
		), nil

	case ProviderClaude:
		if s.APIKey == "" {
			return nil, fmt.Errorf("claude provider requires an API key")
		}
		opts := []claude.Option{claude.WithTimeout(s.Timeout)}
		if s.BaseURL != "" {
			opts = append(opts, claude.WithBaseURL(s.BaseURL))
		}
		return claude.NewClaudeProvider(s.APIKey, s.Model, opts...), nil

	default:
		return nil, fmt.Errorf("unknown llm provider: %s", s.Provider)
	}
}
