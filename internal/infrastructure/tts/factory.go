// Package tts は音声合成バックエンド（Coqui / OpenAI / ElevenLabs）を設定から組み立てる。
package tts

import (
	"fmt"
	"strings"
	"time"

	domaintts "github.com/Nyukimin/kokoro/internal/domain/tts"
	"github.com/Nyukimin/kokoro/internal/infrastructure/tts/coqui"
	"github.com/Nyukimin/kokoro/internal/infrastructure/tts/elevenlabs"
	"github.com/Nyukimin/kokoro/internal/infrastructure/tts/openai"
)

const (
	BackendCoqui      = "coqui"
	BackendOpenAI     = "openai"
	BackendElevenLabs = "elevenlabs"
)

// Settings はバックエンド生成に必要な設定
type Settings struct {
	Backend  string
	BaseURL  string
	Model    string
	APIKey   string
	Language string
	Timeout  time.Duration
}

// NewSynthesizer は設定に応じたSynthesizerを作成
func NewSynthesizer(s Settings) (domaintts.Synthesizer, error) {
	switch strings.ToLower(s.Backend) {
	case "", BackendCoqui:
		return coqui.NewSynthesizer(s.BaseURL, s.Language, s.Timeout), nil

	case BackendOpenAI:
		if s.APIKey == "" {
			return nil, fmt.Errorf("openai tts backend requires an API key")
		}
		return openai.NewSynthesizer(s.BaseURL, s.APIKey, s.Model, s.Timeout), nil

	case BackendElevenLabs:
		if s.APIKey == "" {
			return nil, fmt.Errorf("elevenlabs tts backend requires an API key")
		}
		return elevenlabs.NewSynthesizer(s.BaseURL, s.APIKey, s.Model, s.Timeout), nil

	default:
		return nil, fmt.Errorf("unknown tts backend: %s", s.Backend)
	}
}
