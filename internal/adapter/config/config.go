package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/Nyukimin/kokoro/internal/domain/persona"
)

// DefaultPath は設定ファイルの既定パス
const DefaultPath = "./config/config.json"

// Config はアプリケーション全体の設定
type Config struct {
	LLM     LLMConfig     `json:"llm" yaml:"llm"`
	History HistoryConfig `json:"history" yaml:"history"`
	TTS     TTSConfig     `json:"tts" yaml:"tts"`
	Log     LogConfig     `json:"log" yaml:"log"`
	Path    PathConfig    `json:"path" yaml:"path"`
}

// LLMConfig は言語モデルとペルソナの設定
type LLMConfig struct {
	Provider    string            `json:"provider" yaml:"provider" env:"KOKORO_LLM_PROVIDER"`
	Model       string            `json:"model" yaml:"model" env:"KOKORO_LLM_MODEL"`
	BaseURL     string            `json:"base_url" yaml:"base_url" env:"KOKORO_LLM_BASE_URL"`
	APIKey      string            `json:"api_key" yaml:"api_key" env:"KOKORO_LLM_API_KEY"` // 環境変数から読み込み推奨
	Timeout     int               `json:"timeout" yaml:"timeout" env:"KOKORO_LLM_TIMEOUT"` // 秒
	Mode        string            `json:"mode" yaml:"mode" env:"KOKORO_LLM_MODE"`          // pipeline, single
	Personality PersonalityConfig `json:"personality" yaml:"personality"`
	Language    string            `json:"language" yaml:"language" env:"KOKORO_LLM_LANGUAGE"`
	Rule        FlexibleText      `json:"rule" yaml:"rule"`
	Attitude    FlexibleText      `json:"attitude" yaml:"attitude"`
	Example     FlexibleText      `json:"example" yaml:"example"`
}

// PersonalityConfig は人格設定
type PersonalityConfig struct {
	Name     string `json:"name" yaml:"name"`
	Identity string `json:"identity" yaml:"identity"`
}

// HistoryConfig は会話履歴の設定
type HistoryConfig struct {
	Backend       string `json:"backend" yaml:"backend" env:"KOKORO_HISTORY_BACKEND"` // json, sqlite
	ThoughtWindow int    `json:"thought_window" yaml:"thought_window"`
	SummaryWindow int    `json:"summary_window" yaml:"summary_window"`
	ChatWindow    int    `json:"chat_window" yaml:"chat_window"`
}

// TTSConfig は音声合成の設定
type TTSConfig struct {
	Enabled  bool   `json:"enabled" yaml:"enabled" env:"KOKORO_TTS_ENABLED"`
	Backend  string `json:"backend" yaml:"backend" env:"KOKORO_TTS_BACKEND"` // coqui, openai, elevenlabs
	BaseURL  string `json:"base_url" yaml:"base_url" env:"KOKORO_TTS_BASE_URL"`
	Model    string `json:"model" yaml:"model" env:"KOKORO_TTS_MODEL"`
	Voice    string `json:"voice" yaml:"voice" env:"KOKORO_TTS_VOICE"`
	Language string `json:"language" yaml:"language"`
	APIKey   string `json:"api_key" yaml:"api_key" env:"KOKORO_TTS_API_KEY"`
	Player   string `json:"player" yaml:"player" env:"KOKORO_TTS_PLAYER"`
	Timeout  int    `json:"timeout" yaml:"timeout"` // 秒
}

// LogConfig はログ設定
type LogConfig struct {
	Level  string `json:"level" yaml:"level" env:"KOKORO_LOG_LEVEL"`
	Format string `json:"format" yaml:"format" env:"KOKORO_LOG_FORMAT"`
	File   string `json:"file" yaml:"file" env:"KOKORO_LOG_FILE"` // "-" は標準エラー
}

// PathConfig はファイル出力先の設定
type PathConfig struct {
	Logs string `json:"logs" yaml:"logs" env:"KOKORO_LOGS_DIR"`
}

// apiKeys はプロバイダー標準の環境変数から読み込むAPIキー
type apiKeys struct {
	OpenAI     string `env:"OPENAI_API_KEY"`
	DeepSeek   string `env:"DEEPSEEK_API_KEY"`
	Anthropic  string `env:"ANTHROPIC_API_KEY"`
	ElevenLabs string `env:"ELEVEN_API_KEY"`
}

// LoadConfig は設定ファイルを読み込む
// 拡張子が .yaml / .yml の場合はYAML、それ以外はJSONとして扱う
func LoadConfig(path string) (*Config, error) {
	// ファイル読み込み
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// パース
	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	// デフォルト値設定
	cfg.setDefaults()

	// 環境変数で上書き
	if err := cfg.loadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	// バリデーション
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults はデフォルト値を設定
func (c *Config) setDefaults() {
	if c.LLM.Provider == "" {
		c.LLM.Provider = "ollama"
	}

	if c.LLM.Mode == "" {
		c.LLM.Mode = "pipeline"
	}

	if c.LLM.Timeout <= 0 {
		c.LLM.Timeout = 120
	}

	if c.LLM.Language == "" {
		c.LLM.Language = "English"
	}

	if c.History.Backend == "" {
		c.History.Backend = "json"
	}

	if c.History.ThoughtWindow <= 0 {
		c.History.ThoughtWindow = 5
	}

	if c.History.SummaryWindow <= 0 {
		c.History.SummaryWindow = 5
	}

	if c.History.ChatWindow <= 0 {
		c.History.ChatWindow = 10
	}

	if c.TTS.Backend == "" {
		c.TTS.Backend = "coqui"
	}

	if c.TTS.Timeout <= 0 {
		c.TTS.Timeout = 120
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	if c.Log.Format == "" {
		c.Log.Format = "json"
	}

	if c.Path.Logs == "" {
		c.Path.Logs = "./logs"
	}
}

// loadFromEnv は環境変数から設定を読み込み
func (c *Config) loadFromEnv() error {
	if err := env.Parse(c); err != nil {
		return err
	}

	// API キーは環境変数から読み込み（ファイルに平文保存しない）
	var keys apiKeys
	if err := env.Parse(&keys); err != nil {
		return err
	}

	if c.LLM.APIKey == "" {
		switch strings.ToLower(c.LLM.Provider) {
		case "openai":
			c.LLM.APIKey = keys.OpenAI
		case "deepseek":
			c.LLM.APIKey = keys.DeepSeek
		case "claude":
			c.LLM.APIKey = keys.Anthropic
		}
	}

	if c.TTS.APIKey == "" {
		switch strings.ToLower(c.TTS.Backend) {
		case "openai":
			c.TTS.APIKey = keys.OpenAI
		case "elevenlabs":
			c.TTS.APIKey = keys.ElevenLabs
		}
	}

	return nil
}

// Validate は設定の妥当性を検証
func (c *Config) Validate() error {
	// LLM設定検証
	if c.LLM.Model == "" {
		return fmt.Errorf("llm model is required")
	}

	if c.LLM.Personality.Name == "" {
		return fmt.Errorf("llm personality.name is required")
	}

	switch strings.ToLower(c.LLM.Provider) {
	case "ollama", "openai", "deepseek", "claude":
	default:
		return fmt.Errorf("invalid llm provider: %q (must be ollama, openai, deepseek or claude)", c.LLM.Provider)
	}

	switch c.LLM.Mode {
	case "pipeline", "single":
	default:
		return fmt.Errorf("invalid llm mode: %q (must be pipeline or single)", c.LLM.Mode)
	}

	// 履歴設定検証
	switch c.History.Backend {
	case "json", "sqlite":
	default:
		return fmt.Errorf("invalid history backend: %q (must be json or sqlite)", c.History.Backend)
	}

	// パス設定検証
	if c.Path.Logs == "" {
		return fmt.Errorf("path logs is required")
	}

	return nil
}

// Persona は設定からペルソナを作成
func (c *Config) Persona() (persona.Persona, error) {
	return persona.NewPersona(
		c.LLM.Personality.Name,
		c.LLM.Personality.Identity,
		c.LLM.Language,
		c.LLM.Rule.String(),
		c.LLM.Attitude.String(),
		c.LLM.Example.String(),
	)
}

// LLMTimeout はLLMリクエストのタイムアウトを返す
func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLM.Timeout) * time.Second
}

// TTSTimeout は音声合成リクエストのタイムアウトを返す
func (c *Config) TTSTimeout() time.Duration {
	return time.Duration(c.TTS.Timeout) * time.Second
}

// ConversationDir は会話履歴の保存先を返す
func (c *Config) ConversationDir() string {
	return filepath.Join(c.Path.Logs, "conversation")
}

// LogFile はログの出力先を返す（未指定の場合は logs 配下）
func (c *Config) LogFile() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(c.Path.Logs, "kokoro.log")
}
