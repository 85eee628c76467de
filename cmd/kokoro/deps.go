package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Nyukimin/kokoro/internal/adapter/config"
	"github.com/Nyukimin/kokoro/internal/application/orchestrator"
	"github.com/Nyukimin/kokoro/internal/application/speech"
	"github.com/Nyukimin/kokoro/internal/domain/agent"
	"github.com/Nyukimin/kokoro/internal/domain/conversation"
	"github.com/Nyukimin/kokoro/internal/infrastructure/audio"
	"github.com/Nyukimin/kokoro/internal/infrastructure/llm"
	"github.com/Nyukimin/kokoro/internal/infrastructure/persistence/history"
	"github.com/Nyukimin/kokoro/internal/infrastructure/tts"
)

// Dependencies はアプリケーション依存関係
type Dependencies struct {
	orchestrator *orchestrator.TurnOrchestrator
	speaker      *speech.Speaker // tts.enabled が false の場合は nil
	closers      []func() error
}

// Close は保持しているリソースを解放
func (d *Dependencies) Close() {
	for _, c := range d.closers {
		_ = c()
	}
}

// buildDependencies は依存関係を構築
func buildDependencies(cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	// 1. Persona
	p, err := cfg.Persona()
	if err != nil {
		return nil, err
	}

	// 2. LLM Provider
	provider, err := llm.NewProvider(llm.Settings{
		Provider: cfg.LLM.Provider,
		Model:    cfg.LLM.Model,
		BaseURL:  cfg.LLM.BaseURL,
		APIKey:   cfg.LLM.APIKey,
		Timeout:  cfg.LLMTimeout(),
	})
	if err != nil {
		return nil, err
	}
	logger.Info("llm provider ready", zap.String("provider", provider.Name()), zap.String("mode", cfg.LLM.Mode))

	// 3. Agents
	thinker := agent.NewThinkerAgent(provider, p, agent.DefaultThinkSettings)
	speaker := agent.NewSpeakerAgent(provider, p, agent.DefaultSpeechSettings)
	summarizer := agent.NewSummarizerAgent(provider, agent.DefaultSummarySettings)

	// 4. History Repository
	repo, closeRepo, err := buildRepository(cfg)
	if err != nil {
		return nil, err
	}
	deps := &Dependencies{closers: []func() error{closeRepo}}

	// 5. Application Orchestrator
	deps.orchestrator = orchestrator.NewTurnOrchestrator(repo, thinker, speaker, summarizer,
		orchestrator.WithMode(orchestrator.Mode(cfg.LLM.Mode)),
		orchestrator.WithWindows(orchestrator.Windows{
			Thoughts:  cfg.History.ThoughtWindow,
			Summaries: cfg.History.SummaryWindow,
			Chats:     cfg.History.ChatWindow,
		}),
		orchestrator.WithLogger(logger),
	)

	// 6. Speech（任意）
	if cfg.TTS.Enabled {
		s, err := buildSpeaker(cfg, logger)
		if err != nil {
			deps.Close()
			return nil, err
		}
		deps.speaker = s
	}

	logger.Debug("dependency injection complete")
	return deps, nil
}

// buildRepository は設定に応じた履歴リポジトリを作成
func buildRepository(cfg *config.Config) (conversation.Repository, func() error, error) {
	dir := cfg.ConversationDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create conversation directory: %w", err)
	}

	switch cfg.History.Backend {
	case "sqlite":
		repo, err := history.NewSQLiteRepository(dir)
		if err != nil {
			return nil, nil, err
		}
		return repo, repo.Close, nil
	default:
		return history.NewJSONRepository(dir), func() error { return nil }, nil
	}
}

// buildSpeaker は音声合成と再生を組み立てる
func buildSpeaker(cfg *config.Config, logger *zap.Logger) (*speech.Speaker, error) {
	synth, err := tts.NewSynthesizer(tts.Settings{
		Backend:  cfg.TTS.Backend,
		BaseURL:  cfg.TTS.BaseURL,
		Model:    cfg.TTS.Model,
		APIKey:   cfg.TTS.APIKey,
		Language: cfg.TTS.Language,
		Timeout:  cfg.TTSTimeout(),
	})
	if err != nil {
		return nil, err
	}

	player := audio.NewPlayer(cfg.TTS.Player)
	logger.Info("speech ready", zap.String("backend", synth.Name()), zap.String("voice", cfg.TTS.Voice))

	return speech.NewSpeaker(synth, player, cfg.TTS.Voice, logger), nil
}
