package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Nyukimin/kokoro/internal/adapter/config"
	"github.com/Nyukimin/kokoro/internal/application/orchestrator"
	"github.com/Nyukimin/kokoro/internal/infrastructure/persistence/history"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		LLM: config.LLMConfig{
			Provider:    "ollama",
			Model:       "gemma3",
			Mode:        "single",
			Personality: config.PersonalityConfig{Name: "Kokoro"},
		},
		History: config.HistoryConfig{Backend: "json"},
		TTS:     config.TTSConfig{Backend: "coqui"},
		Path:    config.PathConfig{Logs: t.TempDir()},
	}
}

func TestBuildRepository_JSON(t *testing.T) {
	cfg := testConfig(t)

	repo, closeRepo, err := buildRepository(cfg)
	require.NoError(t, err)
	defer closeRepo()

	assert.IsType(t, &history.JSONRepository{}, repo)

	// 起動時に会話ディレクトリが作成される
	info, err := os.Stat(filepath.Join(cfg.Path.Logs, "conversation"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestBuildRepository_SQLite(t *testing.T) {
	cfg := testConfig(t)
	cfg.History.Backend = "sqlite"

	repo, closeRepo, err := buildRepository(cfg)
	require.NoError(t, err)
	defer closeRepo()

	assert.IsType(t, &history.SQLiteRepository{}, repo)
}

func TestBuildDependencies(t *testing.T) {
	cfg := testConfig(t)

	deps, err := buildDependencies(cfg, zap.NewNop())
	require.NoError(t, err)
	defer deps.Close()

	assert.NotNil(t, deps.orchestrator)
	assert.Equal(t, orchestrator.ModeSingle, deps.orchestrator.Mode())
	assert.Nil(t, deps.speaker)

	deps.orchestrator.Restore(context.Background())
	assert.True(t, deps.orchestrator.History().IsEmpty())
}

func TestBuildDependencies_WithSpeech(t *testing.T) {
	cfg := testConfig(t)
	cfg.TTS.Enabled = true
	cfg.TTS.Voice = "p225"

	deps, err := buildDependencies(cfg, zap.NewNop())
	require.NoError(t, err)
	defer deps.Close()

	require.NotNil(t, deps.speaker)
	assert.Equal(t, "p225", deps.speaker.Voice())
}

func TestBuildDependencies_InvalidTTSBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.TTS.Enabled = true
	cfg.TTS.Backend = "openai"

	_, err := buildDependencies(cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("KOKORO_CONFIG", "")
	configPath = ""
	assert.Equal(t, config.DefaultPath, getConfigPath())

	t.Setenv("KOKORO_CONFIG", "/etc/kokoro.yaml")
	assert.Equal(t, "/etc/kokoro.yaml", getConfigPath())

	configPath = "./mine.json"
	defer func() { configPath = "" }()
	assert.Equal(t, "./mine.json", getConfigPath())
}
