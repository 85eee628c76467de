package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Nyukimin/kokoro/internal/adapter/config"
	"github.com/Nyukimin/kokoro/internal/infrastructure/health"
	"github.com/Nyukimin/kokoro/internal/infrastructure/tts/coqui"
)

const doctorTimeout = 5 * time.Second

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the model server and TTS server are reachable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()
		return runDoctor(cmd.Context(), cmd.OutOrStdout(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// doctorChecks は設定に応じた確認項目を作成
// ホスト型API（OpenAI・Claude・ElevenLabs）はキーの有無のみ確認する
func doctorChecks(cfg *config.Config) []health.Check {
	var checks []health.Check

	switch strings.ToLower(cfg.LLM.Provider) {
	case "ollama":
		base := cfg.LLM.BaseURL
		if base == "" {
			base = "http://localhost:11434"
		}
		checks = append(checks,
			health.Check{Name: "ollama", Fn: health.ReachableCheck(base, doctorTimeout)},
			health.Check{Name: "ollama model", Fn: health.OllamaModelCheck(base, cfg.LLM.Model, doctorTimeout)},
		)
	default:
		checks = append(checks, apiKeyCheck("llm api key", cfg.LLM.APIKey))
	}

	if cfg.TTS.Enabled {
		switch strings.ToLower(cfg.TTS.Backend) {
		case "coqui":
			base := cfg.TTS.BaseURL
			if base == "" {
				base = coqui.DefaultBaseURL
			}
			checks = append(checks, health.Check{Name: "coqui tts", Fn: health.ReachableCheck(base, doctorTimeout)})
		default:
			checks = append(checks, apiKeyCheck("tts api key", cfg.TTS.APIKey))
		}
	}

	return checks
}

func apiKeyCheck(name, key string) health.Check {
	return health.Check{Name: name, Fn: func(context.Context) (bool, string) {
		if key == "" {
			return false, "missing"
		}
		return true, "set"
	}}
}

// runDoctor は確認結果を表示し、失敗があればエラーを返す
func runDoctor(ctx context.Context, out io.Writer, cfg *config.Config) error {
	results := health.Run(ctx, doctorChecks(cfg))
	for _, r := range results {
		status := "ok"
		if !r.OK {
			status = "NG"
		}
		fmt.Fprintf(out, "[%s] %s: %s\n", status, r.Name, r.Message)
	}
	if !health.AllOK(results) {
		return fmt.Errorf("some checks failed")
	}
	return nil
}
