package agent

import (
	"context"
	"strings"

	"github.com/Nyukimin/kokoro/internal/domain/llm"
)

// GenerationSettings は各エージェントがLLMに渡す生成パラメータ
type GenerationSettings struct {
	MaxTokens   int
	Temperature float64
}

// DefaultThinkSettings は思考モジュールの既定値（確実性重視）
var DefaultThinkSettings = GenerationSettings{MaxTokens: 1024, Temperature: 0.3}

// DefaultSpeechSettings は発話モジュールの既定値
var DefaultSpeechSettings = GenerationSettings{MaxTokens: 2048, Temperature: 0.7}

// DefaultSummarySettings は要約モジュールの既定値
var DefaultSummarySettings = GenerationSettings{MaxTokens: 512, Temperature: 0.3}

// invoke は生プロンプトでLLMを呼び出し本文を返す
func invoke(ctx context.Context, provider llm.LLMProvider, prompt string, s GenerationSettings) (string, error) {
	resp, err := provider.Generate(ctx, llm.PromptRequest(prompt, s.MaxTokens, s.Temperature))
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
