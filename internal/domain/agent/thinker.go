package agent

import (
	"context"
	"fmt"

	"github.com/Nyukimin/kokoro/internal/domain/conversation"
	"github.com/Nyukimin/kokoro/internal/domain/llm"
	"github.com/Nyukimin/kokoro/internal/domain/persona"
)

// ThinkerAgent はユーザー入力を分析し、合理的な判断（思考）を生成するエンティティ
type ThinkerAgent struct {
	llmProvider llm.LLMProvider
	persona     persona.Persona
	settings    GenerationSettings
}

// NewThinkerAgent は新しいThinkerAgentを作成
func NewThinkerAgent(llmProvider llm.LLMProvider, p persona.Persona, settings GenerationSettings) *ThinkerAgent {
	return &ThinkerAgent{
		llmProvider: llmProvider,
		persona:     p,
		settings:    settings,
	}
}

// Think は思考を生成
func (a *ThinkerAgent) Think(ctx context.Context, query string, summaries []string, thoughts []conversation.ThoughtRecord) (string, error) {
	thought, err := invoke(ctx, a.llmProvider, a.BuildPrompt(query, summaries, thoughts), a.settings)
	if err != nil {
		return "", fmt.Errorf("think: %w", err)
	}
	return thought, nil
}

// BuildPrompt は思考プロンプトを構築
// 要約と思考の両方の履歴がある場合のみ履歴を注入する
func (a *ThinkerAgent) BuildPrompt(query string, summaries []string, thoughts []conversation.ThoughtRecord) string {
	system := a.persona.ThoughtSystemPrompt()
	if len(summaries) == 0 || len(thoughts) == 0 {
		return fmt.Sprintf("%s\nquery: %s", system, query)
	}

	lines := make([]string, 0, len(thoughts))
	for _, t := range thoughts {
		lines = append(lines, t.ThoughtLine())
	}

	return fmt.Sprintf("%s\n(Recent Summaries):\n%s\n(Recent Thoughts):%s\nquery:%s",
		system, joinLines(summaries), joinLines(lines), query)
}
