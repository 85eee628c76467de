package agent

import (
	"context"
	"fmt"

	"github.com/Nyukimin/kokoro/internal/domain/conversation"
	"github.com/Nyukimin/kokoro/internal/domain/llm"
	"github.com/Nyukimin/kokoro/internal/domain/persona"
)

// SummarizerAgent は直近の会話と累積要約を統合して新しい要約を生成するエンティティ
type SummarizerAgent struct {
	llmProvider llm.LLMProvider
	settings    GenerationSettings
}

// NewSummarizerAgent は新しいSummarizerAgentを作成
func NewSummarizerAgent(llmProvider llm.LLMProvider, settings GenerationSettings) *SummarizerAgent {
	return &SummarizerAgent{
		llmProvider: llmProvider,
		settings:    settings,
	}
}

// Summarize は要約を生成
func (a *SummarizerAgent) Summarize(ctx context.Context, query, answer string, chats []conversation.ChatRecord, summaries []string) (string, error) {
	summary, err := invoke(ctx, a.llmProvider, a.BuildPrompt(query, answer, chats, summaries), a.settings)
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	return summary, nil
}

// BuildPrompt は要約プロンプトを構築
// チャット履歴が空の場合は会話・累積要約ともに空文字列になる
func (a *SummarizerAgent) BuildPrompt(query, answer string, chats []conversation.ChatRecord, summaries []string) string {
	recent := ""
	accumulated := ""
	if len(chats) > 0 {
		lines := make([]string, 0, len(chats))
		for _, c := range chats {
			lines = append(lines, c.ExchangeLine())
		}
		recent = joinLines(lines)
		accumulated = joinLines(summaries)
	}

	return fmt.Sprintf("%sRecent Conversation: %s\nQuery: %s\nAnswer: %s\nAccumulated Summaries: %s",
		persona.SummaryInstruction, recent, query, answer, accumulated)
}
