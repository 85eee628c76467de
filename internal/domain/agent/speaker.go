package agent

import (
	"context"
	"fmt"

	"github.com/Nyukimin/kokoro/internal/domain/llm"
	"github.com/Nyukimin/kokoro/internal/domain/persona"
)

// SpeakerAgent は思考を踏まえてキャラクターとして応答するエンティティ
type SpeakerAgent struct {
	llmProvider llm.LLMProvider
	persona     persona.Persona
	settings    GenerationSettings
}

// NewSpeakerAgent は新しいSpeakerAgentを作成
func NewSpeakerAgent(llmProvider llm.LLMProvider, p persona.Persona, settings GenerationSettings) *SpeakerAgent {
	return &SpeakerAgent{
		llmProvider: llmProvider,
		persona:     p,
		settings:    settings,
	}
}

// Answer は応答を生成
func (a *SpeakerAgent) Answer(ctx context.Context, query, thought string) (string, error) {
	answer, err := invoke(ctx, a.llmProvider, a.BuildPrompt(query, thought), a.settings)
	if err != nil {
		return "", fmt.Errorf("answer: %w", err)
	}
	return answer, nil
}

// AnswerDirect は思考なしの一段階プロンプトで応答を生成
func (a *SpeakerAgent) AnswerDirect(ctx context.Context, query string) (string, error) {
	answer, err := invoke(ctx, a.llmProvider, a.persona.SinglePrompt(query), a.settings)
	if err != nil {
		return "", fmt.Errorf("answer: %w", err)
	}
	return answer, nil
}

// BuildPrompt は発話プロンプトを構築
func (a *SpeakerAgent) BuildPrompt(query, thought string) string {
	return fmt.Sprintf("%s\nHere's query:%s\n And your thought:%s\n", a.persona.SpeechSystemPrompt(), query, thought)
}
