package llm

import "context"

// Message はLLMメッセージを表す
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// GenerateRequest はLLM生成リクエスト
//
// Prompt が設定されている場合、プロバイダーはそれを加工せずに
// 単一の補完プロンプトとして送信する（Messages より優先）
type GenerateRequest struct {
	Prompt       string
	Messages     []Message
	MaxTokens    int
	Temperature  float64
	SystemPrompt string
}

// GenerateResponse はLLM生成レスポンス
type GenerateResponse struct {
	Content      string
	TokensUsed   int
	FinishReason string
}

// LLMProvider はLLMプロバイダーの抽象化
type LLMProvider interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
	Name() string
}

// PromptRequest は生プロンプトのみのリクエストを作成
func PromptRequest(prompt string, maxTokens int, temperature float64) GenerateRequest {
	return GenerateRequest{
		Prompt:      prompt,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
}

// AsMessages はリクエストをチャット形式のメッセージ列に展開
// Prompt は末尾のユーザーメッセージとして扱う
func (r GenerateRequest) AsMessages() []Message {
	msgs := make([]Message, 0, len(r.Messages)+1)
	msgs = append(msgs, r.Messages...)
	if r.Prompt != "" {
		msgs = append(msgs, Message{Role: "user", Content: r.Prompt})
	}
	return msgs
}
