package openai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/Nyukimin/kokoro/internal/domain/llm"
)

const (
	// DefaultBaseURL はOpenAI APIのベースURL
	DefaultBaseURL = "https://api.openai.com/v1/"
	// DeepSeekBaseURL はDeepSeek（OpenAI互換）のベースURL
	DeepSeekBaseURL = "https://api.deepseek.com/v1/"
)

// OpenAIProvider はOpenAI互換Chat Completions APIプロバイダーの実装
// OpenAI / DeepSeek / Ollama の /v1 エンドポイントで共通に使える
type OpenAIProvider struct {
	model      string
	baseURL    string
	timeout    time.Duration
	maxRetries int
	client     openai.Client
}

// Option はOpenAIProviderの設定関数
type Option func(*OpenAIProvider)

// WithBaseURL はベースURLを設定
func WithBaseURL(url string) Option {
	return func(p *OpenAIProvider) {
		if url != "" {
			p.baseURL = url
		}
	}
}

// WithTimeout はHTTPタイムアウトを設定
func WithTimeout(d time.Duration) Option {
	return func(p *OpenAIProvider) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithMaxRetries はSDKの再試行回数を設定
func WithMaxRetries(n int) Option {
	return func(p *OpenAIProvider) {
		p.maxRetries = n
	}
}

// NewOpenAIProvider は新しいOpenAIProviderを作成
func NewOpenAIProvider(apiKey, model string, opts ...Option) *OpenAIProvider {
	p := &OpenAIProvider{
		model:      model,
		baseURL:    DefaultBaseURL,
		timeout:    120 * time.Second,
		maxRetries: 2,
	}
	for _, opt := range opts {
		opt(p)
	}

	clientOpts := []option.RequestOption{
		option.WithBaseURL(p.baseURL),
		option.WithHTTPClient(&http.Client{Timeout: p.timeout}),
		option.WithMaxRetries(p.maxRetries),
	}
	// Ollamaなどキー不要のエンドポイントでは環境変数OPENAI_API_KEYにフォールバックする
	if apiKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(apiKey))
	}
	p.client = openai.NewClient(clientOpts...)

	return p
}

// Generate はLLM生成を実行
func (p *OpenAIProvider) Generate(ctx context.Context, req llm.GenerateRequest) (llm.GenerateResponse, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(p.model),
		Messages: p.convertMessages(req),
	}

	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return llm.GenerateResponse{}, fmt.Errorf("openai API error: %w", err)
	}

	// コンテンツ抽出
	var content string
	var finishReason string
	if len(completion.Choices) > 0 {
		content = completion.Choices[0].Message.Content
		finishReason = string(completion.Choices[0].FinishReason)
	}

	return llm.GenerateResponse{
		Content:      content,
		TokensUsed:   int(completion.Usage.TotalTokens),
		FinishReason: finishReason,
	}, nil
}

// Name はプロバイダー名を返す
func (p *OpenAIProvider) Name() string {
	return fmt.Sprintf("openai-%s", p.model)
}

// convertMessages はドメインメッセージをOpenAI SDKのメッセージに変換
func (p *OpenAIProvider) convertMessages(req llm.GenerateRequest) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+2)

	// システムプロンプトを最初に追加
	if req.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(req.SystemPrompt))
	}

	for _, msg := range req.AsMessages() {
		switch msg.Role {
		case "system":
			messages = append(messages, openai.SystemMessage(msg.Content))
		case "assistant":
			messages = append(messages, openai.AssistantMessage(msg.Content))
		default:
			messages = append(messages, openai.UserMessage(msg.Content))
		}
	}

	return messages
}
