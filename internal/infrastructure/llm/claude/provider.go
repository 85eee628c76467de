package claude

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/Nyukimin/kokoro/internal/domain/llm"
)

// defaultMaxTokens はClaude APIで必須のmax_tokensの既定値
const defaultMaxTokens = 1024

// ClaudeProvider はClaude APIプロバイダーの実装
type ClaudeProvider struct {
	model      string
	baseURL    string
	timeout    time.Duration
	maxRetries int
	client     anthropic.Client
}

// Option はClaudeProviderの設定関数
type Option func(*ClaudeProvider)

// WithBaseURL はベースURLを設定（テスト用）
func WithBaseURL(url string) Option {
	return func(p *ClaudeProvider) {
		p.baseURL = url
	}
}

// WithTimeout はHTTPタイムアウトを設定
func WithTimeout(d time.Duration) Option {
	return func(p *ClaudeProvider) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithMaxRetries はSDKの再試行回数を設定
func WithMaxRetries(n int) Option {
	return func(p *ClaudeProvider) {
		p.maxRetries = n
	}
}

// NewClaudeProvider は新しいClaudeProviderを作成
func NewClaudeProvider(apiKey, model string, opts ...Option) *ClaudeProvider {
	p := &ClaudeProvider{
		model:      model,
		timeout:    120 * time.Second,
		maxRetries: 2,
	}
	for _, opt := range opts {
		opt(p)
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(&http.Client{Timeout: p.timeout}),
		option.WithMaxRetries(p.maxRetries),
	}
	if p.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(p.baseURL))
	}
	p.client = anthropic.NewClient(clientOpts...)

	return p
}

// Generate はLLM生成を実行
func (p *ClaudeProvider) Generate(ctx context.Context, req llm.GenerateRequest) (llm.GenerateResponse, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(maxTokens),
		Messages:  p.convertMessages(req.AsMessages()),
	}

	// Claude APIはsystemロールをサポートしないため、systemはトップレベルで渡す
	if system := p.collectSystem(req); system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	// Temperature（0.0-1.0の範囲）
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}

	message, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return llm.GenerateResponse{}, fmt.Errorf("claude API error: %w", err)
	}

	// テキストブロックを連結
	var content strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			content.WriteString(block.Text)
		}
	}

	return llm.GenerateResponse{
		Content:      content.String(),
		TokensUsed:   int(message.Usage.InputTokens + message.Usage.OutputTokens),
		FinishReason: string(message.StopReason),
	}, nil
}

// Name はプロバイダー名を返す
func (p *ClaudeProvider) Name() string {
	return fmt.Sprintf("claude-%s", p.model)
}

// collectSystem はSystemPromptとsystemロールのメッセージを結合
func (p *ClaudeProvider) collectSystem(req llm.GenerateRequest) string {
	parts := make([]string, 0, 1)
	if req.SystemPrompt != "" {
		parts = append(parts, req.SystemPrompt)
	}
	for _, msg := range req.Messages {
		if msg.Role == "system" {
			parts = append(parts, msg.Content)
		}
	}
	return strings.Join(parts, "\n")
}

// convertMessages はドメインメッセージをClaude SDKのメッセージに変換
func (p *ClaudeProvider) convertMessages(messages []llm.Message) []anthropic.MessageParam {
	claudeMessages := make([]anthropic.MessageParam, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case "system":
			continue
		case "assistant":
			claudeMessages = append(claudeMessages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			claudeMessages = append(claudeMessages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	return claudeMessages
}
