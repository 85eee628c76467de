package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Nyukimin/kokoro/internal/domain/llm"
)

// DefaultTimeout はOllamaへのリクエストタイムアウト（Ollamaは遅い場合があるため長めに設定）
const DefaultTimeout = 120 * time.Second

// OllamaProvider はOllama APIプロバイダーの実装
type OllamaProvider struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllamaProvider は新しいOllamaProviderを作成
func NewOllamaProvider(baseURL, model string, timeout time.Duration) *OllamaProvider {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &OllamaProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// generateRequest は /api/generate のリクエストボディ
type generateRequest struct {
	Model   string                 `json:"model"`
	Prompt  string                 `json:"prompt"`
	System  string                 `json:"system,omitempty"`
	Stream  bool                   `json:"stream"`
	Options map[string]interface{} `json:"options,omitempty"`
}

// generateResponse は /api/generate のレスポンスボディ
type generateResponse struct {
	Response        string `json:"response"`
	Done            bool   `json:"done"`
	DoneReason      string `json:"done_reason"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

// Generate はLLM生成を実行
func (p *OllamaProvider) Generate(ctx context.Context, req llm.GenerateRequest) (llm.GenerateResponse, error) {
	ollamaReq := generateRequest{
		Model:   p.model,
		Stream:  false,
		Options: p.buildOptions(req),
	}

	// 生プロンプトはそのまま送信し、システムプロンプトはsystemフィールドに渡す
	if req.Prompt != "" {
		ollamaReq.Prompt = req.Prompt
		ollamaReq.System = req.SystemPrompt
	} else {
		ollamaReq.Prompt = p.buildPrompt(req)
	}

	reqBody, err := json.Marshal(ollamaReq)
	if err != nil {
		return llm.GenerateResponse{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	// HTTPリクエスト作成
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/generate", bytes.NewReader(reqBody))
	if err != nil {
		return llm.GenerateResponse{}, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	// リクエスト実行
	resp, err := p.client.Do(httpReq)
	if err != nil {
		return llm.GenerateResponse{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return llm.GenerateResponse{}, fmt.Errorf("ollama API error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	var ollamaResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return llm.GenerateResponse{}, fmt.Errorf("failed to decode response: %w", err)
	}

	finishReason := ollamaResp.DoneReason
	if finishReason == "" {
		finishReason = "stop"
	}

	return llm.GenerateResponse{
		Content:      ollamaResp.Response,
		TokensUsed:   ollamaResp.PromptEvalCount + ollamaResp.EvalCount,
		FinishReason: finishReason,
	}, nil
}

// Name はプロバイダー名を返す
func (p *OllamaProvider) Name() string {
	return fmt.Sprintf("ollama-%s", p.model)
}

// buildOptions は生成オプションを構築（未指定の値はOllamaの既定値に任せる）
func (p *OllamaProvider) buildOptions(req llm.GenerateRequest) map[string]interface{} {
	options := map[string]interface{}{}
	if req.Temperature > 0 {
		options["temperature"] = req.Temperature
	}
	if req.MaxTokens > 0 {
		options["num_predict"] = req.MaxTokens
	}
	if len(options) == 0 {
		return nil
	}
	return options
}

// buildPrompt はメッセージリストからプロンプトを構築
func (p *OllamaProvider) buildPrompt(req llm.GenerateRequest) string {
	var parts []string

	// システムプロンプト
	if req.SystemPrompt != "" {
		parts = append(parts, fmt.Sprintf("System: %s\n", req.SystemPrompt))
	}

	// メッセージ履歴
	for _, msg := range req.Messages {
		switch msg.Role {
		case "user":
			parts = append(parts, fmt.Sprintf("User: %s", msg.Content))
		case "assistant":
			parts = append(parts, fmt.Sprintf("Assistant: %s", msg.Content))
		case "system":
			parts = append(parts, fmt.Sprintf("System: %s", msg.Content))
		}
	}

	return strings.Join(parts, "\n")
}
