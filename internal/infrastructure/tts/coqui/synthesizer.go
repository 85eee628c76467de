package coqui

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Nyukimin/kokoro/internal/domain/tts"
)

// DefaultBaseURL はCoqui TTSサーバー（tts-server）の既定URL
const DefaultBaseURL = "http://localhost:5002"

// DefaultTimeout は合成リクエストのタイムアウト
const DefaultTimeout = 120 * time.Second

// Synthesizer はCoqui TTSサーバーの /api/tts を使う音声合成
// サーバーは感情指定を受け付けないため、Emotion は使用しない
type Synthesizer struct {
	baseURL  string
	language string
	client   *http.Client
}

// NewSynthesizer は新しいSynthesizerを作成
func NewSynthesizer(baseURL, language string, timeout time.Duration) *Synthesizer {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Synthesizer{
		baseURL:  strings.TrimRight(baseURL, "/"),
		language: language,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Synthesize はテキストをWAVに変換
// Voice は多話者モデルの speaker_id として渡す
func (s *Synthesizer) Synthesize(ctx context.Context, req tts.SynthesisRequest) (tts.Audio, error) {
	q := url.Values{}
	q.Set("text", req.Text)
	q.Set("speaker_id", req.Voice)
	q.Set("style_wav", "")
	q.Set("language_id", s.language)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/tts?"+q.Encode(), nil)
	if err != nil {
		return tts.Audio{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "audio/wav")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return tts.Audio{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return tts.Audio{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return tts.Audio{}, fmt.Errorf("coqui API error: status=%d, body=%s", resp.StatusCode, string(data))
	}

	return tts.Audio{Data: data, Format: tts.FormatWAV}, nil
}

// Name はバックエンド名を返す
func (s *Synthesizer) Name() string {
	return "coqui"
}
