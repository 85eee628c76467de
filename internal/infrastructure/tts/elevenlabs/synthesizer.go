package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Nyukimin/kokoro/internal/domain/tts"
)

const (
	// DefaultBaseURL はElevenLabs APIの既定URL
	DefaultBaseURL = "https://api.elevenlabs.io"
	// DefaultModel は多言語対応モデル
	DefaultModel = "eleven_multilingual_v2"
	// DefaultTimeout は合成リクエストのタイムアウト
	DefaultTimeout = 120 * time.Second
)

// ErrVoiceRequired はvoice IDが未指定の場合のエラー
var ErrVoiceRequired = errors.New("elevenlabs voice id is required")

// Synthesizer はElevenLabs text-to-speech APIを使う音声合成
type Synthesizer struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewSynthesizer は新しいSynthesizerを作成
func NewSynthesizer(baseURL, apiKey, model string, timeout time.Duration) *Synthesizer {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Synthesizer{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
}

type speechRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

// Synthesize はテキストをMP3に変換
// 感情は voice_settings.style の強度として渡す
func (s *Synthesizer) Synthesize(ctx context.Context, req tts.SynthesisRequest) (tts.Audio, error) {
	if req.Voice == "" {
		return tts.Audio{}, ErrVoiceRequired
	}

	reqBody, err := json.Marshal(speechRequest{
		Text:    req.Text,
		ModelID: s.model,
		VoiceSettings: voiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.7,
			Style:           req.Emotion.Style(),
		},
	})
	if err != nil {
		return tts.Audio{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s", s.baseURL, url.PathEscape(req.Voice))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return tts.Audio{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("xi-api-key", s.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "audio/mpeg")

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
		return tts.Audio{}, fmt.Errorf("elevenlabs API error: status=%d, body=%s", resp.StatusCode, string(data))
	}

	return tts.Audio{Data: data, Format: tts.FormatMP3}, nil
}

// Name はバックエンド名を返す
func (s *Synthesizer) Name() string {
	return "elevenlabs"
}
