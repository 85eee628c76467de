package openai

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/Nyukimin/kokoro/internal/domain/tts"
)

const (
	// DefaultBaseURL はOpenAI APIの既定URL
	DefaultBaseURL = "https://api.openai.com"
	// DefaultModel は指示文を受け付ける音声合成モデル
	DefaultModel = openai.SpeechModelGPT4oMiniTTS
	// DefaultVoice は話者未指定時の声
	DefaultVoice = "alloy"
	// DefaultTimeout は合成リクエストのタイムアウト
	DefaultTimeout = 120 * time.Second
)

// Synthesizer はOpenAI互換の /v1/audio/speech を使う音声合成
type Synthesizer struct {
	model  string
	client openai.Client
}

// NewSynthesizer は新しいSynthesizerを作成
// baseURL はホスト部分（/v1 の有無は問わない）
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

	clientOpts := []option.RequestOption{
		option.WithBaseURL(apiBaseURL(baseURL)),
		option.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if apiKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(apiKey))
	}

	return &Synthesizer{
		model:  model,
		client: openai.NewClient(clientOpts...),
	}
}

// apiBaseURL はSDKが期待する /v1/ 付きのベースURLに整える
func apiBaseURL(baseURL string) string {
	base := strings.TrimRight(baseURL, "/")
	if !strings.HasSuffix(base, "/v1") {
		base += "/v1"
	}
	return base + "/"
}

// Synthesize はテキストをWAVに変換
// 感情は instructions として演技指導文で渡す
func (s *Synthesizer) Synthesize(ctx context.Context, req tts.SynthesisRequest) (tts.Audio, error) {
	voice := req.Voice
	if voice == "" {
		voice = DefaultVoice
	}

	params := openai.AudioSpeechNewParams{
		Model:          openai.SpeechModel(s.model),
		Input:          req.Text,
		Voice:          openai.AudioSpeechNewParamsVoice(voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatWAV,
	}
	if !req.Emotion.IsNeutral() {
		params.Instructions = openai.String(req.Emotion.Instruction())
	}

	res, err := s.client.Audio.Speech.New(ctx, params)
	if err != nil {
		return tts.Audio{}, fmt.Errorf("openai speech API error: %w", err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return tts.Audio{}, fmt.Errorf("failed to read response: %w", err)
	}

	return tts.Audio{Data: data, Format: tts.FormatWAV}, nil
}

// Name はバックエンド名を返す
func (s *Synthesizer) Name() string {
	return fmt.Sprintf("openai-%s", s.model)
}
