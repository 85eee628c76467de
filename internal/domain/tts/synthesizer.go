package tts

import (
	"context"

	"github.com/Nyukimin/kokoro/internal/domain/emotion"
)

// 音声フォーマット
const (
	FormatWAV = "wav"
	FormatMP3 = "mp3"
)

// SynthesisRequest は音声合成リクエスト
type SynthesisRequest struct {
	Text    string
	Emotion emotion.Emotion
	Voice   string // 話者名（空の場合はバックエンドの既定）
}

// Audio は合成された音声データ
type Audio struct {
	Data   []byte
	Format string // "wav", "mp3"
}

// IsEmpty は音声データが空かを判定
func (a Audio) IsEmpty() bool {
	return len(a.Data) == 0
}

// Synthesizer は音声合成バックエンドの抽象化
type Synthesizer interface {
	Synthesize(ctx context.Context, req SynthesisRequest) (Audio, error)
	Name() string
}

// Player は音声再生の抽象化（再生終了までブロックする）
type Player interface {
	Play(ctx context.Context, audio Audio) error
}
