package speech

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Nyukimin/kokoro/internal/domain/emotion"
	"github.com/Nyukimin/kokoro/internal/domain/tts"
)

// ErrNoAudio は合成結果が空だった場合のエラー
var ErrNoAudio = errors.New("synthesizer returned no audio")

// Speaker は応答テキストを読み上げる
// 絵文字を除去して感情キューに変換し、合成して再生する
type Speaker struct {
	synth  tts.Synthesizer
	player tts.Player
	voice  string
	logger *zap.Logger
}

// NewSpeaker は新しいSpeakerを作成
func NewSpeaker(synth tts.Synthesizer, player tts.Player, voice string, logger *zap.Logger) *Speaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Speaker{
		synth:  synth,
		player: player,
		voice:  voice,
		logger: logger,
	}
}

// SetVoice は話者を変更
func (s *Speaker) SetVoice(voice string) {
	s.voice = voice
}

// Voice は現在の話者を返す
func (s *Speaker) Voice() string {
	return s.voice
}

// Speak はテキストを読み上げる（再生終了までブロック）
// 絵文字除去後に読み上げる内容が残らない場合は何もしない
func (s *Speaker) Speak(ctx context.Context, text string) error {
	cue := emotion.Analyze(text)
	if cue.Text == "" {
		s.logger.Debug("nothing to speak", zap.Strings("emoji", cue.Emoji))
		return nil
	}

	s.logger.Debug("speech cue",
		zap.String("emotion", cue.Emotion.String()),
		zap.Strings("emoji", cue.Emoji),
		zap.String("voice", s.voice),
		zap.String("backend", s.synth.Name()),
	)

	audio, err := s.synth.Synthesize(ctx, tts.SynthesisRequest{
		Text:    cue.Text,
		Emotion: cue.Emotion,
		Voice:   s.voice,
	})
	if err != nil {
		return fmt.Errorf("synthesize: %w", err)
	}
	if audio.IsEmpty() {
		return ErrNoAudio
	}

	if err := s.player.Play(ctx, audio); err != nil {
		return fmt.Errorf("play: %w", err)
	}
	return nil
}
