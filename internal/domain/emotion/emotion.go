// Package emotion は応答テキスト中の絵文字を取り除き、音声合成向けの感情キューに変換する。
//
// 絵文字はTTSが読み上げると不自然になるため発話前に除去し、
// 代わりに最も多く現れた感情を合成エンジンへのヒントとして渡す。
package emotion

// Emotion は発話時の感情キュー
type Emotion string

const (
	Neutral    Emotion = "neutral"
	Happy      Emotion = "happy"
	Love       Emotion = "love"
	Sad        Emotion = "sad"
	Angry      Emotion = "angry"
	Surprised  Emotion = "surprised"
	Fearful    Emotion = "fearful"
	Thoughtful Emotion = "thoughtful"
	Playful    Emotion = "playful"
	Tired      Emotion = "tired"
)

// instructions は指示文を受け付けるTTS向けの声の演技指導
var instructions = map[Emotion]string{
	Neutral:    "Speak in a calm, natural tone.",
	Happy:      "Speak in a bright, cheerful tone with a smile.",
	Love:       "Speak warmly and affectionately.",
	Sad:        "Speak softly and slowly with a sad tone.",
	Angry:      "Speak firmly with an irritated, tense tone.",
	Surprised:  "Speak with surprise and rising intonation.",
	Fearful:    "Speak nervously with a slightly shaky voice.",
	Thoughtful: "Speak slowly and thoughtfully, as if pondering.",
	Playful:    "Speak in a playful, teasing tone.",
	Tired:      "Speak sleepily with low energy.",
}

// styles はスタイル強度（0〜1）を受け付けるTTS向けの値
var styles = map[Emotion]float64{
	Neutral:    0.0,
	Happy:      0.6,
	Love:       0.5,
	Sad:        0.5,
	Angry:      0.7,
	Surprised:  0.7,
	Fearful:    0.6,
	Thoughtful: 0.3,
	Playful:    0.6,
	Tired:      0.3,
}

// Instruction は感情に対応する演技指導文を返す
func (e Emotion) Instruction() string {
	if s, ok := instructions[e]; ok {
		return s
	}
	return instructions[Neutral]
}

// Style は感情に対応するスタイル強度を返す
func (e Emotion) Style() float64 {
	if v, ok := styles[e]; ok {
		return v
	}
	return 0.0
}

// IsNeutral はニュートラルかを判定
func (e Emotion) IsNeutral() bool {
	return e == "" || e == Neutral
}

// String は感情名を返す
func (e Emotion) String() string {
	if e == "" {
		return string(Neutral)
	}
	return string(e)
}
