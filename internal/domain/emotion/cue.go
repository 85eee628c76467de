package emotion

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/forPelevin/gomoji"
	"github.com/rivo/uniseg"
)

// variationSelector は絵文字表示を指定する異体字セレクタ
const variationSelector = '\uFE0F'

// emojiPresentation は異体字セレクタなしでも絵文字として表示される主な範囲
// ©や™のようにテキスト表示が既定の記号は含まない
var emojiPresentation = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x231A, Hi: 0x231B, Stride: 1},
		{Lo: 0x23E9, Hi: 0x23EC, Stride: 1},
		{Lo: 0x23F0, Hi: 0x23F0, Stride: 1},
		{Lo: 0x23F3, Hi: 0x23F3, Stride: 1},
		{Lo: 0x25FD, Hi: 0x25FE, Stride: 1},
		{Lo: 0x2614, Hi: 0x2615, Stride: 1},
		{Lo: 0x2648, Hi: 0x2653, Stride: 1},
		{Lo: 0x267F, Hi: 0x267F, Stride: 1},
		{Lo: 0x2693, Hi: 0x2693, Stride: 1},
		{Lo: 0x26A1, Hi: 0x26A1, Stride: 1},
		{Lo: 0x26AA, Hi: 0x26AB, Stride: 1},
		{Lo: 0x26BD, Hi: 0x26BE, Stride: 1},
		{Lo: 0x26C4, Hi: 0x26C5, Stride: 1},
		{Lo: 0x26CE, Hi: 0x26CE, Stride: 1},
		{Lo: 0x26D4, Hi: 0x26D4, Stride: 1},
		{Lo: 0x26EA, Hi: 0x26EA, Stride: 1},
		{Lo: 0x26F2, Hi: 0x26F3, Stride: 1},
		{Lo: 0x26F5, Hi: 0x26F5, Stride: 1},
		{Lo: 0x26FA, Hi: 0x26FA, Stride: 1},
		{Lo: 0x26FD, Hi: 0x26FD, Stride: 1},
		{Lo: 0x2705, Hi: 0x2705, Stride: 1},
		{Lo: 0x270A, Hi: 0x270B, Stride: 1},
		{Lo: 0x2728, Hi: 0x2728, Stride: 1},
		{Lo: 0x274C, Hi: 0x274C, Stride: 1},
		{Lo: 0x274E, Hi: 0x274E, Stride: 1},
		{Lo: 0x2753, Hi: 0x2755, Stride: 1},
		{Lo: 0x2757, Hi: 0x2757, Stride: 1},
		{Lo: 0x2795, Hi: 0x2797, Stride: 1},
		{Lo: 0x27B0, Hi: 0x27B0, Stride: 1},
		{Lo: 0x27BF, Hi: 0x27BF, Stride: 1},
		{Lo: 0x2B1B, Hi: 0x2B1C, Stride: 1},
		{Lo: 0x2B50, Hi: 0x2B50, Stride: 1},
		{Lo: 0x2B55, Hi: 0x2B55, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x1F004, Hi: 0x1F004, Stride: 1},
		{Lo: 0x1F0CF, Hi: 0x1F0CF, Stride: 1},
		{Lo: 0x1F18E, Hi: 0x1F18E, Stride: 1},
		{Lo: 0x1F191, Hi: 0x1F19A, Stride: 1},
		{Lo: 0x1F1E6, Hi: 0x1F1FF, Stride: 1},
		{Lo: 0x1F201, Hi: 0x1F201, Stride: 1},
		{Lo: 0x1F21A, Hi: 0x1F21A, Stride: 1},
		{Lo: 0x1F22F, Hi: 0x1F22F, Stride: 1},
		{Lo: 0x1F232, Hi: 0x1F236, Stride: 1},
		{Lo: 0x1F238, Hi: 0x1F23A, Stride: 1},
		{Lo: 0x1F250, Hi: 0x1F251, Stride: 1},
		{Lo: 0x1F300, Hi: 0x1FAFF, Stride: 1},
	},
}

// emojiTable はよく使われる絵文字と感情の対応表（異体字セレクタなしで登録）
var emojiTable = map[string]Emotion{
	"😀": Happy, "😃": Happy, "😄": Happy, "😁": Happy, "😆": Happy,
	"😊": Happy, "🙂": Happy, "😂": Happy, "🤣": Happy, "😺": Happy,
	"🎉": Happy, "✨": Happy, "👍": Happy,
	"🥰": Love, "😍": Love, "😘": Love, "❤": Love, "💕": Love,
	"💖": Love, "💗": Love, "🤗": Love,
	"😢": Sad, "😭": Sad, "😞": Sad, "😔": Sad, "🥺": Sad,
	"😿": Sad, "💔": Sad,
	"😠": Angry, "😡": Angry, "🤬": Angry, "😤": Angry, "💢": Angry,
	"😲": Surprised, "😮": Surprised, "😯": Surprised, "😳": Surprised, "🤯": Surprised,
	"❗": Surprised, "‼": Surprised,
	"😨": Fearful, "😱": Fearful, "😰": Fearful, "😧": Fearful,
	"🤔": Thoughtful, "🧐": Thoughtful,
	"😏": Playful, "😜": Playful, "😝": Playful, "😛": Playful, "😉": Playful,
	"😴": Tired, "🥱": Tired, "😪": Tired,
}

// subGroupTable は対応表にない絵文字をUnicodeサブグループで分類する
var subGroupTable = map[string]Emotion{
	"face-smiling":           Happy,
	"face-affection":         Love,
	"heart":                  Love,
	"face-tongue":            Playful,
	"face-hand":              Thoughtful,
	"face-neutral-skeptical": Thoughtful,
	"face-sleepy":            Tired,
	"face-unwell":            Tired,
	"face-concerned":         Sad,
	"face-negative":          Angry,
}

// Cue は音声合成に渡す発話テキストと感情
type Cue struct {
	Text    string   // 絵文字を除去したテキスト
	Emotion Emotion  // 支配的な感情
	Emoji   []string // 検出された絵文字（出現順）
}

// Analyze はテキストから絵文字を取り除き、感情キューを返す
// 最頻出の感情を採用し、同数の場合は先に現れた方を優先する
func Analyze(text string) Cue {
	var (
		b      strings.Builder
		found  []string
		counts = make(map[Emotion]int)
		order  []Emotion
	)

	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		cluster := gr.Str()
		if !isEmoji(cluster) {
			b.WriteString(cluster)
			continue
		}

		found = append(found, cluster)
		// 絵文字の位置に空白を残して前後の単語が連結しないようにする
		b.WriteString(" ")

		e := classify(cluster)
		if e.IsNeutral() {
			continue
		}
		if counts[e] == 0 {
			order = append(order, e)
		}
		counts[e]++
	}

	dominant := Neutral
	best := 0
	for _, e := range order {
		if counts[e] > best {
			dominant = e
			best = counts[e]
		}
	}

	return Cue{
		Text:    collapseSpaces(b.String()),
		Emotion: dominant,
		Emoji:   found,
	}
}

// Strip は絵文字を除去したテキストのみを返す
func Strip(text string) string {
	return Analyze(text).Text
}

// isEmoji は書記素クラスタが絵文字かを判定
func isEmoji(cluster string) bool {
	// 数字や記号などASCII1文字はキーキャップの基底文字として誤検出されるため除外
	if utf8.RuneCountInString(cluster) == 1 {
		r, _ := utf8.DecodeRuneInString(cluster)
		if r < utf8.RuneSelf {
			return false
		}
		if _, ok := emojiTable[cluster]; ok {
			return true
		}
		// テキスト表示が既定の記号（©, ™ など）は本文として残す
		if !unicode.Is(emojiPresentation, r) {
			return false
		}
		return gomoji.ContainsEmoji(cluster)
	}
	if _, ok := emojiTable[normalize(cluster)]; ok {
		return true
	}
	return gomoji.ContainsEmoji(cluster)
}

// classify は絵文字を感情に分類
func classify(cluster string) Emotion {
	if e, ok := emojiTable[normalize(cluster)]; ok {
		return e
	}
	for _, em := range gomoji.FindAll(cluster) {
		if e, ok := subGroupTable[em.SubGroup]; ok {
			return e
		}
	}
	return Neutral
}

// normalize は異体字セレクタと肌の色修飾子を除いて対応表のキーに揃える
func normalize(cluster string) string {
	return strings.Map(func(r rune) rune {
		if r == variationSelector || isSkinTone(r) {
			return -1
		}
		return r
	}, cluster)
}

// isSkinTone はフィッツパトリック修飾子（U+1F3FB〜U+1F3FF）かを判定
func isSkinTone(r rune) bool {
	return r >= 0x1F3FB && r <= 0x1F3FF
}

// collapseSpaces は連続する空白を1つにまとめ、各行の前後の空白を除去する
func collapseSpaces(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		fields := strings.FieldsFunc(line, unicode.IsSpace)
		out = append(out, strings.Join(fields, " "))
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
