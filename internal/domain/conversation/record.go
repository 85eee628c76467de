package conversation

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// TimestampLayout は履歴に保存するタイムスタンプの書式（秒精度・タイムゾーンなし）
const TimestampLayout = "2006-01-02T15:04:05"

// ErrEmptyInput は空入力でターンを作成しようとした場合のエラー
var ErrEmptyInput = errors.New("empty user input")

// ThoughtRecord は思考モジュールの記録
type ThoughtRecord struct {
	Timestamp string `json:"timestamp"`
	Query     string `json:"query"`
	Thought   string `json:"thought"`
	TurnID    string `json:"turn_id,omitempty"`
}

// ChatRecord は質問と応答の記録
type ChatRecord struct {
	Timestamp string `json:"timestamp"`
	Query     string `json:"query"`
	Answer    string `json:"answer"`
	TurnID    string `json:"turn_id,omitempty"`
}

// Turn は1往復分の生成結果
type Turn struct {
	ID      TurnID
	At      time.Time
	Query   string
	Thought string
	Answer  string
	Summary string
}

// Timestamp は保存用のタイムスタンプ文字列を返す
func (t Turn) Timestamp() string {
	return FormatTimestamp(t.At)
}

// FormatTimestamp は時刻を履歴用の書式に変換
func FormatTimestamp(at time.Time) string {
	return at.Truncate(time.Second).Format(TimestampLayout)
}

// FormatSummary は要約エントリを "(timestamp) summary" 形式に整形
func FormatSummary(timestamp, summary string) string {
	return fmt.Sprintf("(%s) %s", timestamp, summary)
}

// ThoughtLine は思考履歴をプロンプト注入用の1行に整形
func (r ThoughtRecord) ThoughtLine() string {
	return fmt.Sprintf("(query):%s, (thought):%s", r.Query, r.Thought)
}

// ExchangeLine はチャット履歴をプロンプト注入用の2行に整形
func (r ChatRecord) ExchangeLine() string {
	return fmt.Sprintf("User: %s\nAssistant: %s", r.Query, r.Answer)
}

// ValidateQuery は入力の妥当性を検証
func ValidateQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return ErrEmptyInput
	}
	return nil
}
