package history

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Nyukimin/kokoro/internal/domain/conversation"
)

// 会話ディレクトリ内のファイル名
const (
	ThoughtFile = "thought_history.json"
	ChatFile    = "chat_history.json"
	SummaryFile = "summary_history.json"
)

// JSONRepository はJSONファイルベースのconversation.Repository実装
// 思考・チャット・要約をそれぞれ別ファイルに丸ごと書き込む
type JSONRepository struct {
	baseDir string
}

// NewJSONRepository は新しいJSONRepositoryを作成
func NewJSONRepository(baseDir string) *JSONRepository {
	return &JSONRepository{
		baseDir: baseDir,
	}
}

// Dir は保存先ディレクトリを返す
func (r *JSONRepository) Dir() string {
	return r.baseDir
}

// Load は履歴をロード
// ファイルが存在しない場合は空リスト、壊れている場合もそのファイルだけ空リストとして扱い、
// 読めたファイルの内容を保持した履歴とともにエラーを返す
func (r *JSONRepository) Load(ctx context.Context) (*conversation.History, error) {
	var thoughts []conversation.ThoughtRecord
	var chats []conversation.ChatRecord
	var summaries []string

	errs := []error{
		r.readFile(ThoughtFile, &thoughts),
		r.readFile(ChatFile, &chats),
		r.readFile(SummaryFile, &summaries),
	}

	return conversation.ReconstructHistory(thoughts, chats, summaries), errors.Join(errs...)
}

// Save は履歴を保存
// 3つのリストがすべて空の場合は何も書き込まない
func (r *JSONRepository) Save(ctx context.Context, h *conversation.History) error {
	if h.IsEmpty() {
		return nil
	}

	if err := os.MkdirAll(r.baseDir, 0o755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	// 1ファイルの失敗で他のファイルの保存を止めない
	return errors.Join(
		r.writeFile(ThoughtFile, h.Thoughts()),
		r.writeFile(ChatFile, h.Chats()),
		r.writeFile(SummaryFile, h.Summaries()),
	)
}

// Reset は履歴ファイルを削除
func (r *JSONRepository) Reset(ctx context.Context) error {
	var errs []error
	for _, name := range []string{ThoughtFile, ChatFile, SummaryFile} {
		if err := os.Remove(r.path(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("failed to delete %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// path はファイル名からパスを生成
func (r *JSONRepository) path(name string) string {
	return filepath.Join(r.baseDir, name)
}

// readFile はJSONファイルを読み込む（存在しない場合はエラーとしない）
func (r *JSONRepository) readFile(name string, v interface{}) error {
	data, err := os.ReadFile(r.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", name, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", name, err)
	}
	return nil
}

// writeFile は一時ファイルに書き込んでからリネームする
// 書き込み途中でクラッシュしても既存ファイルは壊れない
func (r *JSONRepository) writeFile(name string, v interface{}) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}

	target := r.path(name)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}
