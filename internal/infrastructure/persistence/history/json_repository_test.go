package history

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Nyukimin/kokoro/internal/domain/conversation"
)

func sampleHistory() *conversation.History {
	h := conversation.NewHistory()
	for i := 0; i < 3; i++ {
		h.AppendTurn(conversation.Turn{
			ID:      conversation.TurnIDFromString("turn"),
			At:      time.Date(2026, 3, 1, 12, 0, i, 0, time.Local),
			Query:   "Message " + string(rune('A'+i)),
			Thought: "thought",
			Answer:  "답변 <ok> & 😊",
			Summary: "summary",
		})
	}
	return h
}

func TestNewJSONRepository(t *testing.T) {
	tmpDir := t.TempDir()
	repo := NewJSONRepository(tmpDir)

	if repo == nil {
		t.Fatal("NewJSONRepository should not return nil")
	}

	if repo.Dir() != tmpDir {
		t.Errorf("Expected dir '%s', got '%s'", tmpDir, repo.Dir())
	}
}

func TestJSONRepository_SaveAndLoad(t *testing.T) {
	tmpDir := filepath.Join(t.TempDir(), "conversation")
	repo := NewJSONRepository(tmpDir)

	if err := repo.Save(context.Background(), sampleHistory()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.ThoughtCount() != 3 || loaded.ChatCount() != 3 || loaded.SummaryCount() != 3 {
		t.Errorf("Unexpected counts: %d/%d/%d", loaded.ThoughtCount(), loaded.ChatCount(), loaded.SummaryCount())
	}

	chats := loaded.Chats()
	if chats[0].Query != "Message A" {
		t.Errorf("Expected first message 'Message A', got '%s'", chats[0].Query)
	}

	if chats[2].Timestamp != "2026-03-01T12:00:02" {
		t.Errorf("Unexpected timestamp: %s", chats[2].Timestamp)
	}

	if loaded.Summaries()[0] != "(2026-03-01T12:00:00) summary" {
		t.Errorf("Unexpected summary entry: %s", loaded.Summaries()[0])
	}
}

func TestJSONRepository_FileFormat(t *testing.T) {
	tmpDir := t.TempDir()
	repo := NewJSONRepository(tmpDir)
	repo.Save(context.Background(), sampleHistory())

	data, err := os.ReadFile(filepath.Join(tmpDir, ChatFile))
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}

	content := string(data)

	// 2スペースインデント・非ASCIIとHTML文字はエスケープしない
	if !strings.Contains(content, "\n  {\n    \"timestamp\"") {
		t.Errorf("Expected two-space indentation, got:\n%s", content)
	}
	if !strings.Contains(content, "답변 <ok> & 😊") {
		t.Errorf("Non-ASCII text should be written verbatim, got:\n%s", content)
	}

	// 一時ファイルが残っていない
	if _, err := os.Stat(filepath.Join(tmpDir, ChatFile+".tmp")); !os.IsNotExist(err) {
		t.Error("Temporary file should be renamed away")
	}
}

func TestJSONRepository_LoadMissingFiles(t *testing.T) {
	repo := NewJSONRepository(filepath.Join(t.TempDir(), "nonexistent"))

	loaded, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Missing files should not be an error: %v", err)
	}

	if !loaded.IsEmpty() {
		t.Error("History should be empty when files are missing")
	}
}

func TestJSONRepository_LoadCorruptFileIsIsolated(t *testing.T) {
	tmpDir := t.TempDir()
	repo := NewJSONRepository(tmpDir)
	repo.Save(context.Background(), sampleHistory())

	// 思考ファイルだけ壊す
	os.WriteFile(filepath.Join(tmpDir, ThoughtFile), []byte("{not json"), 0o644)

	loaded, err := repo.Load(context.Background())
	if err == nil {
		t.Error("Expected error for corrupt file")
	}

	if loaded == nil {
		t.Fatal("Loaded history should not be nil")
	}

	if loaded.ThoughtCount() != 0 {
		t.Errorf("Corrupt file should load as empty, got %d", loaded.ThoughtCount())
	}

	if loaded.ChatCount() != 3 {
		t.Errorf("Other files should still load, got %d chats", loaded.ChatCount())
	}
}

func TestJSONRepository_LoadOriginalFormat(t *testing.T) {
	tmpDir := t.TempDir()

	// turn_idを持たない既存のファイル形式
	thoughts := `[{"timestamp": "2025-01-01T10:00:00", "query": "hi", "thought": "greet"}]`
	chats := `[{"timestamp": "2025-01-01T10:00:00", "query": "hi", "answer": "hello"}]`
	summaries := `["(2025-01-01T10:00:00) greeted"]`
	os.WriteFile(filepath.Join(tmpDir, ThoughtFile), []byte(thoughts), 0o644)
	os.WriteFile(filepath.Join(tmpDir, ChatFile), []byte(chats), 0o644)
	os.WriteFile(filepath.Join(tmpDir, SummaryFile), []byte(summaries), 0o644)

	loaded, err := NewJSONRepository(tmpDir).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Thoughts()[0].Thought != "greet" || loaded.Chats()[0].Answer != "hello" {
		t.Errorf("Unexpected records: %+v %+v", loaded.Thoughts(), loaded.Chats())
	}
}

func TestJSONRepository_SaveSkipsEmptyHistory(t *testing.T) {
	tmpDir := filepath.Join(t.TempDir(), "conversation")
	repo := NewJSONRepository(tmpDir)

	if err := repo.Save(context.Background(), conversation.NewHistory()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(tmpDir); !os.IsNotExist(err) {
		t.Error("Nothing should be written for an empty history")
	}
}

func TestJSONRepository_Reset(t *testing.T) {
	tmpDir := t.TempDir()
	repo := NewJSONRepository(tmpDir)
	repo.Save(context.Background(), sampleHistory())

	if err := repo.Reset(context.Background()); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	for _, name := range []string{ThoughtFile, ChatFile, SummaryFile} {
		if _, err := os.Stat(filepath.Join(tmpDir, name)); !os.IsNotExist(err) {
			t.Errorf("%s should be deleted", name)
		}
	}

	// 既に存在しない場合はエラーとしない
	if err := repo.Reset(context.Background()); err != nil {
		t.Errorf("Reset on missing files should not fail: %v", err)
	}
}

func TestJSONRepository_EmptyListsWrittenAsArrays(t *testing.T) {
	tmpDir := t.TempDir()
	repo := NewJSONRepository(tmpDir)

	// 要約のみの履歴
	h := conversation.ReconstructHistory(nil, nil, []string{"(t) s"})
	repo.Save(context.Background(), h)

	data, _ := os.ReadFile(filepath.Join(tmpDir, ThoughtFile))
	var v []interface{}
	if err := json.Unmarshal(data, &v); err != nil || v == nil {
		t.Errorf("Empty list should be written as [], got %q", string(data))
	}
}
