package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/Nyukimin/kokoro/internal/domain/conversation"
)

// DBFile はSQLiteバックエンドのファイル名
const DBFile = "history.db"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS thoughts (
	seq       INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp TEXT NOT NULL,
	query     TEXT NOT NULL,
	thought   TEXT NOT NULL,
	turn_id   TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS chats (
	seq       INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp TEXT NOT NULL,
	query     TEXT NOT NULL,
	answer    TEXT NOT NULL,
	turn_id   TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS summaries (
	seq   INTEGER PRIMARY KEY AUTOINCREMENT,
	entry TEXT NOT NULL
);
`

// SQLiteRepository はSQLiteベースのconversation.Repository実装
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository はbaseDir配下のhistory.dbを開いてスキーマを作成
func NewSQLiteRepository(baseDir string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(baseDir, DBFile))
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// 単一プロセスの逐次アクセスのみ
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %q: %w", p, err)
		}
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate history database: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Close はデータベース接続を閉じる
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Load は3つのテーブルから挿入順に履歴を復元
func (r *SQLiteRepository) Load(ctx context.Context) (*conversation.History, error) {
	thoughts, err := r.loadThoughts(ctx)
	if err != nil {
		return conversation.NewHistory(), err
	}
	chats, err := r.loadChats(ctx)
	if err != nil {
		return conversation.NewHistory(), err
	}
	summaries, err := r.loadSummaries(ctx)
	if err != nil {
		return conversation.NewHistory(), err
	}
	return conversation.ReconstructHistory(thoughts, chats, summaries), nil
}

func (r *SQLiteRepository) loadThoughts(ctx context.Context) ([]conversation.ThoughtRecord, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT timestamp, query, thought, turn_id FROM thoughts ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to query thoughts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []conversation.ThoughtRecord
	for rows.Next() {
		var rec conversation.ThoughtRecord
		if err := rows.Scan(&rec.Timestamp, &rec.Query, &rec.Thought, &rec.TurnID); err != nil {
			return nil, fmt.Errorf("failed to scan thought: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) loadChats(ctx context.Context) ([]conversation.ChatRecord, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT timestamp, query, answer, turn_id FROM chats ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to query chats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []conversation.ChatRecord
	for rows.Next() {
		var rec conversation.ChatRecord
		if err := rows.Scan(&rec.Timestamp, &rec.Query, &rec.Answer, &rec.TurnID); err != nil {
			return nil, fmt.Errorf("failed to scan chat: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) loadSummaries(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT entry FROM summaries ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to query summaries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var entry string
		if err := rows.Scan(&entry); err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

// Save は履歴全体を1トランザクションで書き直す
func (r *SQLiteRepository) Save(ctx context.Context, h *conversation.History) error {
	if h.IsEmpty() {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := clearTables(ctx, tx); err != nil {
		return err
	}

	for _, rec := range h.Thoughts() {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO thoughts (timestamp, query, thought, turn_id) VALUES (?, ?, ?, ?)",
			rec.Timestamp, rec.Query, rec.Thought, rec.TurnID); err != nil {
			return fmt.Errorf("failed to insert thought: %w", err)
		}
	}
	for _, rec := range h.Chats() {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO chats (timestamp, query, answer, turn_id) VALUES (?, ?, ?, ?)",
			rec.Timestamp, rec.Query, rec.Answer, rec.TurnID); err != nil {
			return fmt.Errorf("failed to insert chat: %w", err)
		}
	}
	for _, entry := range h.Summaries() {
		if _, err := tx.ExecContext(ctx, "INSERT INTO summaries (entry) VALUES (?)", entry); err != nil {
			return fmt.Errorf("failed to insert summary: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit history: %w", err)
	}
	return nil
}

// Reset は全テーブルを空にする
func (r *SQLiteRepository) Reset(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := clearTables(ctx, tx); err != nil {
		return err
	}
	return tx.Commit()
}

func clearTables(ctx context.Context, tx *sql.Tx) error {
	for _, table := range []string{"thoughts", "chats", "summaries"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}
