package orchestrator

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Nyukimin/kokoro/internal/domain/conversation"
)

// Mode はターンの処理パイプライン
type Mode string

const (
	// ModePipeline は 思考 → 応答 → 要約 の3段階
	ModePipeline Mode = "pipeline"
	// ModeSingle は思考を省略し、1つのプロンプトで応答する
	ModeSingle Mode = "single"
)

// Windows はプロンプトに注入する履歴の件数
type Windows struct {
	Thoughts  int
	Summaries int
	Chats     int
}

// DefaultWindows は既定の履歴ウィンドウ
var DefaultWindows = Windows{Thoughts: 5, Summaries: 5, Chats: 10}

// TurnResult は1ターンの処理結果
type TurnResult struct {
	TurnID    string
	Timestamp string
	Thought   string
	Answer    string
	Summary   string
}

// ThinkerAgent は思考を担当
type ThinkerAgent interface {
	Think(ctx context.Context, query string, summaries []string, thoughts []conversation.ThoughtRecord) (string, error)
}

// SpeakerAgent は応答を担当
type SpeakerAgent interface {
	Answer(ctx context.Context, query, thought string) (string, error)
	AnswerDirect(ctx context.Context, query string) (string, error)
}

// SummarizerAgent は要約を担当
type SummarizerAgent interface {
	Summarize(ctx context.Context, query, answer string, chats []conversation.ChatRecord, summaries []string) (string, error)
}

// Option はTurnOrchestratorの設定
type Option func(*TurnOrchestrator)

// WithMode はパイプラインモードを設定
func WithMode(mode Mode) Option {
	return func(o *TurnOrchestrator) {
		if mode != "" {
			o.mode = mode
		}
	}
}

// WithWindows は履歴ウィンドウを設定（0以下の値は既定値のまま）
func WithWindows(w Windows) Option {
	return func(o *TurnOrchestrator) {
		if w.Thoughts > 0 {
			o.windows.Thoughts = w.Thoughts
		}
		if w.Summaries > 0 {
			o.windows.Summaries = w.Summaries
		}
		if w.Chats > 0 {
			o.windows.Chats = w.Chats
		}
	}
}

// WithClock は時刻取得関数を差し替える（テスト用）
func WithClock(now func() time.Time) Option {
	return func(o *TurnOrchestrator) {
		o.now = now
	}
}

// WithLogger はロガーを設定
func WithLogger(logger *zap.Logger) Option {
	return func(o *TurnOrchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// TurnOrchestrator は1往復の会話処理を統括
type TurnOrchestrator struct {
	repo       conversation.Repository
	thinker    ThinkerAgent
	speaker    SpeakerAgent
	summarizer SummarizerAgent

	history *conversation.History
	mode    Mode
	windows Windows
	now     func() time.Time
	logger  *zap.Logger
}

// NewTurnOrchestrator は新しいTurnOrchestratorを作成
func NewTurnOrchestrator(
	repo conversation.Repository,
	thinker ThinkerAgent,
	speaker SpeakerAgent,
	summarizer SummarizerAgent,
	opts ...Option,
) *TurnOrchestrator {
	o := &TurnOrchestrator{
		repo:       repo,
		thinker:    thinker,
		speaker:    speaker,
		summarizer: summarizer,
		history:    conversation.NewHistory(),
		mode:       ModePipeline,
		windows:    DefaultWindows,
		now:        time.Now,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Restore は保存済みの履歴を読み込む
// 読み込みに失敗してもエラーにせず、読めた分（なければ空）で続行する
func (o *TurnOrchestrator) Restore(ctx context.Context) {
	h, err := o.repo.Load(ctx)
	if err != nil {
		o.logger.Warn("failed to load history, continuing", zap.Error(err))
	}
	if h == nil {
		h = conversation.NewHistory()
	}
	o.history = h

	o.logger.Info("history restored",
		zap.Int("thoughts", h.ThoughtCount()),
		zap.Int("chats", h.ChatCount()),
		zap.Int("summaries", h.SummaryCount()),
	)
}

// History は現在の履歴を返す
func (o *TurnOrchestrator) History() *conversation.History {
	return o.history
}

// Mode は現在のパイプラインモードを返す
func (o *TurnOrchestrator) Mode() Mode {
	return o.mode
}

// ProcessTurn はユーザー入力を 思考 → 応答 → 要約 の順に処理
// いずれかのモデル呼び出しが失敗した場合、履歴には何も記録しない
func (o *TurnOrchestrator) ProcessTurn(ctx context.Context, input string) (TurnResult, error) {
	if err := conversation.ValidateQuery(input); err != nil {
		return TurnResult{}, err
	}

	at := o.now()
	turnID := conversation.NewTurnID(at)
	log := o.logger.With(zap.String("turn_id", turnID.String()))

	// 1. 思考
	var thought string
	if o.mode != ModeSingle {
		var err error
		thought, err = o.thinker.Think(ctx, input,
			o.history.RecentSummaries(o.windows.Summaries),
			o.history.RecentThoughts(o.windows.Thoughts),
		)
		if err != nil {
			return TurnResult{}, fmt.Errorf("turn %s: %w", turnID, err)
		}
		log.Debug("thought generated", zap.Int("length", len(thought)))
	}

	// 2. 応答
	answer, err := o.answer(ctx, input, thought)
	if err != nil {
		return TurnResult{}, fmt.Errorf("turn %s: %w", turnID, err)
	}
	log.Debug("answer generated", zap.Int("length", len(answer)))

	// 3. 要約
	summary, err := o.summarizer.Summarize(ctx, input, answer,
		o.history.RecentChats(o.windows.Chats),
		o.history.RecentSummaries(o.windows.Summaries),
	)
	if err != nil {
		return TurnResult{}, fmt.Errorf("turn %s: %w", turnID, err)
	}

	// 4. 履歴に追加（3つのレコードは同じタイムスタンプ）
	turn := conversation.Turn{
		ID:      turnID,
		At:      at,
		Query:   input,
		Thought: thought,
		Answer:  answer,
		Summary: summary,
	}
	o.history.AppendTurn(turn)

	// 5. 保存（失敗しても会話は続行）
	o.save(ctx, log)

	log.Info("turn completed", zap.String("mode", string(o.mode)))

	return TurnResult{
		TurnID:    turnID.String(),
		Timestamp: turn.Timestamp(),
		Thought:   thought,
		Answer:    answer,
		Summary:   summary,
	}, nil
}

// Reset はメモリ上と保存済みの履歴をクリア
func (o *TurnOrchestrator) Reset(ctx context.Context) error {
	o.history.Reset()
	if err := o.repo.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset history: %w", err)
	}
	o.logger.Info("history reset")
	return nil
}

// answer はモードに応じて応答を生成
func (o *TurnOrchestrator) answer(ctx context.Context, input, thought string) (string, error) {
	if o.mode == ModeSingle {
		return o.speaker.AnswerDirect(ctx, input)
	}
	return o.speaker.Answer(ctx, input, thought)
}

// save は履歴を保存（全リストが空なら何もしない）
func (o *TurnOrchestrator) save(ctx context.Context, log *zap.Logger) {
	if o.history.IsEmpty() {
		return
	}
	if err := o.repo.Save(ctx, o.history); err != nil {
		log.Warn("failed to save history, continuing", zap.Error(err))
	}
}
