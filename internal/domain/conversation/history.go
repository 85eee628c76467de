package conversation

// History は思考・チャット・要約の3つの追記専用リストを保持する集約
type History struct {
	thoughts  []ThoughtRecord
	chats     []ChatRecord
	summaries []string
}

// NewHistory は空のHistoryを作成
func NewHistory() *History {
	return &History{
		thoughts:  make([]ThoughtRecord, 0),
		chats:     make([]ChatRecord, 0),
		summaries: make([]string, 0),
	}
}

// ReconstructHistory は永続化層から復元する際に使用
func ReconstructHistory(thoughts []ThoughtRecord, chats []ChatRecord, summaries []string) *History {
	h := NewHistory()
	h.thoughts = append(h.thoughts, thoughts...)
	h.chats = append(h.chats, chats...)
	h.summaries = append(h.summaries, summaries...)
	return h
}

// AppendTurn はターンの結果を3つのリストに同じタイムスタンプで追加
func (h *History) AppendTurn(t Turn) {
	ts := t.Timestamp()
	id := t.ID.String()

	h.thoughts = append(h.thoughts, ThoughtRecord{
		Timestamp: ts,
		Query:     t.Query,
		Thought:   t.Thought,
		TurnID:    id,
	})
	h.chats = append(h.chats, ChatRecord{
		Timestamp: ts,
		Query:     t.Query,
		Answer:    t.Answer,
		TurnID:    id,
	})
	h.summaries = append(h.summaries, FormatSummary(ts, t.Summary))
}

// Thoughts は思考履歴のコピーを返す
func (h *History) Thoughts() []ThoughtRecord {
	return lastN(h.thoughts, len(h.thoughts))
}

// Chats はチャット履歴のコピーを返す
func (h *History) Chats() []ChatRecord {
	return lastN(h.chats, len(h.chats))
}

// Summaries は要約履歴のコピーを返す
func (h *History) Summaries() []string {
	return lastN(h.summaries, len(h.summaries))
}

// RecentThoughts は最近N件の思考を返す
func (h *History) RecentThoughts(n int) []ThoughtRecord {
	return lastN(h.thoughts, n)
}

// RecentChats は最近N件のチャットを返す
func (h *History) RecentChats(n int) []ChatRecord {
	return lastN(h.chats, n)
}

// RecentSummaries は最近N件の要約を返す
func (h *History) RecentSummaries(n int) []string {
	return lastN(h.summaries, n)
}

// ThoughtCount は思考履歴の件数を返す
func (h *History) ThoughtCount() int {
	return len(h.thoughts)
}

// ChatCount はチャット履歴の件数を返す
func (h *History) ChatCount() int {
	return len(h.chats)
}

// SummaryCount は要約履歴の件数を返す
func (h *History) SummaryCount() int {
	return len(h.summaries)
}

// IsEmpty は3つのリストがすべて空かを判定
func (h *History) IsEmpty() bool {
	return len(h.thoughts) == 0 && len(h.chats) == 0 && len(h.summaries) == 0
}

// Reset は全履歴をクリア
func (h *History) Reset() {
	h.thoughts = make([]ThoughtRecord, 0)
	h.chats = make([]ChatRecord, 0)
	h.summaries = make([]string, 0)
}

// lastN は末尾N件のコピーを返す（N件未満なら全件）
func lastN[T any](items []T, n int) []T {
	if n < 0 {
		n = 0
	}
	start := 0
	if len(items) > n {
		start = len(items) - n
	}
	out := make([]T, len(items)-start)
	copy(out, items[start:])
	return out
}
