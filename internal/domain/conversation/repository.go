package conversation

import "context"

// Repository は会話履歴永続化の抽象化
type Repository interface {
	Load(ctx context.Context) (*History, error)
	Save(ctx context.Context, h *History) error
	Reset(ctx context.Context) error
}
