package conversation

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TurnID は1往復の会話ターンを識別する値オブジェクト
type TurnID struct {
	value string
}

// NewTurnID は新しいTurnIDを生成
func NewTurnID(now time.Time) TurnID {
	// フォーマット: YYYYMMDD-HHMMSS-{UUID先頭8文字}
	datePrefix := now.Format("20060102-150405")
	uuidStr := uuid.New().String()[:8]

	return TurnID{
		value: fmt.Sprintf("%s-%s", datePrefix, uuidStr),
	}
}

// TurnIDFromString は文字列からTurnIDを復元
func TurnIDFromString(s string) TurnID {
	return TurnID{value: s}
}

// String はTurnIDの文字列表現を返す
func (id TurnID) String() string {
	return id.value
}

// IsZero はTurnIDがゼロ値かを判定
func (id TurnID) IsZero() bool {
	return id.value == ""
}
