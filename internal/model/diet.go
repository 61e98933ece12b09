// Package model はドメインモデルを定義する。
package model

import "time"

// DietStatus は食事記録がダイエットの範囲内かどうかを表す。
type DietStatus string

const (
	// DietStatusWithin はダイエットの範囲内の食事。
	DietStatusWithin DietStatus = "withinTheDiet"
	// DietStatusOff はダイエットの範囲外の食事。
	DietStatusOff DietStatus = "offTheDiet"
)

// ParseDietStatus は文字列をDietStatusに変換する。
// 定義済みの値以外はfalseを返す。
func ParseDietStatus(s string) (DietStatus, bool) {
	switch DietStatus(s) {
	case DietStatusWithin, DietStatusOff:
		return DietStatus(s), true
	default:
		return "", false
	}
}

// IsWithin はダイエットの範囲内かどうかを返す。
func (s DietStatus) IsWithin() bool {
	return s == DietStatusWithin
}

// DietEntry は1件の食事記録を表す。
// 作成時のセッションIDに紐付き、同じセッションからのみ参照できる。
type DietEntry struct {
	ID          string
	SessionID   string
	Name        string
	Description string
	DateAndHour string
	Status      DietStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DietEntryInput は食事記録の作成・更新で変更可能なフィールド。
type DietEntryInput struct {
	Name        string
	Description string
	DateAndHour string
	Status      DietStatus
}

// Summary はセッション単位の食事記録の集計結果を表す。
type Summary struct {
	Total        int
	InDiet       int
	OffDiet      int
	BestSequence int
}
