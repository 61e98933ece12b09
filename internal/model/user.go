// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// SessionIDは最後にログインしたセッションの識別子で、未ログインの場合は空文字列。
type User struct {
	ID        string
	SessionID string
	Name      string
	Email     string
	Password  string // 平文で保存され、完全一致で照合される
	CreatedAt time.Time
}
