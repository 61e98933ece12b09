// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// NewValidationError はリクエストの形式不正エラーを生成する。
func NewValidationError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("リクエストが不正です: %s", reason),
		Category: "validation",
		Action:   "正しいJSON形式と必須フィールドを確認してください。",
	}
}

// NewInvalidIDError はUUID形式でないIDが指定された場合のエラーを生成する。
func NewInvalidIDError(id string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("IDの形式が不正です: %s", id),
		Category: "validation",
		Action:   "UUID形式のIDを指定してください。",
	}
}

// NewUnauthorizedError はセッション未提示または無効なセッションのエラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewInvalidCredentialsError はログイン時に名前またはパスワードが一致しない場合のエラーを生成する。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "名前またはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認してから再度ログインしてください。",
	}
}

// NewInternalError は内部エラーを生成する。詳細はログのみに記録する。
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
