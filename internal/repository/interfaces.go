// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/diety/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成する。IDとCreatedAtはDB側で採番され、userに書き戻される。
	Create(ctx context.Context, user *model.User) error

	// FindByCredentials は名前とパスワードの完全一致でユーザーを検索する。
	// 見つからない場合はnilを返す。
	FindByCredentials(ctx context.Context, name, password string) (*model.User, error)

	// FindBySessionID はセッションIDに紐付くユーザーを取得する。見つからない場合はnilを返す。
	FindBySessionID(ctx context.Context, sessionID string) (*model.User, error)

	// UpdateSessionID はユーザーのセッションIDを上書きする。
	UpdateSessionID(ctx context.Context, userID, sessionID string) error
}

// DietEntryRepository は食事記録の永続化インターフェース。
// すべての操作はセッションIDで絞り込まれ、他セッションの記録には作用しない。
type DietEntryRepository interface {
	// Create は食事記録を作成する。ID、CreatedAt、UpdatedAtはentryに書き戻される。
	Create(ctx context.Context, entry *model.DietEntry) error

	// ListBySession はセッションの食事記録を作成順で取得する。
	ListBySession(ctx context.Context, sessionID string) ([]*model.DietEntry, error)

	// FindByIDAndSession はIDとセッションIDで食事記録を取得する。見つからない場合はnilを返す。
	FindByIDAndSession(ctx context.Context, id, sessionID string) (*model.DietEntry, error)

	// Update は食事記録の可変フィールドを更新する。
	// 該当行があった場合にtrueを返す。
	Update(ctx context.Context, id, sessionID string, input model.DietEntryInput) (bool, error)

	// DeleteByIDAndSession は食事記録を削除する。該当行があった場合にtrueを返す。
	DeleteByIDAndSession(ctx context.Context, id, sessionID string) (bool, error)

	// ListStatusesBySession はセッションの食事記録のステータスのみを作成順で取得する。
	ListStatusesBySession(ctx context.Context, sessionID string) ([]model.DietStatus, error)
}
