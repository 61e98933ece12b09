// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/hitoshi/diety/internal/model"
)

// SessionCookieName はセッションIDを保持するCookie名。
const SessionCookieName = "sessionId"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

var (
	// sessionIDContextKey はリクエストコンテキストにセッションIDを格納するためのキー。
	sessionIDContextKey = contextKey("session_id")
	// userIDContextKey はリクエストコンテキストにユーザーIDを格納するためのキー。
	userIDContextKey = contextKey("user_id")
)

// SessionResolver はセッションIDからユーザーを解決するインターフェース。
// 該当するユーザーがいない場合は (nil, nil) を返す。
type SessionResolver interface {
	ResolveSession(ctx context.Context, sessionID string) (*model.User, error)
}

// NewSessionMiddleware はsessionId Cookieを検査し、セッションIDをリクエストコンテキストに注入するミドルウェアを返す。
//
// Cookieがない、空、またはUUID形式でない場合は401を返し、後続のハンドラーは実行しない。
// requireUserがtrueの場合はresolverでセッションIDに紐付くユーザーの存在も確認し、
// 見つからなければ401を返す。見つかったユーザーのIDはコンテキストに注入される。
// requireUserがfalseの場合はCookieの存在のみを確認し、resolverは使用しない。
func NewSessionMiddleware(resolver SessionResolver, requireUser bool) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. CookieからセッションIDを取得
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				writeUnauthorized(w)
				return
			}
			sessionID := cookie.Value

			// セッションIDは常にUUIDで発行されるため、それ以外はストアに渡さない
			if _, err := uuid.Parse(sessionID); err != nil || len(sessionID) != 36 {
				writeUnauthorized(w)
				return
			}

			ctx := ContextWithSessionID(r.Context(), sessionID)

			// 2. 必要ならセッションに紐付くユーザーを確認
			if requireUser {
				u, err := resolver.ResolveSession(ctx, sessionID)
				if err != nil {
					slog.ErrorContext(ctx, "failed to resolve session",
						slog.String("error", err.Error()),
					)
					WriteInternalServerError(w)
					return
				}
				if u == nil {
					writeUnauthorized(w)
					return
				}
				ctx = ContextWithUserID(ctx, u.ID)
				annotateUserID(ctx, u.ID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
}

// SessionIDFromContext はリクエストコンテキストからセッションIDを取得する。
// セッションミドルウェアを通過したリクエストでのみ有効。
func SessionIDFromContext(ctx context.Context) (string, error) {
	sessionID, ok := ctx.Value(sessionIDContextKey).(string)
	if !ok || sessionID == "" {
		return "", fmt.Errorf("session ID not found in context")
	}
	return sessionID, nil
}

// ContextWithSessionID はコンテキストにセッションIDを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDContextKey, sessionID)
}

// UserIDFromContext はリクエストコンテキストからユーザーIDを取得する。
// ユーザー確認を有効にしたセッションミドルウェアを通過したリクエストでのみ有効。
func UserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

// ContextWithUserID はコンテキストにユーザーIDを注入する。
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}
