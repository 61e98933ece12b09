// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/hitoshi/diety/internal/auth"
	"github.com/hitoshi/diety/internal/middleware"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// Login は名前とパスワードで認証し、セッションIDを確定する。
	// presentedSessionIDはクライアントが送ってきたsessionId Cookieの値（なければ空文字列）。
	Login(ctx context.Context, name, password, presentedSessionID string) (*auth.LoginResult, error)
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	CookieDomain  string
	CookieSecure  bool
	SessionMaxAge int // セッションCookieの有効期間（秒）
}

// AuthHandler はログイン関連のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	config  AuthHandlerConfig
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		service: service,
		config:  config,
	}
}

// loginRequest はログインリクエストのボディ。
type loginRequest struct {
	Name     *string `json:"name"`
	Password *string `json:"password"`
}

// sessionResponse はログイン成功時に返すユーザー情報。パスワードは含めない。
type sessionResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

type loginResponse struct {
	Session sessionResponse `json:"session"`
}

// Login は名前とパスワードでログインする。
// POST {prefix}/sessions
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	if err := validateFields(
		requiredField{"name", req.Name},
		requiredField{"password", req.Password},
	); err != nil {
		handleServiceError(w, r, err)
		return
	}

	// 既存のCookieがあれば再利用の候補としてサービスに渡す
	var presented string
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		presented = cookie.Value
	}

	result, err := h.service.Login(r.Context(), *req.Name, *req.Password, presented)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	// 新規に発行した場合のみセッションCookieを設定（HTTP Only）
	if result.Issued {
		http.SetCookie(w, &http.Cookie{
			Name:     middleware.SessionCookieName,
			Value:    result.SessionID,
			Path:     "/",
			Domain:   h.config.CookieDomain,
			MaxAge:   h.config.SessionMaxAge,
			HttpOnly: true,
			Secure:   h.config.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		})
	}

	u := result.User
	writeJSON(w, r, http.StatusOK, loginResponse{
		Session: sessionResponse{
			ID:        u.ID,
			Name:      u.Name,
			Email:     u.Email,
			SessionID: result.SessionID,
			CreatedAt: u.CreatedAt,
		},
	})
}
