// Package auth は名前とパスワードによるログインとセッションIDの管理を提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hitoshi/diety/internal/metrics"
	"github.com/hitoshi/diety/internal/model"
	"github.com/hitoshi/diety/internal/repository"
)

// LoginResult はログイン処理の結果。
type LoginResult struct {
	// User はログインしたユーザー。SessionIDは確定したセッションIDに更新済み。
	User *model.User
	// SessionID はこのログインで確定したセッションID。
	SessionID string
	// Issued はセッションIDを新規に発行したかどうか。
	// trueの場合、ハンドラーはクライアントにCookieを設定する必要がある。
	Issued bool
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	metrics  metrics.MetricsCollector
	newID    func() string
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, collector metrics.MetricsCollector) *Service {
	if collector == nil {
		collector = metrics.NopCollector{}
	}
	return &Service{
		userRepo: userRepo,
		metrics:  collector,
		newID:    uuid.NewString,
	}
}

// Login は名前とパスワードの完全一致でユーザーを認証し、セッションIDを確定する。
//
// presentedSessionIDはクライアントが既に持っているsessionId Cookieの値（なければ空文字列）。
// UUID形式で、かつ他のユーザーに紐付いていなければそのまま再利用する。
// それ以外の場合は新しいセッションIDを発行する。確定したセッションIDはユーザーに保存され、
// 以前のセッションIDは上書きされる。
func (s *Service) Login(ctx context.Context, name, password, presentedSessionID string) (*LoginResult, error) {
	u, err := s.userRepo.FindByCredentials(ctx, name, password)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if u == nil {
		s.metrics.RecordLoginFailure()
		slog.InfoContext(ctx, "login failed: invalid credentials")
		return nil, model.NewInvalidCredentialsError()
	}

	sessionID, issued, err := s.chooseSessionID(ctx, u, presentedSessionID)
	if err != nil {
		return nil, err
	}

	if sessionID != u.SessionID {
		if err := s.userRepo.UpdateSessionID(ctx, u.ID, sessionID); err != nil {
			return nil, fmt.Errorf("セッションIDの保存に失敗しました: %w", err)
		}
		u.SessionID = sessionID
	}

	if issued {
		s.metrics.RecordSessionIssued()
	}
	slog.InfoContext(ctx, "user logged in",
		slog.String("user_id", u.ID),
		slog.Bool("session_issued", issued),
	)

	return &LoginResult{
		User:      u,
		SessionID: sessionID,
		Issued:    issued,
	}, nil
}

// chooseSessionID は提示されたセッションIDを再利用できるか判定し、
// 再利用できなければ新しいIDを返す。
func (s *Service) chooseSessionID(ctx context.Context, u *model.User, presented string) (string, bool, error) {
	if !IsWellFormedSessionID(presented) {
		return s.newID(), true, nil
	}
	if presented == u.SessionID {
		return presented, false, nil
	}

	owner, err := s.userRepo.FindBySessionID(ctx, presented)
	if err != nil {
		return "", false, fmt.Errorf("セッションIDの確認に失敗しました: %w", err)
	}
	if owner != nil && owner.ID != u.ID {
		slog.InfoContext(ctx, "presented session belongs to another user, issuing a new one",
			slog.String("user_id", u.ID),
		)
		return s.newID(), true, nil
	}

	return presented, false, nil
}

// ResolveSession はセッションIDに紐付くユーザーを返す。該当がなければnilを返す。
func (s *Service) ResolveSession(ctx context.Context, sessionID string) (*model.User, error) {
	if !IsWellFormedSessionID(sessionID) {
		return nil, nil
	}
	u, err := s.userRepo.FindBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("セッションの解決に失敗しました: %w", err)
	}
	return u, nil
}

// IsWellFormedSessionID はセッションIDが発行形式（36文字のUUID）かどうかを返す。
func IsWellFormedSessionID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
