// Package user はユーザー管理のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/diety/internal/metrics"
	"github.com/hitoshi/diety/internal/model"
	"github.com/hitoshi/diety/internal/repository"
)

// Service はユーザー管理のサービス層。
// ユーザー登録のビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	metrics  metrics.MetricsCollector
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(userRepo repository.UserRepository, collector metrics.MetricsCollector) *Service {
	if collector == nil {
		collector = metrics.NopCollector{}
	}
	return &Service{
		userRepo: userRepo,
		metrics:  collector,
	}
}

// Register はユーザーを登録する。
// 名前やメールアドレスの重複は検査しない。パスワードは受け取ったまま保存される。
// 登録直後のユーザーはセッションIDを持たない。
func (s *Service) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	u := &model.User{
		Name:     name,
		Email:    email,
		Password: password,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("ユーザーの登録に失敗しました: %w", err)
	}

	slog.InfoContext(ctx, "user registered",
		slog.String("user_id", u.ID),
	)
	s.metrics.RecordUserRegistered()

	return u, nil
}
