// Package diet は食事記録の管理と集計のドメインロジックを提供する。
package diet

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hitoshi/diety/internal/metrics"
	"github.com/hitoshi/diety/internal/model"
	"github.com/hitoshi/diety/internal/repository"
	"github.com/hitoshi/diety/internal/security"
)

// Service は食事記録のサービス層。
// すべての操作はセッションIDで絞り込まれ、他セッションの記録は存在しないものとして扱う。
type Service struct {
	repo      repository.DietEntryRepository
	markup  security.MarkupChecker
	metrics metrics.MetricsCollector
}

// NewService はServiceの新しいインスタンスを生成する。
// collectorがnilの場合はメトリクスを記録しない。
func NewService(
	repo repository.DietEntryRepository,
	markup security.MarkupChecker,
	collector metrics.MetricsCollector,
) *Service {
	if collector == nil {
		collector = metrics.NopCollector{}
	}
	return &Service{
		repo:    repo,
		markup:  markup,
		metrics: collector,
	}
}

// Create は食事記録を作成する。
func (s *Service) Create(ctx context.Context, sessionID string, input model.DietEntryInput) (*model.DietEntry, error) {
	input, err := s.prepareInput(input)
	if err != nil {
		return nil, err
	}

	entry := &model.DietEntry{
		SessionID:   sessionID,
		Name:        input.Name,
		Description: input.Description,
		DateAndHour: input.DateAndHour,
		Status:      input.Status,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("食事記録の作成に失敗しました: %w", err)
	}

	s.metrics.RecordEntryCreated()
	return entry, nil
}

// List はセッションの食事記録を作成順で返す。記録がない場合は空スライスを返す。
func (s *Service) List(ctx context.Context, sessionID string) ([]*model.DietEntry, error) {
	entries, err := s.repo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("食事記録一覧の取得に失敗しました: %w", err)
	}
	if entries == nil {
		entries = []*model.DietEntry{}
	}
	return entries, nil
}

// Get は食事記録を1件返す。存在しないか他セッションの記録の場合はnilを返す。
func (s *Service) Get(ctx context.Context, sessionID, id string) (*model.DietEntry, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	entry, err := s.repo.FindByIDAndSession(ctx, id, sessionID)
	if err != nil {
		return nil, fmt.Errorf("食事記録の取得に失敗しました: %w", err)
	}
	return entry, nil
}

// Update は食事記録の名前・説明・日時・ステータスを更新する。
// IDと所有セッションは変更されない。該当する記録がなくてもエラーにはしない。
func (s *Service) Update(ctx context.Context, sessionID, id string, input model.DietEntryInput) error {
	if err := validateID(id); err != nil {
		return err
	}
	input, err := s.prepareInput(input)
	if err != nil {
		return err
	}

	matched, err := s.repo.Update(ctx, id, sessionID, input)
	if err != nil {
		return fmt.Errorf("食事記録の更新に失敗しました: %w", err)
	}
	if !matched {
		slog.DebugContext(ctx, "diet entry update matched no rows", slog.String("entry_id", id))
		return nil
	}

	s.metrics.RecordEntryUpdated()
	return nil
}

// Delete は食事記録を削除する。該当する記録がなくてもエラーにはしない。
func (s *Service) Delete(ctx context.Context, sessionID, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	deleted, err := s.repo.DeleteByIDAndSession(ctx, id, sessionID)
	if err != nil {
		return fmt.Errorf("食事記録の削除に失敗しました: %w", err)
	}
	if !deleted {
		slog.DebugContext(ctx, "diet entry delete matched no rows", slog.String("entry_id", id))
		return nil
	}

	s.metrics.RecordEntryDeleted()
	return nil
}

// Summary はセッションの食事記録の集計結果を返す。
func (s *Service) Summary(ctx context.Context, sessionID string) (model.Summary, error) {
	statuses, err := s.repo.ListStatusesBySession(ctx, sessionID)
	if err != nil {
		return model.Summary{}, fmt.Errorf("食事記録の集計に失敗しました: %w", err)
	}

	summary := Summarize(statuses)
	s.metrics.RecordSummaryComputed(summary.Total)
	return summary, nil
}

// prepareInput はステータスを検証し、名前と説明にマークアップが含まれないことを確認する。
// 入力値は書き換えずにそのまま保存する。
func (s *Service) prepareInput(input model.DietEntryInput) (model.DietEntryInput, error) {
	status, ok := model.ParseDietStatus(string(input.Status))
	if !ok {
		return model.DietEntryInput{}, model.NewValidationError(
			fmt.Sprintf("isDietは%qまたは%qを指定してください", model.DietStatusWithin, model.DietStatusOff),
		)
	}

	for _, f := range []struct{ name, value string }{
		{"name", input.Name},
		{"description", input.Description},
	} {
		if s.markup.ContainsMarkup(f.value) {
			return model.DietEntryInput{}, model.NewValidationError(
				fmt.Sprintf("%sにHTMLタグは使用できません", f.name),
			)
		}
	}

	input.Status = status
	return input, nil
}

// validateID はIDが標準の36文字のUUID形式であることを検証する。
func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil || len(id) != 36 {
		return model.NewInvalidIDError(id)
	}
	return nil
}
