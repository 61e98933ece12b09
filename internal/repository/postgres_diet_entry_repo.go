package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hitoshi/diety/internal/model"
)

// dietEntryRow はdiet_entriesテーブルの1行に対応するスキャン用構造体。
type dietEntryRow struct {
	ID          string    `db:"id"`
	SessionID   string    `db:"session_id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	DateAndHour string    `db:"date_and_hour"`
	IsDiet      string    `db:"is_diet"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r *dietEntryRow) toModel() *model.DietEntry {
	return &model.DietEntry{
		ID:          r.ID,
		SessionID:   r.SessionID,
		Name:        r.Name,
		Description: r.Description,
		DateAndHour: r.DateAndHour,
		Status:      model.DietStatus(r.IsDiet),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

const dietEntryColumns = `id, session_id, name, description, date_and_hour, is_diet, created_at, updated_at`

// PostgresDietEntryRepo はPostgreSQLを使用した食事記録リポジトリ。
type PostgresDietEntryRepo struct {
	db *sqlx.DB
}

// NewPostgresDietEntryRepo はPostgresDietEntryRepoを生成する。
func NewPostgresDietEntryRepo(db *sql.DB) *PostgresDietEntryRepo {
	return &PostgresDietEntryRepo{db: sqlx.NewDb(db, "postgres")}
}

// Create は食事記録を作成する。
func (r *PostgresDietEntryRepo) Create(ctx context.Context, entry *model.DietEntry) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO diet_entries (session_id, name, description, date_and_hour, is_diet)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		entry.SessionID, entry.Name, entry.Description, entry.DateAndHour, string(entry.Status),
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert diet entry: %w", err)
	}
	return nil
}

// ListBySession はセッションの食事記録を作成順で取得する。
func (r *PostgresDietEntryRepo) ListBySession(ctx context.Context, sessionID string) ([]*model.DietEntry, error) {
	var rows []dietEntryRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT `+dietEntryColumns+` FROM diet_entries
		 WHERE session_id = $1
		 ORDER BY seq`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list diet entries: %w", err)
	}

	entries := make([]*model.DietEntry, 0, len(rows))
	for i := range rows {
		entries = append(entries, rows[i].toModel())
	}
	return entries, nil
}

// FindByIDAndSession はIDとセッションIDで食事記録を取得する。見つからない場合はnilを返す。
func (r *PostgresDietEntryRepo) FindByIDAndSession(ctx context.Context, id, sessionID string) (*model.DietEntry, error) {
	var row dietEntryRow
	err := r.db.GetContext(ctx, &row,
		`SELECT `+dietEntryColumns+` FROM diet_entries
		 WHERE id = $1 AND session_id = $2`,
		id, sessionID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find diet entry: %w", err)
	}
	return row.toModel(), nil
}

// Update は食事記録の可変フィールドを更新する。IDとセッションIDは変更しない。
func (r *PostgresDietEntryRepo) Update(ctx context.Context, id, sessionID string, input model.DietEntryInput) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE diet_entries
		 SET name = $1, description = $2, date_and_hour = $3, is_diet = $4, updated_at = now()
		 WHERE id = $5 AND session_id = $6`,
		input.Name, input.Description, input.DateAndHour, string(input.Status), id, sessionID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update diet entry: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// DeleteByIDAndSession は食事記録を削除する。
func (r *PostgresDietEntryRepo) DeleteByIDAndSession(ctx context.Context, id, sessionID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM diet_entries WHERE id = $1 AND session_id = $2`,
		id, sessionID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete diet entry: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// ListStatusesBySession はセッションの食事記録のステータスを作成順で取得する。
// 連続記録の計算は並び順に依存するため、挿入順の連番seqで明示的に順序付ける。
func (r *PostgresDietEntryRepo) ListStatusesBySession(ctx context.Context, sessionID string) ([]model.DietStatus, error) {
	var raw []string
	err := r.db.SelectContext(ctx, &raw,
		`SELECT is_diet FROM diet_entries
		 WHERE session_id = $1
		 ORDER BY seq`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list diet statuses: %w", err)
	}

	statuses := make([]model.DietStatus, 0, len(raw))
	for _, s := range raw {
		statuses = append(statuses, model.DietStatus(s))
	}
	return statuses, nil
}

// compile-time interface check
var _ DietEntryRepository = (*PostgresDietEntryRepo)(nil)
