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

// userRow はusersテーブルの1行に対応するスキャン用構造体。
type userRow struct {
	ID        string         `db:"id"`
	SessionID sql.NullString `db:"session_id"`
	Name      string         `db:"name"`
	Email     string         `db:"email"`
	Password  string         `db:"password"`
	CreatedAt time.Time      `db:"created_at"`
}

func (r *userRow) toModel() *model.User {
	return &model.User{
		ID:        r.ID,
		SessionID: r.SessionID.String,
		Name:      r.Name,
		Email:     r.Email,
		Password:  r.Password,
		CreatedAt: r.CreatedAt,
	}
}

const userColumns = `id, session_id, name, email, password, created_at`

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sqlx.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: sqlx.NewDb(db, "postgres")}
}

// Create はユーザーを作成する。
func (r *PostgresUserRepo) Create(ctx context.Context, user *model.User) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (name, email, password)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		user.Name, user.Email, user.Password,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// FindByCredentials は名前とパスワードの完全一致でユーザーを検索する。見つからない場合はnilを返す。
// 同名・同パスワードのユーザーが複数いる場合は最初に作成されたものを返す。
func (r *PostgresUserRepo) FindByCredentials(ctx context.Context, name, password string) (*model.User, error) {
	var row userRow
	err := r.db.GetContext(ctx, &row,
		`SELECT `+userColumns+` FROM users
		 WHERE name = $1 AND password = $2
		 ORDER BY created_at, id
		 LIMIT 1`,
		name, password,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by credentials: %w", err)
	}
	return row.toModel(), nil
}

// FindBySessionID はセッションIDに紐付くユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindBySessionID(ctx context.Context, sessionID string) (*model.User, error) {
	var row userRow
	err := r.db.GetContext(ctx, &row,
		`SELECT `+userColumns+` FROM users WHERE session_id = $1`,
		sessionID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by session ID: %w", err)
	}
	return row.toModel(), nil
}

// UpdateSessionID はユーザーのセッションIDを上書きする。
func (r *PostgresUserRepo) UpdateSessionID(ctx context.Context, userID, sessionID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET session_id = $1 WHERE id = $2`,
		sessionID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session ID: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user not found: %s", userID)
	}
	return nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
