package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newUserRepoWithMock(t *testing.T) (*PostgresUserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostgresUserRepo(db), mock
}

var userRowColumns = []string{"id", "session_id", "name", "email", "password", "created_at"}

func TestPostgresUserRepo_Create_WritesBackIDAndCreatedAt(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)
	createdAt := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(`(?s)INSERT INTO users \(name, email, password\).*RETURNING id, created_at`).
		WithArgs("alice", "alice@example.com", "secret").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("user-1", createdAt))

	user := newTestUser()
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if user.ID != "user-1" {
		t.Errorf("ID = %q, want %q", user.ID, "user-1")
	}
	if !user.CreatedAt.Equal(createdAt) {
		t.Errorf("CreatedAt = %v, want %v", user.CreatedAt, createdAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresUserRepo_Create_WrapsDBError(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectQuery(`INSERT INTO users`).WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), newTestUser())
	if err == nil || !strings.Contains(err.Error(), "failed to insert user") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestPostgresUserRepo_FindByCredentials_Found(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectQuery(`(?s)FROM users\s+WHERE name = \$1 AND password = \$2.*ORDER BY created_at, id`).
		WithArgs("alice", "secret").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow("user-1", nil, "alice", "alice@example.com", "secret", time.Now()))

	got, err := repo.FindByCredentials(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("FindByCredentials error: %v", err)
	}
	if got == nil {
		t.Fatal("expected user, got nil")
	}
	if got.ID != "user-1" || got.Name != "alice" {
		t.Errorf("unexpected user: %+v", got)
	}
	if got.SessionID != "" {
		t.Errorf("SessionID = %q, want empty for NULL", got.SessionID)
	}
}

func TestPostgresUserRepo_FindByCredentials_NotFound(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectQuery(`FROM users`).
		WithArgs("alice", "wrong").
		WillReturnError(sql.ErrNoRows)

	got, err := repo.FindByCredentials(context.Background(), "alice", "wrong")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != nil {
		t.Errorf("expected nil user, got %+v", got)
	}
}

func TestPostgresUserRepo_FindBySessionID_Found(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)
	sessionID := "6f1b1c4e-8f0c-4c8f-9a55-0d7f1e1f2a3b"

	mock.ExpectQuery(`FROM users WHERE session_id = \$1`).
		WithArgs(sessionID).
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow("user-1", sessionID, "alice", "alice@example.com", "secret", time.Now()))

	got, err := repo.FindBySessionID(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("FindBySessionID error: %v", err)
	}
	if got == nil || got.SessionID != sessionID {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestPostgresUserRepo_FindBySessionID_NotFound(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectQuery(`FROM users WHERE session_id = \$1`).
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	got, err := repo.FindBySessionID(context.Background(), "6f1b1c4e-8f0c-4c8f-9a55-0d7f1e1f2a3b")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != nil {
		t.Errorf("expected nil user, got %+v", got)
	}
}

func TestPostgresUserRepo_FindBySessionID_WrapsDBError(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectQuery(`FROM users`).WillReturnError(errors.New("conn reset"))

	_, err := repo.FindBySessionID(context.Background(), "s")
	if err == nil || !strings.Contains(err.Error(), "conn reset") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestPostgresUserRepo_UpdateSessionID(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectExec(`UPDATE users SET session_id = \$1 WHERE id = \$2`).
		WithArgs("sess-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateSessionID(context.Background(), "user-1", "sess-1"); err != nil {
		t.Fatalf("UpdateSessionID error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresUserRepo_UpdateSessionID_UserNotFound(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectExec(`UPDATE users`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateSessionID(context.Background(), "missing", "sess-1")
	if err == nil || !strings.Contains(err.Error(), "user not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}
