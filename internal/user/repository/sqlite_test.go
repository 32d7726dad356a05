package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AlibekovAA/tasktrack/internal/common/sqlitedb"
	"github.com/AlibekovAA/tasktrack/internal/user/domain"
)

func newSQLiteRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	sqlDB, err := sqlitedb.Open(sqlitedb.MemoryPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return NewSQLiteRepository(sqlDB)
}

func TestSQLiteRepository_CreateAndFind(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	user := domain.User{ID: "u-1", Username: "alice", FullName: "Alice A", PasswordHash: "hash", CreatedAt: created}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("create: %v", err)
	}

	byName, err := repo.FindByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("find by username: %v", err)
	}
	if byName.ID != user.ID || byName.FullName != user.FullName || byName.PasswordHash != user.PasswordHash {
		t.Errorf("expected %+v, got %+v", user, byName)
	}
	if !byName.CreatedAt.Equal(created) {
		t.Errorf("expected created_at %v, got %v", created, byName.CreatedAt)
	}
}

func TestSQLiteRepository_DuplicateUsername(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, domain.User{ID: "u-1", Username: "alice", FullName: "A", PasswordHash: "h"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := repo.Create(ctx, domain.User{ID: "u-2", Username: "alice", FullName: "B", PasswordHash: "h"})
	if !errors.Is(err, ErrUsernameAlreadyExists) {
		t.Fatalf("expected ErrUsernameAlreadyExists, got %v", err)
	}
}

func TestSQLiteRepository_NotFound(t *testing.T) {
	repo := newSQLiteRepo(t)

	if _, err := repo.FindByUsername(context.Background(), "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
