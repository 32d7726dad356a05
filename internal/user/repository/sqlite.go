package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/AlibekovAA/tasktrack/internal/common/db"
	"github.com/AlibekovAA/tasktrack/internal/common/sqlitedb"
	"github.com/AlibekovAA/tasktrack/internal/user/domain"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(sqlDB *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: sqlDB}
}

func (r *SQLiteRepository) Create(ctx context.Context, user domain.User) error {
	start := time.Now()
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO users (id, username, full_name, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		string(user.ID),
		user.Username,
		user.FullName,
		user.PasswordHash,
		sqlitedb.ToMillis(user.CreatedAt),
	)
	if sqlitedb.IsUniqueViolation(err) {
		db.ObserveQuery("create user", usersTable, start, nil, nil)
		return ErrUsernameAlreadyExists
	}
	return db.ObserveQuery("create user", usersTable, start, err, nil)
}

func (r *SQLiteRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.findOne(ctx, "find user by username", `SELECT id, username, full_name, password_hash, created_at FROM users WHERE username = ?`, username)
}

func (r *SQLiteRepository) findOne(ctx context.Context, operation, query string, arg any) (domain.User, error) {
	start := time.Now()

	var (
		user      domain.User
		createdAt int64
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.FullName,
		&user.PasswordHash,
		&createdAt,
	)
	if err := db.ObserveQuery(operation, usersTable, start, err, ErrUserNotFound); err != nil {
		return domain.User{}, err
	}
	user.CreatedAt = sqlitedb.FromMillis(createdAt)
	return user, nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
