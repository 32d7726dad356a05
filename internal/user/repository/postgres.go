package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/tasktrack/internal/common/db"
	"github.com/AlibekovAA/tasktrack/internal/user/domain"
)

const pgUniqueViolation = "23505"

type PgRepository struct {
	pool  *pgxpool.Pool
	guard *db.Guard
}

func NewPgRepository(pool *pgxpool.Pool, guard *db.Guard) *PgRepository {
	return &PgRepository{pool: pool, guard: guard}
}

func (r *PgRepository) Create(ctx context.Context, user domain.User) error {
	start := time.Now()
	err := r.guard.Write(ctx, func(ctx context.Context) error {
		_, err := r.pool.Exec(
			ctx,
			`INSERT INTO users (id, username, full_name, password_hash, created_at) VALUES ($1, $2, $3, $4, $5)`,
			string(user.ID),
			user.Username,
			user.FullName,
			user.PasswordHash,
			user.CreatedAt,
		)
		return err
	})

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		db.ObserveQuery("create user", usersTable, start, nil, nil)
		return ErrUsernameAlreadyExists
	}
	return db.ObserveQuery("create user", usersTable, start, err, nil)
}

func (r *PgRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.findOne(ctx, "find user by username", `SELECT id, username, full_name, password_hash, created_at FROM users WHERE username = $1`, username)
}

func (r *PgRepository) findOne(ctx context.Context, operation, query string, arg any) (domain.User, error) {
	start := time.Now()

	var user domain.User
	err := r.guard.Read(ctx, func(ctx context.Context) error {
		return r.pool.QueryRow(ctx, query, arg).Scan(
			&user.ID,
			&user.Username,
			&user.FullName,
			&user.PasswordHash,
			&user.CreatedAt,
		)
	})
	if err := db.ObserveQuery(operation, usersTable, start, err, ErrUserNotFound); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (r *PgRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
