package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/tasktrack/internal/common/config"
	"github.com/AlibekovAA/tasktrack/internal/common/constants"
	"github.com/AlibekovAA/tasktrack/internal/common/db"
	"github.com/AlibekovAA/tasktrack/internal/common/logger"
	"github.com/AlibekovAA/tasktrack/internal/common/sqlitedb"
	todorepo "github.com/AlibekovAA/tasktrack/internal/todo/repository"
	userrepo "github.com/AlibekovAA/tasktrack/internal/user/repository"
)

type pingingUserRepo interface {
	userrepo.Repository
	Ping(ctx context.Context) error
}

// Store bundles the credential and task stores over one backend.
type Store struct {
	Users userrepo.Repository
	Tasks todorepo.Repository
	Name  string

	users   pingingUserRepo
	closeFn func()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.users.Ping(ctx)
}

func (s *Store) Close() {
	if s.closeFn != nil {
		s.closeFn()
	}
}

// OpenStore connects the backend selected by cfg.StoreDriver. ctx bounds the
// lifetime of background pool metrics.
func OpenStore(ctx context.Context, cfg config.APIConfig, log *logger.Logger) (*Store, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		return openPostgres(ctx, cfg, log)
	case config.StoreDriverSQLite:
		return openSQLite(cfg, log)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownStoreDriver, cfg.StoreDriver)
	}
}

func openPostgres(ctx context.Context, cfg config.APIConfig, log *logger.Logger) (*Store, error) {
	if cfg.MigrateOnStart {
		if err := db.RunMigrations(log, cfg.DatabaseURL); err != nil {
			return nil, err
		}
	}

	pool, err := db.NewPool(ctx, log, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	db.StartPoolMetrics(ctx, pool, constants.DBPoolMetricsInterval)

	users := userrepo.NewPgRepository(pool, db.NewDefaultGuard("users_store", log))
	tasks := todorepo.NewPgRepository(pool, db.NewDefaultGuard("tasks_store", log))
	return newStore(config.StoreDriverPostgres, users, tasks, func() { closePool(pool, log) }), nil
}

func openSQLite(cfg config.APIConfig, log *logger.Logger) (*Store, error) {
	sqlDB, err := sqlitedb.Open(cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	log.Infof("sqlite store opened at %s", cfg.SQLitePath)

	users := userrepo.NewSQLiteRepository(sqlDB)
	tasks := todorepo.NewSQLiteRepository(sqlDB)
	return newStore(config.StoreDriverSQLite, users, tasks, func() { closeSQL(sqlDB, log) }), nil
}

func newStore(name string, users pingingUserRepo, tasks todorepo.Repository, closeFn func()) *Store {
	return &Store{
		Users:   users,
		Tasks:   tasks,
		Name:    name,
		users:   users,
		closeFn: closeFn,
	}
}

func closePool(pool *pgxpool.Pool, log *logger.Logger) {
	pool.Close()
	log.Info("postgres pool closed")
}

func closeSQL(sqlDB *sql.DB, log *logger.Logger) {
	if err := sqlDB.Close(); err != nil {
		log.Errorf("failed to close sqlite store: %v", err)
		return
	}
	log.Info("sqlite store closed")
}
