package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/AlibekovAA/tasktrack/internal/common/db"
	"github.com/AlibekovAA/tasktrack/internal/common/sqlitedb"
	"github.com/AlibekovAA/tasktrack/internal/todo/domain"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(sqlDB *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: sqlDB}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteRepository) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	start := time.Now()
	row := r.db.QueryRowContext(
		ctx,
		`INSERT INTO todos (`+taskColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 RETURNING `+taskColumns,
		string(task.ID),
		task.Owner,
		task.Title,
		task.Description,
		string(task.Urgency),
		sqlitedb.ToMillis(task.DueDate),
		task.Completed,
		sqlitedb.ToMillis(task.CreatedAt),
		sqlitedb.ToMillis(task.UpdatedAt),
	)
	created, err := scanSQLiteTask(row)
	if err := db.ObserveQuery("create task", todosTable, start, err, nil); err != nil {
		return domain.Task{}, err
	}
	return created, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, owner string, id domain.ID, changes Changes) (domain.Task, error) {
	start := time.Now()
	row := r.db.QueryRowContext(
		ctx,
		`UPDATE todos
		 SET title = ?, description = ?, urgency = ?, due_date = ?, updated_at = ?
		 WHERE id = ? AND owner_id = ?
		 RETURNING `+taskColumns,
		changes.Title,
		changes.Description,
		string(changes.Urgency),
		sqlitedb.ToMillis(changes.DueDate),
		sqlitedb.ToMillis(changes.UpdatedAt),
		string(id),
		owner,
	)
	updated, err := scanSQLiteTask(row)
	if err := db.ObserveQuery("update task", todosTable, start, err, ErrTaskNotFound); err != nil {
		return domain.Task{}, err
	}
	return updated, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, owner string, id domain.ID) error {
	start := time.Now()
	res, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ? AND owner_id = ?`, string(id), owner)
	if err := db.ObserveQuery("delete task", todosTable, start, err, nil); err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (r *SQLiteRepository) Toggle(ctx context.Context, owner string, id domain.ID, updatedAt time.Time) (domain.Task, error) {
	start := time.Now()
	row := r.db.QueryRowContext(
		ctx,
		`UPDATE todos
		 SET completed = NOT completed, updated_at = ?
		 WHERE id = ? AND owner_id = ?
		 RETURNING `+taskColumns,
		sqlitedb.ToMillis(updatedAt),
		string(id),
		owner,
	)
	toggled, err := scanSQLiteTask(row)
	if err := db.ObserveQuery("toggle task", todosTable, start, err, ErrTaskNotFound); err != nil {
		return domain.Task{}, err
	}
	return toggled, nil
}

func (r *SQLiteRepository) ListByOwner(ctx context.Context, owner string) ([]domain.Task, error) {
	start := time.Now()
	tasks, err := r.list(ctx, owner)
	if err := db.ObserveQuery("list tasks", todosTable, start, err, nil); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *SQLiteRepository) list(ctx context.Context, owner string) ([]domain.Task, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT `+taskColumns+` FROM todos WHERE owner_id = ? ORDER BY created_at ASC, id ASC`,
		owner,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanSQLiteTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func scanSQLiteTask(row rowScanner) (domain.Task, error) {
	var (
		task                          domain.Task
		urgency                       string
		dueDate, createdAt, updatedAt int64
	)
	err := row.Scan(
		&task.ID,
		&task.Owner,
		&task.Title,
		&task.Description,
		&urgency,
		&dueDate,
		&task.Completed,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return domain.Task{}, err
	}
	task.Urgency = domain.Urgency(urgency)
	task.DueDate = sqlitedb.FromMillis(dueDate)
	task.CreatedAt = sqlitedb.FromMillis(createdAt)
	task.UpdatedAt = sqlitedb.FromMillis(updatedAt)
	return task, nil
}
