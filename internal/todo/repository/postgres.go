package repository

import (
	"context"
	"time"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/tasktrack/internal/common/db"
	"github.com/AlibekovAA/tasktrack/internal/todo/domain"
)

type PgRepository struct {
	pool  *pgxpool.Pool
	guard *db.Guard
}

func NewPgRepository(pool *pgxpool.Pool, guard *db.Guard) *PgRepository {
	return &PgRepository{pool: pool, guard: guard}
}

func (r *PgRepository) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	start := time.Now()
	var created domain.Task
	err := r.guard.Write(ctx, func(ctx context.Context) error {
		row := r.pool.QueryRow(
			ctx,
			`INSERT INTO todos (`+taskColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			 RETURNING `+taskColumns,
			string(task.ID),
			task.Owner,
			task.Title,
			task.Description,
			string(task.Urgency),
			task.DueDate,
			task.Completed,
			task.CreatedAt,
			task.UpdatedAt,
		)
		var err error
		created, err = scanPgTask(row)
		return err
	})
	if err := db.ObserveQuery("create task", todosTable, start, err, nil); err != nil {
		return domain.Task{}, err
	}
	return created, nil
}

func (r *PgRepository) Update(ctx context.Context, owner string, id domain.ID, changes Changes) (domain.Task, error) {
	start := time.Now()
	var updated domain.Task
	err := r.guard.Write(ctx, func(ctx context.Context) error {
		row := r.pool.QueryRow(
			ctx,
			`UPDATE todos
			 SET title = $3, description = $4, urgency = $5, due_date = $6, updated_at = $7
			 WHERE id = $1 AND owner_id = $2
			 RETURNING `+taskColumns,
			string(id),
			owner,
			changes.Title,
			changes.Description,
			string(changes.Urgency),
			changes.DueDate,
			changes.UpdatedAt,
		)
		var err error
		updated, err = scanPgTask(row)
		return err
	})
	if err := db.ObserveQuery("update task", todosTable, start, err, ErrTaskNotFound); err != nil {
		return domain.Task{}, err
	}
	return updated, nil
}

func (r *PgRepository) Delete(ctx context.Context, owner string, id domain.ID) error {
	start := time.Now()
	var affected int64
	err := r.guard.Write(ctx, func(ctx context.Context) error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM todos WHERE id = $1 AND owner_id = $2`, string(id), owner)
		affected = tag.RowsAffected()
		return err
	})
	if err := db.ObserveQuery("delete task", todosTable, start, err, nil); err != nil {
		return err
	}
	if affected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Toggle flips completed in one statement, so concurrent toggles of the same
// task serialize on the row lock and each one is applied.
func (r *PgRepository) Toggle(ctx context.Context, owner string, id domain.ID, updatedAt time.Time) (domain.Task, error) {
	start := time.Now()
	var toggled domain.Task
	err := r.guard.Write(ctx, func(ctx context.Context) error {
		row := r.pool.QueryRow(
			ctx,
			`UPDATE todos
			 SET completed = NOT completed, updated_at = $3
			 WHERE id = $1 AND owner_id = $2
			 RETURNING `+taskColumns,
			string(id),
			owner,
			updatedAt,
		)
		var err error
		toggled, err = scanPgTask(row)
		return err
	})
	if err := db.ObserveQuery("toggle task", todosTable, start, err, ErrTaskNotFound); err != nil {
		return domain.Task{}, err
	}
	return toggled, nil
}

func (r *PgRepository) ListByOwner(ctx context.Context, owner string) ([]domain.Task, error) {
	start := time.Now()
	var tasks []domain.Task
	err := r.guard.Read(ctx, func(ctx context.Context) error {
		tasks = tasks[:0]
		rows, err := r.pool.Query(
			ctx,
			`SELECT `+taskColumns+` FROM todos WHERE owner_id = $1 ORDER BY created_at ASC, id ASC`,
			owner,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			task, err := scanPgTask(rows)
			if err != nil {
				return err
			}
			tasks = append(tasks, task)
		}
		return rows.Err()
	})
	if err := db.ObserveQuery("list tasks", todosTable, start, err, nil); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *PgRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func scanPgTask(row pgx.Row) (domain.Task, error) {
	var (
		task    domain.Task
		urgency string
	)
	err := row.Scan(
		&task.ID,
		&task.Owner,
		&task.Title,
		&task.Description,
		&urgency,
		&task.DueDate,
		&task.Completed,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return domain.Task{}, err
	}
	task.Urgency = domain.Urgency(urgency)
	task.DueDate = task.DueDate.UTC()
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()
	return task, nil
}
