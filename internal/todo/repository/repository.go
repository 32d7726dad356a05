package repository

import (
	"context"
	"errors"
	"time"

	"github.com/AlibekovAA/tasktrack/internal/todo/domain"
)

// Repository stores tasks. Every read and mutation after Create is keyed on
// (id, owner) in a single statement, so a task owned by someone else behaves
// exactly like a missing one.
type Repository interface {
	Create(ctx context.Context, task domain.Task) (domain.Task, error)
	Update(ctx context.Context, owner string, id domain.ID, changes Changes) (domain.Task, error)
	Delete(ctx context.Context, owner string, id domain.ID) error
	Toggle(ctx context.Context, owner string, id domain.ID, updatedAt time.Time) (domain.Task, error)
	ListByOwner(ctx context.Context, owner string) ([]domain.Task, error)
}

// Changes holds the user-editable fields of a task. Completed is not among them.
type Changes struct {
	Title       string
	Description string
	Urgency     domain.Urgency
	DueDate     time.Time
	UpdatedAt   time.Time
}

var ErrTaskNotFound = errors.New("task not found")

const (
	todosTable  = "todos"
	taskColumns = "id, owner_id, title, description, urgency, due_date, completed, created_at, updated_at"
)
