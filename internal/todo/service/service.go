package service

import (
	"context"
	"errors"
	"strings"

	"github.com/AlibekovAA/tasktrack/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/tasktrack/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/tasktrack/internal/common/errors"
	"github.com/AlibekovAA/tasktrack/internal/common/logger"
	"github.com/AlibekovAA/tasktrack/internal/common/validation"
	"github.com/AlibekovAA/tasktrack/internal/observability/metrics"
	"github.com/AlibekovAA/tasktrack/internal/todo/domain"
	"github.com/AlibekovAA/tasktrack/internal/todo/events"
	"github.com/AlibekovAA/tasktrack/internal/todo/repository"
)

type Publisher interface {
	Publish(owner string, event events.Event)
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, events.Event) {}

// TaskInput is the editable part of a task as the caller sent it.
type TaskInput struct {
	Title       string
	Description string
	Urgency     string
	DueDate     string
}

type taskFields struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	DueDate     string `json:"dueDate" validate:"required"`
}

type TaskServiceDeps struct {
	Repo        repository.Repository
	IDGenerator commoncrypto.IDGenerator
	Publisher   Publisher
	Clock       clock.Clock
	Log         *logger.Logger
}

// TaskService runs every operation on behalf of an owner. Mutations are single
// store calls keyed on (id, owner).
type TaskService struct {
	repo        repository.Repository
	idGenerator commoncrypto.IDGenerator
	publisher   Publisher
	clock       clock.Clock
	log         *logger.Logger
}

func NewTaskService(deps TaskServiceDeps) *TaskService {
	s := &TaskService{
		repo:        deps.Repo,
		idGenerator: deps.IDGenerator,
		publisher:   deps.Publisher,
		clock:       deps.Clock,
		log:         deps.Log,
	}
	if s.publisher == nil {
		s.publisher = noopPublisher{}
	}
	if s.clock == nil {
		s.clock = clock.NewRealClock()
	}
	return s
}

func (s *TaskService) Create(ctx context.Context, owner string, input TaskInput) (domain.Task, error) {
	changes, err := normalize(input)
	if err != nil {
		record("create", "invalid")
		return domain.Task{}, err
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		record("create", "error")
		return domain.Task{}, commonerrors.ErrInternalError.WithCause(err)
	}

	now := s.clock.Now()
	task, err := s.repo.Create(ctx, domain.Task{
		ID:          domain.ID(id),
		Owner:       owner,
		Title:       changes.Title,
		Description: changes.Description,
		Urgency:     changes.Urgency,
		DueDate:     changes.DueDate,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return domain.Task{}, s.fail(ctx, "create", owner, "", err)
	}

	record("create", "success")
	s.log.WithFields(ctx, logger.Fields{
		"user_id": owner,
		"task_id": string(task.ID),
		"action":  "task_created",
	}).Info("task created")
	s.publisher.Publish(owner, events.TaskChanged(events.TypeCreated, task))
	return task, nil
}

func (s *TaskService) Update(ctx context.Context, owner string, id domain.ID, input TaskInput) (domain.Task, error) {
	if !commoncrypto.ValidID(string(id)) {
		record("update", "not_found")
		return domain.Task{}, ErrNotFoundOrForbidden
	}
	changes, err := normalize(input)
	if err != nil {
		record("update", "invalid")
		return domain.Task{}, err
	}
	changes.UpdatedAt = s.clock.Now()

	task, err := s.repo.Update(ctx, owner, id, changes)
	if err != nil {
		return domain.Task{}, s.fail(ctx, "update", owner, id, err)
	}

	record("update", "success")
	s.publisher.Publish(owner, events.TaskChanged(events.TypeUpdated, task))
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, owner string, id domain.ID) error {
	if !commoncrypto.ValidID(string(id)) {
		record("delete", "not_found")
		return ErrNotFoundOrForbidden
	}
	if err := s.repo.Delete(ctx, owner, id); err != nil {
		return s.fail(ctx, "delete", owner, id, err)
	}

	record("delete", "success")
	s.log.WithFields(ctx, logger.Fields{
		"user_id": owner,
		"task_id": string(id),
		"action":  "task_deleted",
	}).Info("task deleted")
	s.publisher.Publish(owner, events.TaskDeleted(id))
	return nil
}

// ToggleCompletion flips completed atomically in the store; two concurrent
// toggles of one task always leave it where it started.
func (s *TaskService) ToggleCompletion(ctx context.Context, owner string, id domain.ID) (domain.Task, error) {
	if !commoncrypto.ValidID(string(id)) {
		record("toggle", "not_found")
		return domain.Task{}, ErrNotFoundOrForbidden
	}

	task, err := s.repo.Toggle(ctx, owner, id, s.clock.Now())
	if err != nil {
		return domain.Task{}, s.fail(ctx, "toggle", owner, id, err)
	}

	record("toggle", "success")
	s.publisher.Publish(owner, events.TaskChanged(events.TypeToggled, task))
	return task, nil
}

func (s *TaskService) ListByOwner(ctx context.Context, owner string) ([]domain.Task, error) {
	tasks, err := s.repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, s.fail(ctx, "list", owner, "", err)
	}
	record("list", "success")
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

// fail maps store errors onto the service's error kinds.
func (s *TaskService) fail(ctx context.Context, operation, owner string, id domain.ID, err error) error {
	if errors.Is(err, repository.ErrTaskNotFound) {
		record(operation, "not_found")
		return ErrNotFoundOrForbidden
	}

	record(operation, "error")
	s.log.WithFields(ctx, logger.Fields{
		"user_id": owner,
		"task_id": string(id),
		"action":  "task_" + operation + "_failed",
	}).Errorf("task %s failed: %v", operation, err)

	if errors.Is(err, commonerrors.ErrCircuitOpen) {
		return commonerrors.ErrCircuitOpen
	}
	return commonerrors.ErrDatabaseError.WithCause(err)
}

func normalize(input TaskInput) (repository.Changes, error) {
	fields := taskFields{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		DueDate:     strings.TrimSpace(input.DueDate),
	}
	if err := validation.Struct(fields); err != nil {
		return repository.Changes{}, err
	}

	urgency, err := domain.ParseUrgency(input.Urgency)
	if err != nil {
		return repository.Changes{}, commonerrors.ErrValidation.WithDetails(map[string]any{
			"urgency": "must be one of [important normal not-important]",
		})
	}

	dueDate, err := domain.ParseDueDate(fields.DueDate)
	if err != nil {
		return repository.Changes{}, commonerrors.ErrValidation.WithDetails(map[string]any{
			"dueDate": "must be a date (YYYY-MM-DD) or RFC 3339 timestamp",
		})
	}

	return repository.Changes{
		Title:       fields.Title,
		Description: fields.Description,
		Urgency:     urgency,
		DueDate:     dueDate,
	}, nil
}

func record(operation, result string) {
	metrics.TaskOperationsTotal.WithLabelValues(operation, result).Inc()
}
