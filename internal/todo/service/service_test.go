package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/AlibekovAA/tasktrack/internal/common/clock"
	commonerrors "github.com/AlibekovAA/tasktrack/internal/common/errors"
	"github.com/AlibekovAA/tasktrack/internal/common/logger"
	"github.com/AlibekovAA/tasktrack/internal/todo/domain"
	"github.com/AlibekovAA/tasktrack/internal/todo/events"
	"github.com/AlibekovAA/tasktrack/internal/todo/repository"
)

const (
	aliceID = "alice-id"
	taskID  = domain.ID("0190a3c4-7b1e-7000-8000-000000000001")
)

type mockRepo struct {
	createFunc func(ctx context.Context, task domain.Task) (domain.Task, error)
	updateFunc func(ctx context.Context, owner string, id domain.ID, changes repository.Changes) (domain.Task, error)
	deleteFunc func(ctx context.Context, owner string, id domain.ID) error
	toggleFunc func(ctx context.Context, owner string, id domain.ID, updatedAt time.Time) (domain.Task, error)
	listFunc   func(ctx context.Context, owner string) ([]domain.Task, error)
}

func (m *mockRepo) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, task)
	}
	return task, nil
}

func (m *mockRepo) Update(ctx context.Context, owner string, id domain.ID, changes repository.Changes) (domain.Task, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, owner, id, changes)
	}
	return domain.Task{}, repository.ErrTaskNotFound
}

func (m *mockRepo) Delete(ctx context.Context, owner string, id domain.ID) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, owner, id)
	}
	return repository.ErrTaskNotFound
}

func (m *mockRepo) Toggle(ctx context.Context, owner string, id domain.ID, updatedAt time.Time) (domain.Task, error) {
	if m.toggleFunc != nil {
		return m.toggleFunc(ctx, owner, id, updatedAt)
	}
	return domain.Task{}, repository.ErrTaskNotFound
}

func (m *mockRepo) ListByOwner(ctx context.Context, owner string) ([]domain.Task, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, owner)
	}
	return nil, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	owners []string
	events []events.Event
}

func (p *recordingPublisher) Publish(owner string, event events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.owners = append(p.owners, owner)
	p.events = append(p.events, event)
}

type fixedID struct{}

func (fixedID) NewID() (string, error) { return string(taskID), nil }

func setupTaskService(t *testing.T) (*TaskService, *mockRepo, *recordingPublisher, *clock.MockClock) {
	t.Helper()
	repo := &mockRepo{}
	pub := &recordingPublisher{}
	clk := clock.NewMockClock(time.Date(2025, 1, 5, 8, 0, 0, 0, time.UTC))
	log, _ := logger.New("", "test", "error")

	svc := NewTaskService(TaskServiceDeps{
		Repo:        repo,
		IDGenerator: fixedID{},
		Publisher:   pub,
		Clock:       clk,
		Log:         log,
	})
	return svc, repo, pub, clk
}

func TestTaskService_Create(t *testing.T) {
	svc, repo, pub, clk := setupTaskService(t)

	var stored domain.Task
	repo.createFunc = func(_ context.Context, task domain.Task) (domain.Task, error) {
		stored = task
		return task, nil
	}

	task, err := svc.Create(context.Background(), aliceID, TaskInput{
		Title:       "  Buy milk ",
		Description: " 2% ",
		DueDate:     "2025-01-10",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if stored.Owner != aliceID || stored.Title != "Buy milk" || stored.Description != "2%" {
		t.Errorf("unexpected stored task %+v", stored)
	}
	if stored.Urgency != domain.UrgencyNormal || stored.Completed {
		t.Errorf("expected defaults normal/incomplete, got %s/%v", stored.Urgency, stored.Completed)
	}
	if !stored.CreatedAt.Equal(clk.Now()) || !stored.UpdatedAt.Equal(clk.Now()) {
		t.Errorf("timestamps must come from the clock, got %v/%v", stored.CreatedAt, stored.UpdatedAt)
	}
	if task.ID != taskID {
		t.Errorf("expected generated id, got %s", task.ID)
	}
	if len(pub.events) != 1 || pub.events[0].Type != events.TypeCreated || pub.owners[0] != aliceID {
		t.Errorf("expected one created event for alice, got %+v", pub.events)
	}
}

func TestTaskService_Create_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input TaskInput
		field string
	}{
		{"blank title", TaskInput{Title: "   ", DueDate: "2025-01-10"}, "title"},
		{"missing due date", TaskInput{Title: "x"}, "dueDate"},
		{"bad due date", TaskInput{Title: "x", DueDate: "next week"}, "dueDate"},
		{"unknown urgency", TaskInput{Title: "x", DueDate: "2025-01-10", Urgency: "urgent"}, "urgency"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, pub, _ := setupTaskService(t)
			repo.createFunc = func(context.Context, domain.Task) (domain.Task, error) {
				t.Fatal("store must not be called for invalid input")
				return domain.Task{}, nil
			}

			_, err := svc.Create(context.Background(), aliceID, tt.input)
			de, ok := commonerrors.AsDomainError(err)
			if !ok || !errors.Is(err, commonerrors.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if _, ok := de.Details()[tt.field]; !ok {
				t.Errorf("expected detail for %s, got %v", tt.field, de.Details())
			}
			if len(pub.events) != 0 {
				t.Error("no event may be published on failure")
			}
		})
	}
}

func TestTaskService_Create_UrgencyAlias(t *testing.T) {
	svc, _, _, _ := setupTaskService(t)
	task, err := svc.Create(context.Background(), aliceID, TaskInput{Title: "x", DueDate: "2025-01-10", Urgency: "not important"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.Urgency != domain.UrgencyNotImportant {
		t.Errorf("expected not-important, got %s", task.Urgency)
	}
}

func TestTaskService_Update_PassesOwnerAndChanges(t *testing.T) {
	svc, repo, pub, clk := setupTaskService(t)

	repo.updateFunc = func(_ context.Context, owner string, id domain.ID, changes repository.Changes) (domain.Task, error) {
		if owner != aliceID || id != taskID {
			t.Errorf("unexpected key (%s, %s)", id, owner)
		}
		if changes.Urgency != domain.UrgencyImportant || !changes.UpdatedAt.Equal(clk.Now()) {
			t.Errorf("unexpected changes %+v", changes)
		}
		return domain.Task{ID: id, Owner: owner, Title: changes.Title, Urgency: changes.Urgency}, nil
	}

	task, err := svc.Update(context.Background(), aliceID, taskID, TaskInput{Title: "New", DueDate: "2025-02-01", Urgency: "important"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if task.Title != "New" {
		t.Errorf("unexpected task %+v", task)
	}
	if len(pub.events) != 1 || pub.events[0].Type != events.TypeUpdated {
		t.Errorf("expected updated event, got %+v", pub.events)
	}
}

func TestTaskService_MutationsOnForeignOrMissingTask(t *testing.T) {
	svc, _, pub, _ := setupTaskService(t)
	ctx := context.Background()
	valid := TaskInput{Title: "x", DueDate: "2025-01-10"}

	if _, err := svc.Update(ctx, "bob-id", taskID, valid); !errors.Is(err, ErrNotFoundOrForbidden) {
		t.Errorf("update: expected ErrNotFoundOrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, "bob-id", taskID); !errors.Is(err, ErrNotFoundOrForbidden) {
		t.Errorf("delete: expected ErrNotFoundOrForbidden, got %v", err)
	}
	if _, err := svc.ToggleCompletion(ctx, "bob-id", taskID); !errors.Is(err, ErrNotFoundOrForbidden) {
		t.Errorf("toggle: expected ErrNotFoundOrForbidden, got %v", err)
	}
	if len(pub.events) != 0 {
		t.Errorf("failed mutations must not publish, got %+v", pub.events)
	}
}

func TestTaskService_MalformedIDIsNotFound(t *testing.T) {
	svc, repo, _, _ := setupTaskService(t)
	repo.toggleFunc = func(context.Context, string, domain.ID, time.Time) (domain.Task, error) {
		t.Fatal("store must not be called with a malformed id")
		return domain.Task{}, nil
	}

	if _, err := svc.ToggleCompletion(context.Background(), aliceID, "not-a-uuid"); !errors.Is(err, ErrNotFoundOrForbidden) {
		t.Errorf("expected ErrNotFoundOrForbidden, got %v", err)
	}
}

func TestTaskService_Toggle(t *testing.T) {
	svc, repo, pub, _ := setupTaskService(t)

	completed := false
	repo.toggleFunc = func(_ context.Context, owner string, id domain.ID, _ time.Time) (domain.Task, error) {
		completed = !completed
		return domain.Task{ID: id, Owner: owner, Completed: completed}, nil
	}

	first, _ := svc.ToggleCompletion(context.Background(), aliceID, taskID)
	second, _ := svc.ToggleCompletion(context.Background(), aliceID, taskID)
	if !first.Completed || second.Completed {
		t.Errorf("expected true then false, got %v then %v", first.Completed, second.Completed)
	}
	if len(pub.events) != 2 || pub.events[1].Type != events.TypeToggled {
		t.Errorf("expected two toggled events, got %+v", pub.events)
	}
}

func TestTaskService_Delete_PublishesID(t *testing.T) {
	svc, repo, pub, _ := setupTaskService(t)
	repo.deleteFunc = func(context.Context, string, domain.ID) error { return nil }

	if err := svc.Delete(context.Background(), aliceID, taskID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(pub.events) != 1 || pub.events[0].Type != events.TypeDeleted || pub.events[0].ID != string(taskID) {
		t.Errorf("expected deleted event carrying id, got %+v", pub.events)
	}
}

func TestTaskService_ListNeverNil(t *testing.T) {
	svc, _, _, _ := setupTaskService(t)
	tasks, err := svc.ListByOwner(context.Background(), aliceID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if tasks == nil {
		t.Error("expected empty slice, got nil")
	}
}

func TestTaskService_StoreFailuresAreWrapped(t *testing.T) {
	svc, repo, _, _ := setupTaskService(t)
	repo.listFunc = func(context.Context, string) ([]domain.Task, error) {
		return nil, errors.New("connection reset by peer")
	}
	if _, err := svc.ListByOwner(context.Background(), aliceID); !errors.Is(err, commonerrors.ErrDatabaseError) {
		t.Errorf("expected ErrDatabaseError, got %v", err)
	}

	repo.listFunc = func(context.Context, string) ([]domain.Task, error) {
		return nil, commonerrors.ErrCircuitOpen
	}
	if _, err := svc.ListByOwner(context.Background(), aliceID); !errors.Is(err, commonerrors.ErrCircuitOpen) {
		t.Errorf("expected ErrCircuitOpen, got %v", err)
	}
}
