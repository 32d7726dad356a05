package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	commonerrors "github.com/AlibekovAA/tasktrack/internal/common/errors"
	commonhttp "github.com/AlibekovAA/tasktrack/internal/common/http"
	"github.com/AlibekovAA/tasktrack/internal/common/jwtverify"
	"github.com/AlibekovAA/tasktrack/internal/common/logger"
	"github.com/AlibekovAA/tasktrack/internal/todo/domain"
	"github.com/AlibekovAA/tasktrack/internal/todo/service"
)

type TaskService interface {
	Create(ctx context.Context, owner string, input service.TaskInput) (domain.Task, error)
	Update(ctx context.Context, owner string, id domain.ID, input service.TaskInput) (domain.Task, error)
	Delete(ctx context.Context, owner string, id domain.ID) error
	ToggleCompletion(ctx context.Context, owner string, id domain.ID) (domain.Task, error)
	ListByOwner(ctx context.Context, owner string) ([]domain.Task, error)
}

type createRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Urgency     string `json:"urgency"`
	DueDate     string `json:"dueDate" validate:"required"`
}

type updateRequest struct {
	ID string `json:"id" validate:"required"`
	createRequest
}

type idRequest struct {
	ID string `json:"id" validate:"required"`
}

type Handler struct {
	tasks          TaskService
	errors         *commonhttp.ErrorHandler
	requestTimeout time.Duration
	log            *logger.Logger
}

func NewHandler(tasks TaskService, requestTimeout time.Duration, log *logger.Logger) *Handler {
	return &Handler{
		tasks:          tasks,
		errors:         commonhttp.NewErrorHandler(log),
		requestTimeout: requestTimeout,
		log:            log,
	}
}

// Routes registers the task endpoints behind requireAuth. feed serves the
// websocket event stream and may be nil.
func (h *Handler) Routes(r chi.Router, requireAuth func(http.Handler) http.Handler, feed http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/my", h.list)
		r.Post("/create", h.create)
		r.Put("/update", h.update)
		r.Delete("/delete", h.delete)
		r.Patch("/toggle", h.toggle)
		if feed != nil {
			r.Method(http.MethodGet, "/events", feed)
		}
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	tasks, err := h.tasks.ListByOwner(ctx, owner)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	views := make([]domain.View, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, t.View())
	}
	commonhttp.WriteData(w, http.StatusOK, views)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}
	var req createRequest
	if !commonhttp.DecodeAndValidate(w, r, h.errors, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	task, err := h.tasks.Create(ctx, owner, req.input())
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteData(w, http.StatusCreated, task.View())
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}
	var req updateRequest
	if !commonhttp.DecodeAndValidate(w, r, h.errors, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	task, err := h.tasks.Update(ctx, owner, domain.ID(req.ID), req.input())
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteData(w, http.StatusOK, task.View())
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}
	var req idRequest
	if !commonhttp.DecodeAndValidate(w, r, h.errors, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	if err := h.tasks.Delete(ctx, owner, domain.ID(req.ID)); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteSuccess(w)
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}
	var req idRequest
	if !commonhttp.DecodeAndValidate(w, r, h.errors, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	task, err := h.tasks.ToggleCompletion(ctx, owner, domain.ID(req.ID))
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteData(w, http.StatusOK, task.View())
}

// owner returns the caller identity that scopes every task operation.
func (h *Handler) owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := jwtverify.FromContext(r.Context())
	if !ok || claims.UserID == "" {
		h.errors.HandleError(w, r, commonerrors.ErrUnauthorized)
		return "", false
	}
	return claims.UserID, true
}

func (req createRequest) input() service.TaskInput {
	return service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Urgency:     req.Urgency,
		DueDate:     req.DueDate,
	}
}
