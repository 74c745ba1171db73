// Package task serves the task and task-activity routes.
package task

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/sngm3741/survey-services/api/internal/interfaces/http/guard"
	taskapp "github.com/sngm3741/survey-services/api/internal/task/application"
)

// Handler wires task HTTP endpoints to application services.
type Handler struct {
	logger zerolog.Logger
	tasks  taskapp.TaskService
	guard  *guard.Guard
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger zerolog.Logger
	Tasks  taskapp.TaskService
	Guard  *guard.Guard
}

// NewHandler constructs a task HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{logger: cfg.Logger, tasks: cfg.Tasks, guard: cfg.Guard}
}

// Register mounts all task routes onto the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/tasks", h.taskListHandler())
	r.Get("/tasks/{id}", h.taskDetailHandler())
	r.With(h.guard.Authenticate).Post("/tasks", h.taskCreateHandler())
	r.With(h.guard.Authenticate).Put("/tasks/{id}", h.taskUpdateHandler())
	r.With(h.guard.Authenticate).Delete("/tasks/{id}", h.taskDeleteHandler())

	r.Post("/tasks/{id}/activities", h.activityCreateHandler())
	r.Get("/tasks/{id}/activities", h.activityListHandler())
	r.Put("/tasks/activities/{id}", h.activityRenameHandler())
	r.Delete("/tasks/activities/{id}", h.activityDeleteHandler())
}
