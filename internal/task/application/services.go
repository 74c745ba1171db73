package application

import (
	"context"

	"github.com/sngm3741/survey-services/api/internal/store"
	"github.com/sngm3741/survey-services/api/internal/task/domain"
)

// TaskRepository is the persistence port for tasks.
type TaskRepository interface {
	// Find returns tasks newest first.
	Find(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	// FindByID returns apperr.ErrInvalidID for malformed ids and apperr.ErrNotFound when absent.
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	Insert(ctx context.Context, task *domain.Task) (store.InsertResult, error)
	// UpdateByID applies patch. With upsert a missing task is created under the requested id
	// and seeded from defaults.
	UpdateByID(ctx context.Context, id string, patch TaskPatch, defaults *domain.Task, upsert bool) (store.UpdateResult, error)
	DeleteByID(ctx context.Context, id string) (store.DeleteResult, error)
}

// ActivityRepository is the persistence port for task activities.
type ActivityRepository interface {
	Insert(ctx context.Context, activity *domain.Activity) (store.InsertResult, error)
	FindByTask(ctx context.Context, taskID string) ([]domain.Activity, error)
	Rename(ctx context.Context, id, name string) (store.UpdateResult, error)
	DeleteByID(ctx context.Context, id string) (store.DeleteResult, error)
}

// TaskFilter narrows task listings. Zero values are ignored.
type TaskFilter struct {
	UserEmail string
	Status    string
}

// TaskPatch holds the editable task fields. Nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Priority    *string
	Status      *string
	DueDate     *string
}

// TaskService describes task and activity use-cases.
type TaskService interface {
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Get(ctx context.Context, id string) (*domain.Task, error)
	Create(ctx context.Context, cmd CreateTaskCommand) (store.InsertResult, error)
	// Update upserts the task. apperr.ErrForbidden when another user owns it.
	Update(ctx context.Context, id string, patch TaskPatch, principal string) (store.UpdateResult, error)
	// Delete is idempotent. apperr.ErrForbidden when another user owns the task.
	Delete(ctx context.Context, id, principal string) (store.DeleteResult, error)
	AddActivity(ctx context.Context, taskID, name string) (store.InsertResult, error)
	Activities(ctx context.Context, taskID string) ([]domain.Activity, error)
	RenameActivity(ctx context.Context, id, name string) (store.UpdateResult, error)
	DeleteActivity(ctx context.Context, id string) (store.DeleteResult, error)
}

// CreateTaskCommand carries client supplied task fields.
type CreateTaskCommand struct {
	Title       string
	Description string
	Priority    string
	Status      string
	DueDate     string
	UserEmail   string
	// Principal owns the task when UserEmail is empty.
	Principal string
}
