package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sngm3741/survey-services/api/internal/apperr"
	"github.com/sngm3741/survey-services/api/internal/store"
	"github.com/sngm3741/survey-services/api/internal/task/domain"
)

// DefaultStatus is assigned to tasks created without a status.
const DefaultStatus = "to-do"

type taskService struct {
	tasks      TaskRepository
	activities ActivityRepository
	now        func() time.Time
}

// NewTaskService wires task use-cases to their repositories.
func NewTaskService(tasks TaskRepository, activities ActivityRepository) TaskService {
	return &taskService{tasks: tasks, activities: activities, now: time.Now}
}

func (s *taskService) List(ctx context.Context, filter TaskFilter) ([]domain.Task, error) {
	filter.UserEmail = strings.TrimSpace(filter.UserEmail)
	filter.Status = strings.TrimSpace(filter.Status)
	return s.tasks.Find(ctx, filter)
}

func (s *taskService) Get(ctx context.Context, id string) (*domain.Task, error) {
	return s.tasks.FindByID(ctx, strings.TrimSpace(id))
}

func (s *taskService) Create(ctx context.Context, cmd CreateTaskCommand) (store.InsertResult, error) {
	title := strings.TrimSpace(cmd.Title)
	if title == "" {
		return store.InsertResult{}, fmt.Errorf("%w: title is required", apperr.ErrInvalidInput)
	}
	owner := strings.TrimSpace(cmd.UserEmail)
	if owner == "" {
		owner = strings.TrimSpace(cmd.Principal)
	}
	status := strings.TrimSpace(cmd.Status)
	if status == "" {
		status = DefaultStatus
	}

	task := &domain.Task{
		Title:       title,
		Description: strings.TrimSpace(cmd.Description),
		Priority:    strings.TrimSpace(cmd.Priority),
		Status:      status,
		DueDate:     strings.TrimSpace(cmd.DueDate),
		UserEmail:   owner,
		Timestamp:   s.now().UTC(),
	}
	return s.tasks.Insert(ctx, task)
}

func (s *taskService) Update(ctx context.Context, id string, patch TaskPatch, principal string) (store.UpdateResult, error) {
	id = strings.TrimSpace(id)
	principal = strings.TrimSpace(principal)
	if err := s.checkOwner(ctx, id, principal); err != nil {
		return store.UpdateResult{}, err
	}

	defaults := &domain.Task{
		Status:    DefaultStatus,
		UserEmail: principal,
		Timestamp: s.now().UTC(),
	}
	return s.tasks.UpdateByID(ctx, id, patch, defaults, true)
}

func (s *taskService) Delete(ctx context.Context, id, principal string) (store.DeleteResult, error) {
	id = strings.TrimSpace(id)
	if err := s.checkOwner(ctx, id, strings.TrimSpace(principal)); err != nil {
		return store.DeleteResult{}, err
	}
	return s.tasks.DeleteByID(ctx, id)
}

// checkOwner passes for missing tasks so upserts and repeated deletes keep working.
func (s *taskService) checkOwner(ctx context.Context, id, principal string) error {
	task, err := s.tasks.FindByID(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !task.OwnedBy(principal) {
		return apperr.ErrForbidden
	}
	return nil
}

func (s *taskService) AddActivity(ctx context.Context, taskID, name string) (store.InsertResult, error) {
	taskID = strings.TrimSpace(taskID)
	name = strings.TrimSpace(name)
	if taskID == "" || name == "" {
		return store.InsertResult{}, fmt.Errorf("%w: task id and name are required", apperr.ErrInvalidInput)
	}
	activity := &domain.Activity{
		TaskID:    taskID,
		Name:      name,
		CreatedAt: s.now().UTC(),
	}
	return s.activities.Insert(ctx, activity)
}

// Activities only returns entries recorded against taskID.
func (s *taskService) Activities(ctx context.Context, taskID string) ([]domain.Activity, error) {
	return s.activities.FindByTask(ctx, strings.TrimSpace(taskID))
}

func (s *taskService) RenameActivity(ctx context.Context, id, name string) (store.UpdateResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return store.UpdateResult{}, fmt.Errorf("%w: name is required", apperr.ErrInvalidInput)
	}
	return s.activities.Rename(ctx, strings.TrimSpace(id), name)
}

func (s *taskService) DeleteActivity(ctx context.Context, id string) (store.DeleteResult, error) {
	return s.activities.DeleteByID(ctx, strings.TrimSpace(id))
}
