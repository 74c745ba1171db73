package memstore

import (
	"context"

	"github.com/sngm3741/survey-services/api/internal/apperr"
	"github.com/sngm3741/survey-services/api/internal/store"
	"github.com/sngm3741/survey-services/api/internal/task/application"
	"github.com/sngm3741/survey-services/api/internal/task/domain"
)

// TaskRepository implements application.TaskRepository.
type TaskRepository struct {
	s *Store
}

func (r *TaskRepository) Find(_ context.Context, filter application.TaskFilter) ([]domain.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Task, 0)
	for _, task := range r.s.tasks {
		if filter.UserEmail != "" && task.UserEmail != filter.UserEmail {
			continue
		}
		if filter.Status != "" && task.Status != filter.Status {
			continue
		}
		out = append(out, task)
	}
	sortNewestFirst(out, func(t domain.Task) int64 { return t.Timestamp.UnixNano() })
	return out, nil
}

func (r *TaskRepository) FindByID(_ context.Context, id string) (*domain.Task, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if i := r.indexOf(id); i >= 0 {
		task := r.s.tasks[i]
		return &task, nil
	}
	return nil, apperr.ErrNotFound
}

func (r *TaskRepository) Insert(_ context.Context, task *domain.Task) (store.InsertResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := *task
	stored.ID = newID()
	r.s.tasks = append(r.s.tasks, stored)
	return store.InsertResult{InsertedID: stored.ID}, nil
}

func (r *TaskRepository) UpdateByID(_ context.Context, id string, patch application.TaskPatch, defaults *domain.Task, upsert bool) (store.UpdateResult, error) {
	if err := checkID(id); err != nil {
		return store.UpdateResult{}, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		if !upsert {
			return store.UpdateResult{}, nil
		}
		created := domain.Task{}
		if defaults != nil {
			created = *defaults
		}
		created.ID = id
		applyTaskPatch(&created, patch)
		r.s.tasks = append(r.s.tasks, created)
		return store.UpdateResult{UpsertedCount: 1, UpsertedID: id}, nil
	}

	before := r.s.tasks[i]
	applyTaskPatch(&r.s.tasks[i], patch)
	result := store.UpdateResult{MatchedCount: 1}
	if before != r.s.tasks[i] {
		result.ModifiedCount = 1
	}
	return result, nil
}

func (r *TaskRepository) DeleteByID(_ context.Context, id string) (store.DeleteResult, error) {
	if err := checkID(id); err != nil {
		return store.DeleteResult{}, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if i := r.indexOf(id); i >= 0 {
		r.s.tasks = append(r.s.tasks[:i], r.s.tasks[i+1:]...)
		return store.DeleteResult{DeletedCount: 1}, nil
	}
	return store.DeleteResult{}, nil
}

// Seed stores tasks as-is, assigning ids where missing, and returns the ids.
func (r *TaskRepository) Seed(tasks ...domain.Task) []string {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := make([]string, 0, len(tasks))
	for _, task := range tasks {
		if task.ID == "" {
			task.ID = newID()
		}
		r.s.tasks = append(r.s.tasks, task)
		ids = append(ids, task.ID)
	}
	return ids
}

func (r *TaskRepository) indexOf(id string) int {
	for i, task := range r.s.tasks {
		if task.ID == id {
			return i
		}
	}
	return -1
}

func applyTaskPatch(task *domain.Task, patch application.TaskPatch) {
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
	if patch.DueDate != nil {
		task.DueDate = *patch.DueDate
	}
}

// ActivityRepository implements application.ActivityRepository.
type ActivityRepository struct {
	s *Store
}

func (r *ActivityRepository) Insert(_ context.Context, activity *domain.Activity) (store.InsertResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := *activity
	stored.ID = newID()
	r.s.activities = append(r.s.activities, stored)
	return store.InsertResult{InsertedID: stored.ID}, nil
}

func (r *ActivityRepository) FindByTask(_ context.Context, taskID string) ([]domain.Activity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Activity, 0)
	for _, activity := range r.s.activities {
		if activity.TaskID == taskID {
			out = append(out, activity)
		}
	}
	return out, nil
}

func (r *ActivityRepository) Rename(_ context.Context, id, name string) (store.UpdateResult, error) {
	if err := checkID(id); err != nil {
		return store.UpdateResult{}, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.activities {
		if r.s.activities[i].ID != id {
			continue
		}
		result := store.UpdateResult{MatchedCount: 1}
		if r.s.activities[i].Name != name {
			r.s.activities[i].Name = name
			result.ModifiedCount = 1
		}
		return result, nil
	}
	return store.UpdateResult{}, nil
}

func (r *ActivityRepository) DeleteByID(_ context.Context, id string) (store.DeleteResult, error) {
	if err := checkID(id); err != nil {
		return store.DeleteResult{}, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, activity := range r.s.activities {
		if activity.ID == id {
			r.s.activities = append(r.s.activities[:i], r.s.activities[i+1:]...)
			return store.DeleteResult{DeletedCount: 1}, nil
		}
	}
	return store.DeleteResult{}, nil
}
