package task

import (
	"time"

	"github.com/sngm3741/survey-services/api/internal/task/domain"
)

type taskResponse struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	DueDate     string    `json:"dueDate"`
	UserEmail   string    `json:"userEmail"`
	Timestamp   time.Time `json:"timestamp"`
}

type taskCreateRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	DueDate     string `json:"dueDate"`
	UserEmail   string `json:"userEmail" validate:"omitempty,email"`
}

type taskUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
	DueDate     *string `json:"dueDate"`
}

type activityRequest struct {
	Name string `json:"name" validate:"required"`
}

type activityResponse struct {
	ID        string    `json:"_id"`
	TaskID    string    `json:"task_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func taskToResponse(t domain.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Status:      t.Status,
		DueDate:     t.DueDate,
		UserEmail:   t.UserEmail,
		Timestamp:   t.Timestamp,
	}
}

func tasksToResponse(tasks []domain.Task) []taskResponse {
	items := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, taskToResponse(t))
	}
	return items
}

func activitiesToResponse(activities []domain.Activity) []activityResponse {
	items := make([]activityResponse, 0, len(activities))
	for _, a := range activities {
		items = append(items, activityResponse{ID: a.ID, TaskID: a.TaskID, Name: a.Name, CreatedAt: a.CreatedAt})
	}
	return items
}
