package domain

import "time"

// Task is a to-do item owned by a user.
type Task struct {
	ID          string
	Title       string
	Description string
	Priority    string
	Status      string
	DueDate     string
	UserEmail   string
	Timestamp   time.Time
}

// OwnedBy reports whether email may modify the task. Tasks without an owner are open to anyone.
func (t *Task) OwnedBy(email string) bool {
	if t == nil {
		return false
	}
	return t.UserEmail == "" || t.UserEmail == email
}

// Activity is a log line attached to a task.
type Activity struct {
	ID        string
	TaskID    string
	Name      string
	CreatedAt time.Time
}
