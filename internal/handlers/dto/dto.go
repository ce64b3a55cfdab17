package dto

import (
	"time"

	"taskManager/internal/models/task"
)

type CreateTaskRequest struct {
	Title    string         `json:"title"`
	Note     *string        `json:"note,omitempty"`
	Priority *task.Priority `json:"priority,omitempty"`
	Category *string        `json:"category,omitempty"`
}

type UpdateTaskRequest struct {
	Title     *string        `json:"title,omitempty"`
	Note      *string        `json:"note,omitempty"`
	Priority  *task.Priority `json:"priority,omitempty"`
	Category  *string        `json:"category,omitempty"`
	Completed *bool          `json:"completed,omitempty"`
}

type TaskResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Note      *string   `json:"note"`
	Priority  string    `json:"priority"`
	Category  *string   `json:"category"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ErrorResponse - единый формат ошибки: message всегда,
// errors только для ошибок валидации (поле -> список сообщений)
type ErrorResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func FromTask(t *task.Task) TaskResponse {
	return TaskResponse{
		ID:        t.ID,
		Title:     t.Title,
		Note:      t.Note,
		Priority:  string(t.Priority),
		Category:  t.Category,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func FromTaskList(tasks []*task.Task) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t)
	}
	return result
}
