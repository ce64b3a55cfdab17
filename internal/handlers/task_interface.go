package handlers

import (
	"context"

	"taskManager/internal/models/task"
	"taskManager/internal/service"
)

type Service interface {
	CreateTask(ctx context.Context, p service.CreateParams) (*task.Task, error)
	ListTasks(ctx context.Context, filter task.ListFilter) ([]*task.Task, error)
	GetTaskByID(ctx context.Context, id int64) (*task.Task, error)
	UpdateTask(ctx context.Context, id int64, p service.UpdateParams) (*task.Task, error)
	ToggleTask(ctx context.Context, id int64) (*task.Task, error)
	DeleteTask(ctx context.Context, id int64) error
	Categories(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (*task.Stats, error)
	HealthCheck(ctx context.Context) error
}
