package service

import (
	"context"
	"taskManager/internal/models/task"
)

type TaskRepository interface {
	Create(ctx context.Context, t *task.Task) error
	Update(ctx context.Context, t *task.Task) error
	GetByID(ctx context.Context, id int64) (*task.Task, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter task.ListFilter) ([]*task.Task, error)
	Categories(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (*task.Stats, error)
	Ping(ctx context.Context) error
}
