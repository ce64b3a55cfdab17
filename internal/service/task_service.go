package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"taskManager/internal/logger"
	"taskManager/internal/models/task"
	rep "taskManager/internal/repository"

	"go.uber.org/zap"
)

// здесь происходит валидация входных данных и проверка ошибок бизнес-логики

const TitleMinLen = 3
const TitleMaxLen = 255
const NoteMaxLen = 1000
const CategoryMaxLen = 100

type TaskService struct {
	repo TaskRepository
}

func NewTaskService(repo TaskRepository) TaskService {
	return TaskService{
		repo: repo,
	}
}

// CreateParams - поля запроса на создание задачи.
// Приоритет необязателен, по умолчанию подставляется medium
type CreateParams struct {
	Title    string
	Note     *string
	Priority *task.Priority
	Category *string
}

// UpdateParams - частичное обновление: nil означает "поле не передано",
// такое поле не валидируется и не изменяется
type UpdateParams struct {
	Title     *string
	Note      *string
	Priority  *task.Priority
	Category  *string
	Completed *bool
}

func (s *TaskService) CreateTask(ctx context.Context, p CreateParams) (*task.Task, error) {
	fields := map[string][]string{}
	validateTitle(p.Title, fields)
	if p.Note != nil {
		validateNote(*p.Note, fields)
	}
	if p.Priority != nil {
		validatePriority(*p.Priority, fields)
	}
	if p.Category != nil {
		validateCategory(*p.Category, fields)
	}
	if len(fields) > 0 {
		logger.Warn("Service: Ошибка валидации при создании", zap.Int("fields", len(fields)))
		return nil, NewValidationError(fields)
	}

	newTask := &task.Task{
		Title:     p.Title,
		Note:      p.Note,
		Priority:  task.DefaultPriority,
		Category:  p.Category,
		Completed: false,
	}
	if p.Priority != nil {
		newTask.Priority = *p.Priority
	}

	if err := s.repo.Create(ctx, newTask); err != nil {
		return nil, fmt.Errorf("создание задачи: %w", err)
	}
	return newTask, nil
}

func (s *TaskService) ListTasks(ctx context.Context, filter task.ListFilter) ([]*task.Task, error) {
	tasks, err := s.repo.List(ctx, filter.Normalize())
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, id int64) (*task.Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.Int64("target_id", id))
			return nil, NewNotFound(id, err)
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return t, nil
}

// UpdateTask сначала валидирует все переданные поля, и только потом
// применяет их к задаче. Частично обновление не применяется никогда.
// Пустой набор полей - no-op, который всё равно обновляет updated_at
func (s *TaskService) UpdateTask(ctx context.Context, id int64, p UpdateParams) (*task.Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.Int64("target_id", id))
			return nil, NewNotFound(id, err)
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	fields := map[string][]string{}
	options := []task.TaskOption{}

	if p.Title != nil {
		validateTitle(*p.Title, fields)
		options = append(options, task.WithTitle(*p.Title))
	}
	if p.Note != nil {
		validateNote(*p.Note, fields)
		options = append(options, task.WithNote(p.Note))
	}
	if p.Priority != nil {
		validatePriority(*p.Priority, fields)
		options = append(options, task.WithPriority(*p.Priority))
	}
	if p.Category != nil {
		validateCategory(*p.Category, fields)
		options = append(options, task.WithCategory(p.Category))
	}
	if p.Completed != nil {
		options = append(options, task.WithCompleted(*p.Completed))
	}

	if len(fields) > 0 {
		logger.Warn("Service: Ошибка валидации при обновлении",
			zap.Int64("target_id", id),
			zap.Int("fields", len(fields)))
		return nil, NewValidationError(fields)
	}

	for _, opt := range options {
		opt(t)
	}

	if err := s.repo.Update(ctx, t); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return nil, NewNotFound(id, err)
		}
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}
	return t, nil
}

// ToggleTask переключает флаг выполнения задачи
func (s *TaskService) ToggleTask(ctx context.Context, id int64) (*task.Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.Int64("target_id", id))
			return nil, NewNotFound(id, err)
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	t.Completed = !t.Completed

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}
	return t, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.Int64("target_id", id))
			return NewNotFound(id, err)
		}
		return fmt.Errorf("удаление задачи: %w", err)
	}
	return nil
}

func (s *TaskService) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение категорий: %w", err)
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

func (s *TaskService) Stats(ctx context.Context) (*task.Stats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение статистики: %w", err)
	}
	return stats, nil
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func validateTitle(title string, fields map[string][]string) {
	length := utf8.RuneCountInString(title)
	if length < TitleMinLen || length > TitleMaxLen {
		fields["title"] = append(fields["title"],
			fmt.Sprintf("название должно быть от %d до %d символов", TitleMinLen, TitleMaxLen))
	}
}

func validateNote(note string, fields map[string][]string) {
	if utf8.RuneCountInString(note) > NoteMaxLen {
		fields["note"] = append(fields["note"],
			fmt.Sprintf("заметка не может быть длиннее %d символов", NoteMaxLen))
	}
}

func validatePriority(priority task.Priority, fields map[string][]string) {
	if !priority.Valid() {
		fields["priority"] = append(fields["priority"],
			"приоритет должен быть одним из: low, medium, high")
	}
}

func validateCategory(category string, fields map[string][]string) {
	if utf8.RuneCountInString(category) > CategoryMaxLen {
		fields["category"] = append(fields["category"],
			fmt.Sprintf("категория не может быть длиннее %d символов", CategoryMaxLen))
	}
}
