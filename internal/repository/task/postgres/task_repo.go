package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskManager/internal/logger"
	"taskManager/internal/migrations"
	"taskManager/internal/models/task"
	repo "taskManager/internal/repository"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const slowQuery = time.Millisecond * 100

type Storage struct {
	pool       *pgxpool.Pool
	connString string
}

func New(ctx context.Context, connString string) (*Storage, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnIdleTime = time.Minute * 5

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	logger.Info("Repository: Успешное создание подключения к PostgreSQL")
	return &Storage{pool: pool, connString: connString}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: Закрытие всех соединений PostgreSQL")
}

func (s *Storage) Ping(ctx context.Context) error {
	err := s.pool.Ping(ctx)
	if err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

// Migrate применяет встроенные миграции через golang-migrate
func (s *Storage) Migrate() error {
	logger.Info("Repository: Применение миграций")

	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		logger.Error("Repository: Ошибка чтения миграций", err)
		return fmt.Errorf("чтение миграций: %w", err)
	}

	// у golang-migrate своя схема URL для драйвера pgx/v5
	url := strings.Replace(s.connString, "postgres://", "pgx5://", 1)

	m, err := migrate.NewWithSourceInstance("iofs", source, url)
	if err != nil {
		logger.Error("Repository: Ошибка инициализации миграций", err)
		return fmt.Errorf("инициализация миграций: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("Repository: Ошибка применения миграций", err)
		return fmt.Errorf("применение миграций: %w", err)
	}

	logger.Info("Repository: Миграции применены")
	return nil
}

func (s *Storage) Create(ctx context.Context, t *task.Task) error {
	start := time.Now()

	query := `INSERT INTO tasks
				(title, note, priority, category, completed)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id, created_at, updated_at`

	err := s.pool.QueryRow(ctx, query,
		t.Title,
		t.Note,
		t.Priority,
		t.Category,
		t.Completed,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)

	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", err)
	}

	if time.Since(start) > slowQuery {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *Storage) Update(ctx context.Context, t *task.Task) error {
	start := time.Now()

	query := `UPDATE tasks
			SET title = $1,
				note = $2,
				priority = $3,
				category = $4,
				completed = $5,
				updated_at = NOW()
			WHERE id = $6
			RETURNING updated_at`

	err := s.pool.QueryRow(ctx, query,
		t.Title,
		t.Note,
		t.Priority,
		t.Category,
		t.Completed,
		t.ID,
	).Scan(&t.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось обновить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("обновление задачи: %w", err)
	}

	if time.Since(start) > slowQuery {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *Storage) GetByID(ctx context.Context, id int64) (*task.Task, error) {
	start := time.Now()

	query := `SELECT
				id,
				title,
				note,
				priority,
				category,
				completed,
				created_at,
				updated_at
				FROM tasks
				WHERE id = $1`

	t := &task.Task{}
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&t.ID,
		&t.Title,
		&t.Note,
		&t.Priority,
		&t.Category,
		&t.Completed,
		&t.CreatedAt,
		&t.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	if time.Since(start) > slowQuery {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}

	return t, nil
}

func (s *Storage) Delete(ctx context.Context, id int64) error {
	start := time.Now()

	query := `DELETE FROM tasks
				WHERE id = $1`

	tag, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		logger.Error("Repository: Удаление задачи", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("удаление задачи: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	if time.Since(start) > slowQuery {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}

	return nil
}

// List строит запрос из нормализованного фильтра: условия соединяются
// по AND, поиск идёт по title ИЛИ note без учёта регистра.
// Поле сортировки подставляется только из белого списка
func (s *Storage) List(ctx context.Context, filter task.ListFilter) ([]*task.Task, error) {
	start := time.Now()
	filter = filter.Normalize()

	query := `SELECT
				id,
				title,
				note,
				priority,
				category,
				completed,
				created_at,
				updated_at
				FROM tasks`

	conditions := []string{}
	args := []any{}

	if filter.Status == task.StatusCompleted {
		conditions = append(conditions, "completed = TRUE")
	}
	if filter.Status == task.StatusActive {
		conditions = append(conditions, "completed = FALSE")
	}
	if filter.Priority != "" {
		args = append(args, filter.Priority)
		conditions = append(conditions, fmt.Sprintf("priority = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions,
			fmt.Sprintf("(title ILIKE $%d OR note ILIKE $%d)", len(args), len(args)))
	}

	if len(conditions) > 0 {
		query += "\n\t\t\t\tWHERE " + strings.Join(conditions, " AND ")
	}

	direction := "DESC"
	if filter.SortOrder == task.SortAsc {
		direction = "ASC"
	}
	query += fmt.Sprintf("\n\t\t\t\tORDER BY %s %s, id ASC", filter.SortBy, direction)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}

	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		t := &task.Task{}

		err := rows.Scan(
			&t.ID,
			&t.Title,
			&t.Note,
			&t.Priority,
			&t.Category,
			&t.Completed,
			&t.CreatedAt,
			&t.UpdatedAt,
		)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования задачи", zap.Error(err))
			continue
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	if time.Since(start) > slowQuery {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}

	return tasks, nil
}

// Categories - вычисляемая проекция: отдельной таблицы категорий нет
func (s *Storage) Categories(ctx context.Context) ([]string, error) {
	start := time.Now()

	query := `SELECT DISTINCT category FROM tasks
				WHERE category IS NOT NULL AND category <> ''`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		logger.Error("Repository: Не удалось получить категории", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение категорий: %w", err)
	}

	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			logger.Warn("Repository: Ошибка сканирования категории", zap.Error(err))
			continue
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	return categories, nil
}

func (s *Storage) Stats(ctx context.Context) (*task.Stats, error) {
	start := time.Now()

	query := `SELECT
				COUNT(*),
				COUNT(*) FILTER (WHERE completed),
				COUNT(*) FILTER (WHERE priority = 'low'),
				COUNT(*) FILTER (WHERE priority = 'medium'),
				COUNT(*) FILTER (WHERE priority = 'high')
				FROM tasks`

	stats := task.NewStats()

	var low, medium, high int
	err := s.pool.QueryRow(ctx, query).Scan(
		&stats.Total,
		&stats.Completed,
		&low,
		&medium,
		&high,
	)
	if err != nil {
		logger.Error("Repository: Не удалось получить статистику", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение статистики: %w", err)
	}

	stats.Pending = stats.Total - stats.Completed
	stats.ByPriority[task.PriorityLow] = low
	stats.ByPriority[task.PriorityMedium] = medium
	stats.ByPriority[task.PriorityHigh] = high

	categories, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}
	stats.Categories = categories

	if time.Since(start) > slowQuery {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}

	return stats, nil
}
