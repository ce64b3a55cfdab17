package inmemory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"taskManager/internal/models/task"
	repo "taskManager/internal/repository"
)

// TaskStorage - хранилище в памяти для разработки и тестов.
// Порядок вставки сохраняется и служит вторичным ключом сортировки
type TaskStorage struct {
	storage map[int64]*task.Task
	order   []int64
	seq     int64
	mtx     *sync.RWMutex
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[int64]*task.Task),
		order:   make([]int64, 0),
		mtx:     &sync.RWMutex{},
	}
}

func (s *TaskStorage) Create(ctx context.Context, t *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.seq++
	now := time.Now()

	t.ID = s.seq
	t.CreatedAt = now
	t.UpdatedAt = now

	stored := *t
	s.storage[t.ID] = &stored
	s.order = append(s.order, t.ID)
	return nil
}

func (s *TaskStorage) Update(ctx context.Context, t *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[t.ID]; !ok {
		return repo.ErrNotFound
	}

	t.UpdatedAt = time.Now()
	stored := *t
	s.storage[t.ID] = &stored
	return nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id int64) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	stored, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}

	t := *stored
	return &t, nil
}

func (s *TaskStorage) Delete(ctx context.Context, id int64) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return repo.ErrNotFound
	}

	delete(s.storage, id)
	for i, storedID := range s.order {
		if storedID == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *TaskStorage) List(ctx context.Context, filter task.ListFilter) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	filter = filter.Normalize()

	tasks := make([]*task.Task, 0)
	for _, id := range s.order {
		stored := s.storage[id]
		if !filter.Matches(stored) {
			continue
		}
		t := *stored
		tasks = append(tasks, &t)
	}

	sortTasks(tasks, filter.SortBy, filter.SortOrder)
	return tasks, nil
}

func (s *TaskStorage) Categories(ctx context.Context) ([]string, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	seen := make(map[string]bool)
	categories := []string{}
	for _, id := range s.order {
		t := s.storage[id]
		if t.Category == nil || *t.Category == "" {
			continue
		}
		if seen[*t.Category] {
			continue
		}
		seen[*t.Category] = true
		categories = append(categories, *t.Category)
	}
	return categories, nil
}

func (s *TaskStorage) Stats(ctx context.Context) (*task.Stats, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	stats := task.NewStats()
	seen := make(map[string]bool)

	for _, id := range s.order {
		t := s.storage[id]
		stats.Total++
		if t.Completed {
			stats.Completed++
		}
		stats.ByPriority[t.Priority]++
		if t.Category != nil && *t.Category != "" && !seen[*t.Category] {
			seen[*t.Category] = true
			stats.Categories = append(stats.Categories, *t.Category)
		}
	}

	stats.Pending = stats.Total - stats.Completed
	return stats, nil
}

func (s *TaskStorage) Ping(ctx context.Context) error {
	return nil
}

// sortTasks сортирует устойчиво, поэтому при равенстве ключей
// сохраняется порядок вставки
func sortTasks(tasks []*task.Task, sortBy string, order task.SortOrder) {
	less := func(a, b *task.Task) bool {
		switch sortBy {
		case "title":
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		case "priority":
			return a.Priority < b.Priority
		case "completed":
			return !a.Completed && b.Completed
		case "updated_at":
			return a.UpdatedAt.Before(b.UpdatedAt)
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		if order == task.SortDesc {
			return less(tasks[j], tasks[i])
		}
		return less(tasks[i], tasks[j])
	})
}
