package client

import "strings"

const StatusAll = "all"
const StatusActive = "active"
const StatusCompleted = "completed"

// FilterState - локальное состояние фильтров поверх кэша задач.
// Применяется на каждое изменение без похода на сервер
type FilterState struct {
	Query    string
	Status   string // all | active | completed
	Category string
}

// ApplyFilter - чистая функция: для одного и того же списка и
// состояния фильтров результат совпадает с серверной выборкой.
// Порядок входного списка сохраняется
func ApplyFilter(tasks []Task, state FilterState) []Task {
	filtered := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if matches(t, state) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

func matches(t Task, state FilterState) bool {
	if state.Query != "" {
		needle := strings.ToLower(state.Query)
		inTitle := strings.Contains(strings.ToLower(t.Title), needle)
		inNote := t.Note != nil && strings.Contains(strings.ToLower(*t.Note), needle)
		if !inTitle && !inNote {
			return false
		}
	}

	if state.Status == StatusActive && t.Completed {
		return false
	}
	if state.Status == StatusCompleted && !t.Completed {
		return false
	}

	if state.Category != "" {
		if t.Category == nil || *t.Category != state.Category {
			return false
		}
	}

	return true
}

// LocalCategories - проекция различных категорий из кэша,
// то же самое сервер считает на GET /categories
func LocalCategories(tasks []Task) []string {
	seen := make(map[string]bool)
	categories := []string{}
	for _, t := range tasks {
		if t.Category == nil || *t.Category == "" {
			continue
		}
		if seen[*t.Category] {
			continue
		}
		seen[*t.Category] = true
		categories = append(categories, *t.Category)
	}
	return categories
}
