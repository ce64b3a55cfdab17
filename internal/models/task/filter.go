package task

import "strings"

type SortOrder string

const SortAsc SortOrder = "asc"
const SortDesc SortOrder = "desc"

const StatusCompleted = "completed"
const StatusActive = "active"

const SortByCreatedAt = "created_at"

// sortable перечисляет поля, по которым разрешена сортировка.
// Всё остальное молча откатывается к created_at
var sortable = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"title":      true,
	"priority":   true,
	"completed":  true,
}

// ListFilter - необязательные параметры выборки задач.
// Пустое значение поля означает "фильтр не применяется"
type ListFilter struct {
	Status    string
	Priority  Priority
	Category  string
	Search    string
	SortBy    string
	SortOrder SortOrder
}

// Normalize отбрасывает нераспознанные значения и подставляет
// сортировку по умолчанию. Неизвестные значения не являются ошибкой
func (f ListFilter) Normalize() ListFilter {
	if f.Status != StatusCompleted && f.Status != StatusActive {
		f.Status = ""
	}
	if !f.Priority.Valid() {
		f.Priority = ""
	}
	if !sortable[f.SortBy] {
		f.SortBy = SortByCreatedAt
	}
	if f.SortOrder != SortAsc {
		f.SortOrder = SortDesc
	}
	return f
}

// Matches проверяет задачу против нормализованного фильтра.
// Все условия объединяются по И, подстроки поиска по заголовку
// и заметке - по ИЛИ
func (f ListFilter) Matches(t *Task) bool {
	if f.Status == StatusCompleted && !t.Completed {
		return false
	}
	if f.Status == StatusActive && t.Completed {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.Category != "" && (t.Category == nil || *t.Category != f.Category) {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		inTitle := strings.Contains(strings.ToLower(t.Title), needle)
		inNote := t.Note != nil && strings.Contains(strings.ToLower(*t.Note), needle)
		if !inTitle && !inNote {
			return false
		}
	}
	return true
}
