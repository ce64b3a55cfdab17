package task

import (
	"time"
)

type Task struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Note      *string   `json:"note" db:"note"`
	Priority  Priority  `json:"priority" db:"priority"`
	Category  *string   `json:"category" db:"category"`
	Completed bool      `json:"completed" db:"completed"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type Priority string

const PriorityLow Priority = "low"
const PriorityMedium Priority = "medium"
const PriorityHigh Priority = "high"

// DefaultPriority подставляется, если приоритет не передан при создании
const DefaultPriority = PriorityMedium

func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

type Stats struct {
	Total      int              `json:"total"`
	Completed  int              `json:"completed"`
	Pending    int              `json:"pending"`
	ByPriority map[Priority]int `json:"by_priority"`
	Categories []string         `json:"categories"`
}

// NewStats возвращает статистику с нулями для всех трёх приоритетов,
// чтобы в ответе всегда были все ключи
func NewStats() *Stats {
	return &Stats{
		ByPriority: map[Priority]int{
			PriorityLow:    0,
			PriorityMedium: 0,
			PriorityHigh:   0,
		},
		Categories: []string{},
	}
}
