package task_test

import (
	"testing"

	"taskManager/internal/models/task"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

// TestListFilter_Normalize проверяет, что нераспознанные значения
// отбрасываются, а не вызывают ошибку
func TestListFilter_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		filter   task.ListFilter
		expected task.ListFilter
	}{
		{
			name:   "empty filter - sort defaults",
			filter: task.ListFilter{},
			expected: task.ListFilter{
				SortBy:    "created_at",
				SortOrder: task.SortDesc,
			},
		},
		{
			name: "recognized values pass through",
			filter: task.ListFilter{
				Status:    "completed",
				Priority:  task.PriorityHigh,
				Category:  "work",
				Search:    "milk",
				SortBy:    "title",
				SortOrder: task.SortAsc,
			},
			expected: task.ListFilter{
				Status:    "completed",
				Priority:  task.PriorityHigh,
				Category:  "work",
				Search:    "milk",
				SortBy:    "title",
				SortOrder: task.SortAsc,
			},
		},
		{
			name: "unknown values dropped",
			filter: task.ListFilter{
				Status:    "archived",
				Priority:  "urgent",
				SortBy:    "note; DROP TABLE tasks",
				SortOrder: "sideways",
			},
			expected: task.ListFilter{
				SortBy:    "created_at",
				SortOrder: task.SortDesc,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.filter.Normalize())
		})
	}
}

func TestListFilter_Matches(t *testing.T) {
	target := &task.Task{
		Title:     "Buy Milk",
		Note:      strPtr("two litres, LACTOSE free"),
		Priority:  task.PriorityHigh,
		Category:  strPtr("groceries"),
		Completed: false,
	}

	tests := []struct {
		name    string
		filter  task.ListFilter
		matches bool
	}{
		{"empty filter matches everything", task.ListFilter{}, true},
		{"active matches pending task", task.ListFilter{Status: task.StatusActive}, true},
		{"completed rejects pending task", task.ListFilter{Status: task.StatusCompleted}, false},
		{"priority exact match", task.ListFilter{Priority: task.PriorityHigh}, true},
		{"priority mismatch", task.ListFilter{Priority: task.PriorityLow}, false},
		{"category exact match", task.ListFilter{Category: "groceries"}, true},
		{"category mismatch", task.ListFilter{Category: "work"}, false},
		{"search hits title case-insensitively", task.ListFilter{Search: "MILK"}, true},
		{"search hits note case-insensitively", task.ListFilter{Search: "lactose"}, true},
		{"search miss", task.ListFilter{Search: "bread"}, false},
		{"all dimensions are ANDed", task.ListFilter{Status: task.StatusActive, Priority: task.PriorityHigh, Search: "milk"}, true},
		{"one failing dimension rejects", task.ListFilter{Status: task.StatusActive, Priority: task.PriorityLow, Search: "milk"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.matches, tt.filter.Normalize().Matches(target))
		})
	}
}

func TestListFilter_Matches_NoNote(t *testing.T) {
	noNote := &task.Task{Title: "call mom", Priority: task.PriorityMedium}

	assert.True(t, task.ListFilter{Search: "call"}.Normalize().Matches(noNote))
	assert.False(t, task.ListFilter{Search: "milk"}.Normalize().Matches(noNote))
	assert.False(t, task.ListFilter{Category: "home"}.Normalize().Matches(noNote))
}
