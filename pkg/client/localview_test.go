package client_test

import (
	"testing"

	"taskManager/pkg/client"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func sampleTasks() []client.Task {
	return []client.Task{
		{ID: 1, Title: "купить молоко", Priority: "high", Category: strPtr("продукты")},
		{ID: 2, Title: "сдать отчёт", Priority: "high", Category: strPtr("работа"), Completed: true},
		{ID: 3, Title: "помыть машину", Priority: "low", Completed: true},
		{ID: 4, Title: "заметка", Note: strPtr("про Молоко"), Priority: "medium", Category: strPtr("продукты")},
	}
}

func ids(tasks []client.Task) []int64 {
	out := make([]int64, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestApplyFilter(t *testing.T) {
	tasks := sampleTasks()

	tests := []struct {
		name        string
		state       client.FilterState
		expectedIDs []int64
	}{
		{
			name:        "empty state keeps everything in order",
			state:       client.FilterState{},
			expectedIDs: []int64{1, 2, 3, 4},
		},
		{
			name:        "status all is a no-op",
			state:       client.FilterState{Status: client.StatusAll},
			expectedIDs: []int64{1, 2, 3, 4},
		},
		{
			name:        "active drops completed",
			state:       client.FilterState{Status: client.StatusActive},
			expectedIDs: []int64{1, 4},
		},
		{
			name:        "completed drops active",
			state:       client.FilterState{Status: client.StatusCompleted},
			expectedIDs: []int64{2, 3},
		},
		{
			name:        "query hits title and note, case-insensitive",
			state:       client.FilterState{Query: "МОЛОКО"},
			expectedIDs: []int64{1, 4},
		},
		{
			name:        "category exact match",
			state:       client.FilterState{Category: "работа"},
			expectedIDs: []int64{2},
		},
		{
			name:        "dimensions are ANDed",
			state:       client.FilterState{Query: "молоко", Status: client.StatusActive, Category: "продукты"},
			expectedIDs: []int64{1, 4},
		},
		{
			name:        "one failing dimension rejects",
			state:       client.FilterState{Query: "молоко", Status: client.StatusCompleted},
			expectedIDs: []int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := client.ApplyFilter(tasks, tt.state)
			assert.Equal(t, tt.expectedIDs, ids(got))
		})
	}
}

func TestApplyFilter_DoesNotMutateInput(t *testing.T) {
	tasks := sampleTasks()

	_ = client.ApplyFilter(tasks, client.FilterState{Status: client.StatusActive})

	assert.Equal(t, sampleTasks(), tasks)
}

func TestLocalCategories(t *testing.T) {
	categories := client.LocalCategories(sampleTasks())

	// порядок первого появления, дубликаты и пустые значения выброшены
	assert.Equal(t, []string{"продукты", "работа"}, categories)
}

func TestLocalCategories_Empty(t *testing.T) {
	assert.Empty(t, client.LocalCategories(nil))
	assert.Empty(t, client.LocalCategories([]client.Task{
		{ID: 1, Title: "без категории"},
		{ID: 2, Title: "пустая", Category: strPtr("")},
	}))
}

func TestCache(t *testing.T) {
	t.Run("load replaces contents", func(t *testing.T) {
		cache := client.NewCache()
		cache.Load(sampleTasks())

		assert.Len(t, cache.Tasks(), 4)

		cache.Load([]client.Task{{ID: 9, Title: "одна"}})
		assert.Equal(t, []int64{9}, ids(cache.Tasks()))
	})

	t.Run("upsert replaces by id, appends unknown", func(t *testing.T) {
		cache := client.NewCache()
		cache.Load(sampleTasks())

		cache.Upsert(client.Task{ID: 2, Title: "отчёт переделан", Priority: "low"})
		cache.Upsert(client.Task{ID: 5, Title: "новая", Priority: "medium"})

		tasks := cache.Tasks()
		assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids(tasks))
		assert.Equal(t, "отчёт переделан", tasks[1].Title)
	})

	t.Run("remove", func(t *testing.T) {
		cache := client.NewCache()
		cache.Load(sampleTasks())

		cache.Remove(3)
		assert.Equal(t, []int64{1, 2, 4}, ids(cache.Tasks()))

		// удаление неизвестного id ничего не ломает
		cache.Remove(999)
		assert.Len(t, cache.Tasks(), 3)
	})

	t.Run("tasks returns a copy", func(t *testing.T) {
		cache := client.NewCache()
		cache.Load(sampleTasks())

		snapshot := cache.Tasks()
		snapshot[0].Title = "изменено снаружи"

		assert.Equal(t, "купить молоко", cache.Tasks()[0].Title)
	})

	t.Run("view filters the cache", func(t *testing.T) {
		cache := client.NewCache()
		cache.Load(sampleTasks())

		view := cache.View(client.FilterState{Status: client.StatusCompleted})
		assert.Equal(t, []int64{2, 3}, ids(view))
	})
}
