package task

type TaskOption func(*Task)

func WithTitle(title string) TaskOption {
	return func(task *Task) {
		task.Title = title
	}
}

func WithNote(note *string) TaskOption {
	return func(task *Task) {
		task.Note = note
	}
}

func WithPriority(priority Priority) TaskOption {
	return func(task *Task) {
		task.Priority = priority
	}
}

func WithCategory(category *string) TaskOption {
	return func(task *Task) {
		task.Category = category
	}
}

func WithCompleted(completed bool) TaskOption {
	return func(task *Task) {
		task.Completed = completed
	}
}
