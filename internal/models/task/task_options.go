package task

import "time"

type Option func(*Task)

func WithTitle(title string) Option {
	if title == "" {
		return nil
	}
	return func(t *Task) {
		t.Title = title
	}
}

func WithDescription(description string) Option {
	return func(t *Task) {
		t.Description = description
	}
}

func WithStatus(status Status) Option {
	if !status.Known() {
		return nil
	}
	return func(t *Task) {
		t.Status = status
	}
}

// WithDeadline принимает nil для сброса дедлайна
func WithDeadline(deadline *time.Time) Option {
	return func(t *Task) {
		t.Deadline = deadline
	}
}

func WithPriority(priority Priority) Option {
	if !priority.Known() {
		return nil
	}
	return func(t *Task) {
		t.Priority = priority
	}
}

func WithCategory(category string) Option {
	return func(t *Task) {
		t.Category = category
	}
}

func WithSubtasks(subtasks []string) Option {
	return func(t *Task) {
		t.Subtasks = subtasks
	}
}

func WithRemindedAt(at time.Time) Option {
	return func(t *Task) {
		t.RemindedAt = &at
	}
}
