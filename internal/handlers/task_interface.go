package handlers

import (
	"context"

	"taskPlanner/internal/models/task"
	"taskPlanner/internal/normalizer"
	"taskPlanner/internal/service"

	"github.com/google/uuid"
)

type TaskService interface {
	HealthCheck(ctx context.Context) error
	CreateTask(ctx context.Context, raw normalizer.RawDraft) (*task.Task, error)
	GetTaskByID(ctx context.Context, id uuid.UUID) (*task.Task, error)
	GetTasks(ctx context.Context, filter task.Filter, page, limit int) ([]*task.Task, error)
	UpdateTask(ctx context.Context, id uuid.UUID, upd service.TaskUpdate) (*task.Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error
	PurgeTask(ctx context.Context, id uuid.UUID) error
	GetStats(ctx context.Context) (*task.Stats, error)
}

type AIService interface {
	Configured() bool
	ParseTask(ctx context.Context, input string) (*normalizer.Draft, error)
	CreateTaskFromText(ctx context.Context, input string) (*task.Task, error)
	SuggestSubtasks(ctx context.Context, raw normalizer.RawDraft) (*normalizer.Draft, error)
	PrioritizeTasks(ctx context.Context, ids []uuid.UUID) ([]*task.Task, error)
	GenerateSummary(ctx context.Context, period string) (*service.Summary, error)
}
