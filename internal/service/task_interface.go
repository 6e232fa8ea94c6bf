package service

import (
	"context"
	"time"

	"taskPlanner/internal/models/task"

	"github.com/google/uuid"
)

type TaskRepository interface {
	HealthCheck(ctx context.Context) error
	Create(ctx context.Context, t *task.Task) error
	Update(ctx context.Context, t *task.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error)
	DeleteSoft(ctx context.Context, t *task.Task) error
	DeleteFull(ctx context.Context, id uuid.UUID) error
	GetFiltered(ctx context.Context, filter task.Filter, page, limit int) ([]*task.Task, error)
	GetTasksDueBefore(ctx context.Context, cutoff time.Time, limit int) ([]*task.Task, error)
	Stats(ctx context.Context) (*task.Stats, error)
}
