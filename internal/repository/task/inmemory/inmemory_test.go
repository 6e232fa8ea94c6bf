package inmemory_test

import (
	"context"
	"testing"
	"time"

	"taskPlanner/internal/models/task"
	rep "taskPlanner/internal/repository"
	"taskPlanner/internal/repository/task/inmemory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTask(title string) *task.Task {
	return &task.Task{
		UUID:     uuid.New(),
		Title:    title,
		Priority: task.PriorityMedium,
		Status:   task.StatusPending,
	}
}

func TestTaskStorage_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	created := newTask("первая задача")
	require.NoError(t, storage.Create(ctx, created))

	assert.Equal(t, task.FlagActive, created.Flag)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := storage.GetByID(ctx, created.UUID)
	require.NoError(t, err)
	assert.Equal(t, "первая задача", got.Title)

	_, err = storage.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, rep.ErrNotFound)
}

func TestTaskStorage_Create_DefaultStatus(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	created := &task.Task{UUID: uuid.New(), Title: "без статуса"}
	require.NoError(t, storage.Create(ctx, created))
	assert.Equal(t, task.StatusPending, created.Status)
}

func TestTaskStorage_Update(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	created := newTask("задача")
	require.NoError(t, storage.Create(ctx, created))

	created.Title = "обновлённая"
	require.NoError(t, storage.Update(ctx, created))
	assert.Equal(t, 1, created.Version)
	assert.NotNil(t, created.UpdatedAt)

	t.Run("error - version conflict", func(t *testing.T) {
		stale := *created
		stale.Version = 0
		assert.ErrorIs(t, storage.Update(ctx, &stale), rep.ErrVersionConflict)
	})

	t.Run("error - not found", func(t *testing.T) {
		missing := newTask("нет такой")
		assert.ErrorIs(t, storage.Update(ctx, missing), rep.ErrNotFound)
	})
}

func TestTaskStorage_DeleteSoft(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	created := newTask("задача")
	require.NoError(t, storage.Create(ctx, created))
	require.NoError(t, storage.DeleteSoft(ctx, created))

	got, err := storage.GetByID(ctx, created.UUID)
	require.NoError(t, err)
	assert.Equal(t, task.FlagDeleted, got.Flag)
	assert.NotNil(t, got.DeletedAt)

	// удалённая задача не попадает в выборку
	tasks, err := storage.GetFiltered(ctx, task.Filter{}, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskStorage_DeleteFull(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	created := newTask("задача")
	require.NoError(t, storage.Create(ctx, created))
	require.NoError(t, storage.DeleteFull(ctx, created.UUID))

	_, err := storage.GetByID(ctx, created.UUID)
	assert.ErrorIs(t, err, rep.ErrNotFound)
}

func TestTaskStorage_GetFiltered(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	near := time.Now().Add(24 * time.Hour)
	far := time.Now().Add(72 * time.Hour)

	workTask := newTask("Сдать отчёт")
	workTask.Category = "work"
	workTask.Priority = task.PriorityHigh
	workTask.Deadline = &far

	homeTask := newTask("Купить продукты")
	homeTask.Category = "home"
	homeTask.Description = "молоко и хлеб"
	homeTask.Deadline = &near

	doneTask := newTask("Закрытая задача")
	doneTask.Status = task.StatusCompleted

	for _, tk := range []*task.Task{workTask, homeTask, doneTask} {
		require.NoError(t, storage.Create(ctx, tk))
	}

	t.Run("success - deadline order, completed last", func(t *testing.T) {
		tasks, err := storage.GetFiltered(ctx, task.Filter{}, 1, 10)
		require.NoError(t, err)
		require.Len(t, tasks, 3)
		assert.Equal(t, "Купить продукты", tasks[0].Title)
		assert.Equal(t, "Сдать отчёт", tasks[1].Title)
		assert.Equal(t, "Закрытая задача", tasks[2].Title)
	})

	t.Run("success - category filter is case insensitive", func(t *testing.T) {
		tasks, err := storage.GetFiltered(ctx, task.Filter{Category: "WORK"}, 1, 10)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "Сдать отчёт", tasks[0].Title)
	})

	t.Run("success - search in title and description", func(t *testing.T) {
		tasks, err := storage.GetFiltered(ctx, task.Filter{Search: "молоко"}, 1, 10)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "Купить продукты", tasks[0].Title)
	})

	t.Run("success - status and priority filters", func(t *testing.T) {
		tasks, err := storage.GetFiltered(ctx, task.Filter{
			Status:   task.StatusPending,
			Priority: task.PriorityHigh,
		}, 1, 10)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "Сдать отчёт", tasks[0].Title)
	})

	t.Run("success - pagination", func(t *testing.T) {
		page1, err := storage.GetFiltered(ctx, task.Filter{}, 1, 2)
		require.NoError(t, err)
		assert.Len(t, page1, 2)

		page2, err := storage.GetFiltered(ctx, task.Filter{}, 2, 2)
		require.NoError(t, err)
		assert.Len(t, page2, 1)

		empty, err := storage.GetFiltered(ctx, task.Filter{}, 5, 2)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})
}

func TestTaskStorage_GetTasksDueBefore(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	soon := time.Now().Add(10 * time.Minute)
	later := time.Now().Add(2 * time.Hour)

	dueSoon := newTask("скоро дедлайн")
	dueSoon.Deadline = &soon

	dueLater := newTask("дедлайн не скоро")
	dueLater.Deadline = &later

	completed := newTask("выполнена")
	completed.Deadline = &soon
	completed.Status = task.StatusCompleted

	noDeadline := newTask("без дедлайна")

	for _, tk := range []*task.Task{dueSoon, dueLater, completed, noDeadline} {
		require.NoError(t, storage.Create(ctx, tk))
	}

	tasks, err := storage.GetTasksDueBefore(ctx, time.Now().Add(30*time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "скоро дедлайн", tasks[0].Title)
}

func TestTaskStorage_Stats(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	past := time.Now().Add(-time.Hour)

	pending := newTask("ожидает")
	inProgress := newTask("в работе")
	inProgress.Status = task.StatusInProgress
	completed := newTask("выполнена")
	completed.Status = task.StatusCompleted
	overdue := newTask("просрочена")
	overdue.Deadline = &past
	urgent := newTask("срочная")
	urgent.Priority = task.PriorityUrgent
	deleted := newTask("удалена")

	for _, tk := range []*task.Task{pending, inProgress, completed, overdue, urgent, deleted} {
		require.NoError(t, storage.Create(ctx, tk))
	}
	require.NoError(t, storage.DeleteSoft(ctx, deleted))

	stats, err := storage.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 4, stats.Pending)
	assert.Equal(t, 1, stats.InProgress)
	assert.Equal(t, 1, stats.Overdue)
	assert.Equal(t, 1, stats.Urgent)
}
