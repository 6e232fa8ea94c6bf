package worker

import (
	"context"
	"fmt"
	"time"

	"taskPlanner/internal/logger"
	"taskPlanner/internal/models/task"
	"taskPlanner/internal/service"

	"go.uber.org/zap"
)

// ReminderWorker периодически обходит задачи с подступающим дедлайном:
// просроченные переводит в overdue, по остальным пишет напоминание.
type ReminderWorker struct {
	repo         service.TaskRepository
	interval     time.Duration
	batchSize    int
	reminderLead time.Duration
}

func NewReminderWorker(repo service.TaskRepository, interval *time.Duration, batchSize *int, reminderLead *time.Duration) *ReminderWorker {
	var intervalToSet time.Duration
	if interval == nil {
		intervalToSet = 5 * time.Minute
	} else {
		intervalToSet = *interval
	}

	var batchToSet int
	if batchSize == nil {
		batchToSet = 100
	} else {
		batchToSet = *batchSize
	}

	var leadToSet time.Duration
	if reminderLead == nil {
		leadToSet = 30 * time.Minute
	} else {
		leadToSet = *reminderLead
	}

	return &ReminderWorker{
		repo:         repo,
		interval:     intervalToSet,
		batchSize:    batchToSet,
		reminderLead: leadToSet,
	}
}

func (w *ReminderWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logger.Info("Worker: Фоновая проверка дедлайнов", zap.Time("started_at", time.Now()))
			w.Check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Фоновая проверка останавливается")
			return
		}
	}
}

func (w *ReminderWorker) Check(ctx context.Context) {
	start := time.Now()
	now := time.Now()

	tasks, err := w.repo.GetTasksDueBefore(ctx, now.Add(w.reminderLead), w.batchSize)
	if err != nil {
		logger.Warn("Worker: ошибка получения задач", zap.Error(err))
		return
	}

	overdueCount := 0
	remindedCount := 0

	for _, t := range tasks {
		if t.Status == task.StatusCompleted || t.Deadline == nil {
			continue
		}

		if t.Deadline.Before(now) {
			if t.Status == task.StatusOverdue {
				continue
			}
			if err := w.MarkAsOverdue(ctx, t); err != nil {
				logger.Warn("Worker: Ошибка обновления задачи", zap.Error(err))
				continue
			}
			overdueCount++
			continue
		}

		if t.RemindedAt != nil {
			continue
		}
		if err := w.Remind(ctx, t, now); err != nil {
			logger.Warn("Worker: Ошибка отправки напоминания", zap.Error(err))
			continue
		}
		remindedCount++
	}

	logger.Info(
		"Worker: Завершение проверки дедлайнов",
		zap.Duration("ms", time.Since(start)),
		zap.Int("checked", len(tasks)),
		zap.Int("overdue", overdueCount),
		zap.Int("reminded", remindedCount),
	)
}

func (w *ReminderWorker) MarkAsOverdue(ctx context.Context, t *task.Task) error {
	t.Status = task.StatusOverdue

	if err := w.repo.Update(ctx, t); err != nil {
		return fmt.Errorf("обновление статуса: %w", err)
	}
	return nil
}

// Remind пишет напоминание в лог и помечает задачу, чтобы не напоминать дважды
func (w *ReminderWorker) Remind(ctx context.Context, t *task.Task, now time.Time) error {
	logger.Info(
		"Worker: Напоминание о дедлайне",
		zap.String("task_id", t.UUID.String()),
		zap.String("title", t.Title),
		zap.Time("deadline", *t.Deadline),
	)

	task.WithRemindedAt(now)(t)
	if err := w.repo.Update(ctx, t); err != nil {
		return fmt.Errorf("отметка напоминания: %w", err)
	}
	return nil
}
