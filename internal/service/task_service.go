package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskPlanner/internal/logger"
	"taskPlanner/internal/models/task"
	"taskPlanner/internal/normalizer"
	rep "taskPlanner/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// здесь происходит проверка ошибок бизнес-логики

type TaskService struct {
	repo TaskRepository
	norm *normalizer.Normalizer
}

func NewTaskService(repo TaskRepository, norm *normalizer.Normalizer) TaskService {
	return TaskService{
		repo: repo,
		norm: norm,
	}
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка здоровья сервиса: %w", err)
	}
	return nil
}

// CreateTask — ручной путь создания: недоверенный черновик нормализуется,
// хранилище назначает идентификатор и метки времени. Опорное "сейчас"
// читается один раз на границе сервиса.
func (s *TaskService) CreateTask(ctx context.Context, raw normalizer.RawDraft) (*task.Task, error) {
	draft, err := s.norm.Normalize(raw, time.Now())
	if err != nil {
		var vErr *normalizer.ValidationError
		if errors.As(err, &vErr) {
			logger.Info("Service: Черновик отклонён", zap.String("field", vErr.Field))
			return nil, NewValidationError(vErr.Field, "обязательное поле пустое")
		}
		return nil, fmt.Errorf("нормализация черновика: %w", err)
	}

	t := taskFromDraft(draft, false)
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("создание задачи: %w", err)
	}
	return t, nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return nil, NewNotFound("задача", id.String())
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	if t.Flag == task.FlagDeleted {
		return nil, NewNotFound("задача", id.String())
	}
	return t, nil
}

func (s *TaskService) GetTasks(ctx context.Context, filter task.Filter, page, limit int) ([]*task.Task, error) {
	tasks, err := s.repo.GetFiltered(ctx, filter, page, limit)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	return tasks, nil
}

// TaskUpdate — частичное обновление; nil-поле не трогает значение.
// Пустая строка в Deadline сбрасывает дедлайн.
type TaskUpdate struct {
	Title       *string
	Description *string
	Deadline    *string
	Priority    *string
	Category    *string
	Subtasks    *[]string
	Status      *string
}

func (s *TaskService) UpdateTask(ctx context.Context, id uuid.UUID, upd TaskUpdate) (*task.Task, error) {
	t, err := s.GetTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}

	opts, err := s.updateOptions(upd)
	if err != nil {
		return nil, err
	}

	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}

	if err := s.repo.Update(ctx, t); err != nil {
		if errors.Is(err, rep.ErrVersionConflict) {
			return nil, NewVersionConflict(id.String())
		}
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}
	return t, nil
}

// updateOptions транслирует частичное обновление в опции модели,
// прогоняя каждое поле через ту же политику, что и при создании
func (s *TaskService) updateOptions(upd TaskUpdate) ([]task.Option, error) {
	var opts []task.Option

	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if title == "" {
			return nil, NewValidationError("title", "обязательное поле пустое")
		}
		opts = append(opts, task.WithTitle(title))
	}
	if upd.Description != nil {
		opts = append(opts, task.WithDescription(strings.TrimSpace(*upd.Description)))
	}
	if upd.Deadline != nil {
		// неразбираемый или пустой дедлайн при обновлении сбрасывает поле
		if parsed, ok := s.norm.ParseDeadline(*upd.Deadline, time.Now()); ok {
			opts = append(opts, task.WithDeadline(&parsed))
		} else {
			opts = append(opts, task.WithDeadline(nil))
		}
	}
	if upd.Priority != nil {
		opts = append(opts, task.WithPriority(normalizer.CanonicalPriority(upd.Priority)))
	}
	if upd.Category != nil {
		opts = append(opts, task.WithCategory(strings.TrimSpace(*upd.Category)))
	}
	if upd.Subtasks != nil {
		opts = append(opts, task.WithSubtasks(normalizer.CleanSubtasks(*upd.Subtasks)))
	}
	if upd.Status != nil {
		status := task.Status(*upd.Status)
		if !status.Known() {
			return nil, NewValidationError("status", "неизвестный статус")
		}
		opts = append(opts, task.WithStatus(status))
	}

	return opts, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id uuid.UUID) error {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return NewNotFound("задача", id.String())
		}
		return fmt.Errorf("получение задачи: %w", err)
	}
	if t.Flag == task.FlagDeleted {
		return NewTaskDeleted(id.String())
	}

	if err := s.repo.DeleteSoft(ctx, t); err != nil {
		if errors.Is(err, rep.ErrVersionConflict) {
			return NewVersionConflict(id.String())
		}
		return fmt.Errorf("удаление задачи: %w", err)
	}
	return nil
}

// PurgeTask безвозвратно удаляет задачу из корзины.
// Активная задача сначала проходит мягкое удаление.
func (s *TaskService) PurgeTask(ctx context.Context, id uuid.UUID) error {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return NewNotFound("задача", id.String())
		}
		return fmt.Errorf("получение задачи: %w", err)
	}
	if t.Flag != task.FlagDeleted {
		return NewNotDeleted(id.String())
	}

	if err := s.repo.DeleteFull(ctx, id); err != nil {
		return fmt.Errorf("полное удаление задачи: %w", err)
	}

	logger.Info("Service: Задача удалена безвозвратно", zap.String("task_id", id.String()))
	return nil
}

func (s *TaskService) GetStats(ctx context.Context) (*task.Stats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("сбор статистики: %w", err)
	}
	return stats, nil
}

func taskFromDraft(draft *normalizer.Draft, aiGenerated bool) *task.Task {
	return &task.Task{
		UUID:        uuid.New(),
		Title:       draft.Title,
		Description: draft.Description,
		Deadline:    draft.Deadline,
		Priority:    draft.Priority,
		Category:    draft.Category,
		Subtasks:    draft.Subtasks,
		Status:      task.StatusPending,
		AIGenerated: aiGenerated,
	}
}
