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

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const prioritizeBatch = 500

// AIService оркестрирует разбор свободного текста: вызов провайдера,
// деградацию в эвристику и сохранение результата.
type AIService struct {
	repo    TaskRepository
	builder *normalizer.Builder
	norm    *normalizer.Normalizer
}

func NewAIService(repo TaskRepository, builder *normalizer.Builder, norm *normalizer.Normalizer) AIService {
	return AIService{
		repo:    repo,
		builder: builder,
		norm:    norm,
	}
}

// Configured сообщает, настроен ли провайдер подсказок
func (s *AIService) Configured() bool {
	return s.builder.Configured()
}

// ParseTask — чистый разбор без создания записи. Недоступный провайдер
// здесь — отдельная ошибка: интерфейсу нужно предложить настроить ключ,
// а не показать молча пустой черновик.
func (s *AIService) ParseTask(ctx context.Context, input string) (*normalizer.Draft, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, NewValidationError("input", "текст не может быть пустым")
	}

	draft, err := s.builder.Parse(ctx, input, time.Now())
	if err != nil {
		if errors.Is(err, normalizer.ErrProviderUnavailable) {
			logger.Warn("Service: Провайдер недоступен для разбора", zap.Error(err))
			return nil, NewProviderUnavailable(err)
		}
		var vErr *normalizer.ValidationError
		if errors.As(err, &vErr) {
			return nil, NewValidationError(vErr.Field, "обязательное поле пустое")
		}
		return nil, fmt.Errorf("разбор текста: %w", err)
	}
	return draft, nil
}

// CreateTaskFromText разбирает текст и сразу создаёт задачу.
// Недоступность провайдера не валит операцию — черновик строится
// эвристикой с значениями по умолчанию.
func (s *AIService) CreateTaskFromText(ctx context.Context, input string) (*task.Task, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, NewValidationError("input", "текст не может быть пустым")
	}

	draft, aiGenerated, err := s.builder.ParseWithFallback(ctx, input, time.Now())
	if err != nil {
		var vErr *normalizer.ValidationError
		if errors.As(err, &vErr) {
			return nil, NewValidationError(vErr.Field, "обязательное поле пустое")
		}
		return nil, fmt.Errorf("разбор текста: %w", err)
	}

	t := taskFromDraft(draft, aiGenerated)
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("создание задачи: %w", err)
	}

	logger.Info("Service: Задача создана из текста",
		zap.String("task_id", t.UUID.String()),
		zap.Bool("ai_generated", aiGenerated))
	return t, nil
}

// SuggestSubtasks дополняет черновик подсказками провайдера.
// Значения, заданные пользователем, не перетираются (fill-if-empty),
// сабтаски провайдера дописываются после существующих.
func (s *AIService) SuggestSubtasks(ctx context.Context, raw normalizer.RawDraft) (*normalizer.Draft, error) {
	if raw.Title == nil || strings.TrimSpace(*raw.Title) == "" {
		return nil, NewValidationError("title", "обязательное поле пустое")
	}

	draft, err := s.builder.Enrich(ctx, raw, time.Now())
	if err != nil {
		if errors.Is(err, normalizer.ErrProviderUnavailable) {
			return nil, NewProviderUnavailable(err)
		}
		var vErr *normalizer.ValidationError
		if errors.As(err, &vErr) {
			return nil, NewValidationError(vErr.Field, "обязательное поле пустое")
		}
		return nil, fmt.Errorf("подбор сабтасков: %w", err)
	}
	return draft, nil
}

// PrioritizeTasks возвращает незавершённые задачи в порядке срочности.
// Пустой список идентификаторов означает "все задачи".
func (s *AIService) PrioritizeTasks(ctx context.Context, ids []uuid.UUID) ([]*task.Task, error) {
	all, err := s.repo.GetFiltered(ctx, task.Filter{}, 1, prioritizeBatch)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}

	wanted := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	selected := make([]*task.Task, 0, len(all))
	for _, t := range all {
		if t.Status == task.StatusCompleted {
			continue
		}
		if len(wanted) > 0 && !wanted[t.UUID] {
			continue
		}
		selected = append(selected, t)
	}

	task.SortByPriority(selected)
	return selected, nil
}

type Summary struct {
	Text        string     `json:"summary"`
	Period      string     `json:"period"`
	Stats       task.Stats `json:"stats"`
	GeneratedAt time.Time  `json:"generated_at"`
}

// GenerateSummary собирает сводку по задачам за период
func (s *AIService) GenerateSummary(ctx context.Context, period string) (*Summary, error) {
	if period == "" {
		period = "daily"
	}
	if period != "daily" && period != "weekly" {
		return nil, NewValidationError("period", "допустимы daily или weekly")
	}

	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("сбор статистики: %w", err)
	}

	return &Summary{
		Text:        fmt.Sprintf("Completed %d tasks. %d still pending.", stats.Completed, stats.Pending),
		Period:      period,
		Stats:       *stats,
		GeneratedAt: time.Now().UTC(),
	}, nil
}
