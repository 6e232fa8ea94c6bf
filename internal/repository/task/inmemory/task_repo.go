package inmemory

import (
	"context"
	"strings"
	"sync"
	"time"

	"taskPlanner/internal/models/task"
	repo "taskPlanner/internal/repository"

	"github.com/google/uuid"
)

type TaskStorage struct {
	storage map[uuid.UUID]*task.Task
	mtx     *sync.RWMutex
	ids     []uuid.UUID // порядок вставки
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[uuid.UUID]*task.Task),
		mtx:     &sync.RWMutex{},
		ids:     []uuid.UUID{},
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	return nil
}

// Create сохраняет задачу; хранилище назначает метку создания и флаг
func (s *TaskStorage) Create(ctx context.Context, taskToCreate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	taskToCreate.CreatedAt = time.Now()
	taskToCreate.Flag = task.FlagActive
	if taskToCreate.Status == "" {
		taskToCreate.Status = task.StatusPending
	}

	s.storage[taskToCreate.UUID] = taskToCreate
	s.ids = append(s.ids, taskToCreate.UUID)
	return nil
}

func (s *TaskStorage) Update(ctx context.Context, taskToUpdate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.storage[taskToUpdate.UUID]
	if !ok {
		return repo.ErrNotFound
	}
	if existing.Version != taskToUpdate.Version {
		return repo.ErrVersionConflict
	}

	now := time.Now()
	taskToUpdate.UpdatedAt = &now
	taskToUpdate.Version++
	s.storage[taskToUpdate.UUID] = taskToUpdate

	return nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	taskToGet, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return taskToGet, nil
}

// мягкое удаление с изменением флага
func (s *TaskStorage) DeleteSoft(ctx context.Context, taskToDelete *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.storage[taskToDelete.UUID]
	if !ok {
		return repo.ErrNotFound
	}

	now := time.Now()
	existing.UpdatedAt = &now
	existing.DeletedAt = &now
	existing.Flag = task.FlagDeleted

	return nil
}

// полное удаление
func (s *TaskStorage) DeleteFull(ctx context.Context, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	delete(s.storage, id)
	for ind, val := range s.ids {
		if val == id {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}
	return nil
}

// GetFiltered возвращает страницу активных задач по фильтру,
// отсортированных дедлайн-первее: незавершённые и ближайшие — в начале
func (s *TaskStorage) GetFiltered(ctx context.Context, filter task.Filter, page, limit int) ([]*task.Task, error) {
	s.mtx.RLock()

	matched := []*task.Task{}
	for _, id := range s.ids {
		t := s.storage[id]
		if t.Flag != task.FlagActive {
			continue
		}
		if !matchesFilter(t, filter) {
			continue
		}
		matched = append(matched, t)
	}
	s.mtx.RUnlock()

	task.SortDeadlineFirst(matched)

	offset := (page - 1) * limit
	if offset >= len(matched) {
		return []*task.Task{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func matchesFilter(t *task.Task, filter task.Filter) bool {
	if filter.Status != "" && t.Status != filter.Status {
		return false
	}
	if filter.Priority != "" && t.Priority != filter.Priority {
		return false
	}
	if filter.Category != "" && !strings.EqualFold(t.Category, filter.Category) {
		return false
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(t.Title), needle) &&
			!strings.Contains(strings.ToLower(t.Description), needle) {
			return false
		}
	}
	return true
}

// GetTasksDueBefore — подпитка фонового воркера: активные незавершённые
// задачи с дедлайном раньше отсечки
func (s *TaskStorage) GetTasksDueBefore(ctx context.Context, cutoff time.Time, limit int) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	var tasks []*task.Task

	for _, id := range s.ids {
		if len(tasks) >= limit {
			break
		}

		t := s.storage[id]
		if t.Flag == task.FlagActive &&
			t.Status != task.StatusCompleted &&
			t.Deadline != nil &&
			t.Deadline.Before(cutoff) {
			tasks = append(tasks, t)
		}
	}

	return tasks, nil
}

// Stats считает агрегаты по активным задачам
func (s *TaskStorage) Stats(ctx context.Context) (*task.Stats, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	stats := &task.Stats{}
	now := time.Now()

	for _, id := range s.ids {
		t := s.storage[id]
		if t.Flag != task.FlagActive {
			continue
		}

		stats.Total++
		switch t.Status {
		case task.StatusCompleted:
			stats.Completed++
		case task.StatusInProgress:
			stats.InProgress++
			stats.Pending++
		case task.StatusOverdue:
			stats.Overdue++
		default:
			stats.Pending++
		}

		if t.Status != task.StatusCompleted && t.Status != task.StatusOverdue &&
			t.Deadline != nil && t.Deadline.Before(now) {
			stats.Overdue++
		}

		switch t.Priority {
		case task.PriorityUrgent:
			stats.Urgent++
		case task.PriorityHigh:
			stats.High++
		}
	}

	return stats, nil
}
