package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"taskPlanner/internal/models/task"
	"taskPlanner/internal/normalizer"
	"taskPlanner/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProvider - мок провайдера подсказок
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Suggest(ctx context.Context, text string, now time.Time) (*normalizer.RawDraft, error) {
	args := m.Called(ctx, text, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*normalizer.RawDraft), args.Error(1)
}

var _ normalizer.Provider = (*MockProvider)(nil)

func newAIService(repo service.TaskRepository, provider normalizer.Provider) service.AIService {
	norm := normalizer.New(time.UTC)
	return service.NewAIService(repo, normalizer.NewBuilder(norm, provider), norm)
}

func TestAIService_ParseTask(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		input       string
		provider    bool
		setupMock   func(*MockProvider)
		expectError bool
		errorCode   string
		check       func(t *testing.T, draft *normalizer.Draft)
	}{
		{
			name:     "success - provider draft normalized",
			input:    "Remind me to submit the report by 22-08-2025",
			provider: true,
			setupMock: func(m *MockProvider) {
				m.On("Suggest", mock.Anything, mock.Anything, mock.Anything).Return(&normalizer.RawDraft{
					Title:        strPtr("Submit the report"),
					DeadlineText: strPtr("22-08-2025"),
					Priority:     strPtr("high"),
				}, nil)
			},
			check: func(t *testing.T, draft *normalizer.Draft) {
				assert.Equal(t, "submit the report", draft.Title)
				assert.Equal(t, task.PriorityHigh, draft.Priority)
				require.NotNil(t, draft.Deadline)
			},
		},
		{
			name:        "error - empty input",
			input:       "   ",
			provider:    true,
			setupMock:   func(m *MockProvider) {},
			expectError: true,
			errorCode:   service.CodeValidationError,
		},
		{
			name:     "error - provider unreachable surfaces as unavailable",
			input:    "submit the report",
			provider: true,
			setupMock: func(m *MockProvider) {
				m.On("Suggest", mock.Anything, mock.Anything, mock.Anything).
					Return(nil, fmt.Errorf("timeout: %w", normalizer.ErrProviderUnavailable))
			},
			expectError: true,
			errorCode:   service.CodeProviderUnavailable,
		},
		{
			name:        "error - no provider configured",
			input:       "submit the report",
			provider:    false,
			setupMock:   func(m *MockProvider) {},
			expectError: true,
			errorCode:   service.CodeProviderUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			mockProvider := new(MockProvider)
			tt.setupMock(mockProvider)

			var provider normalizer.Provider
			if tt.provider {
				provider = mockProvider
			}
			svc := newAIService(mockRepo, provider)
			draft, err := svc.ParseTask(ctx, tt.input)

			if tt.expectError {
				require.Error(t, err)
				var businessErr *service.BusinessError
				require.ErrorAs(t, err, &businessErr)
				assert.Equal(t, tt.errorCode, businessErr.Code)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, draft)
			tt.check(t, draft)
			mockProvider.AssertExpectations(t)
		})
	}
}

func TestAIService_CreateTaskFromText(t *testing.T) {
	ctx := context.Background()

	t.Run("success - provider path marks task ai generated", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockProvider := new(MockProvider)
		mockProvider.On("Suggest", mock.Anything, mock.Anything, mock.Anything).Return(&normalizer.RawDraft{
			Title:    strPtr("submit the report"),
			Priority: strPtr("high"),
		}, nil)
		mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(tk *task.Task) bool {
			return tk.AIGenerated && tk.Priority == task.PriorityHigh
		})).Return(nil)

		svc := newAIService(mockRepo, mockProvider)
		created, err := svc.CreateTaskFromText(ctx, "submit the report")

		require.NoError(t, err)
		assert.True(t, created.AIGenerated)
		mockRepo.AssertExpectations(t)
	})

	t.Run("success - unreachable provider degrades to heuristic draft", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockProvider := new(MockProvider)
		mockProvider.On("Suggest", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("connection refused: %w", normalizer.ErrProviderUnavailable))
		mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(tk *task.Task) bool {
			return !tk.AIGenerated &&
				tk.Title == "submit the assignment" &&
				tk.Priority == task.PriorityMedium &&
				tk.Category == "education"
		})).Return(nil)

		svc := newAIService(mockRepo, mockProvider)
		created, err := svc.CreateTaskFromText(ctx, "Remind me to submit the assignment by 22-08-2025")

		require.NoError(t, err)
		assert.False(t, created.AIGenerated)
		require.NotNil(t, created.Deadline)
		assert.Equal(t, 23, created.Deadline.Hour())
		mockRepo.AssertExpectations(t)
	})

	t.Run("error - empty input", func(t *testing.T) {
		svc := newAIService(new(MockTaskRepository), nil)
		_, err := svc.CreateTaskFromText(ctx, "")

		var businessErr *service.BusinessError
		require.ErrorAs(t, err, &businessErr)
		assert.Equal(t, service.CodeValidationError, businessErr.Code)
	})
}

func TestAIService_SuggestSubtasks(t *testing.T) {
	ctx := context.Background()

	t.Run("success - user category not overridden, subtasks appended", func(t *testing.T) {
		mockProvider := new(MockProvider)
		mockProvider.On("Suggest", mock.Anything, mock.Anything, mock.Anything).Return(&normalizer.RawDraft{
			Category: strPtr("personal"),
			Subtasks: []string{"book hotel"},
		}, nil)

		svc := newAIService(new(MockTaskRepository), mockProvider)
		draft, err := svc.SuggestSubtasks(ctx, normalizer.RawDraft{
			Title:    strPtr("plan the trip"),
			Category: strPtr("work"),
			Subtasks: []string{"pick dates"},
		})

		require.NoError(t, err)
		assert.Equal(t, "work", draft.Category)
		assert.Equal(t, []string{"pick dates", "book hotel"}, draft.Subtasks)
	})

	t.Run("error - title required", func(t *testing.T) {
		svc := newAIService(new(MockTaskRepository), new(MockProvider))
		_, err := svc.SuggestSubtasks(ctx, normalizer.RawDraft{})

		var businessErr *service.BusinessError
		require.ErrorAs(t, err, &businessErr)
		assert.Equal(t, service.CodeValidationError, businessErr.Code)
	})

	t.Run("error - provider unavailable", func(t *testing.T) {
		svc := newAIService(new(MockTaskRepository), nil)
		_, err := svc.SuggestSubtasks(ctx, normalizer.RawDraft{Title: strPtr("plan the trip")})

		var businessErr *service.BusinessError
		require.ErrorAs(t, err, &businessErr)
		assert.Equal(t, service.CodeProviderUnavailable, businessErr.Code)
	})
}

func TestAIService_PrioritizeTasks(t *testing.T) {
	ctx := context.Background()

	deadline := func(day int) *time.Time {
		d := time.Date(2025, 9, day, 12, 0, 0, 0, time.UTC)
		return &d
	}

	lowTask := &task.Task{UUID: uuid.New(), Title: "low", Priority: task.PriorityLow, Status: task.StatusPending}
	urgentTask := &task.Task{UUID: uuid.New(), Title: "urgent", Priority: task.PriorityUrgent, Status: task.StatusPending}
	doneTask := &task.Task{UUID: uuid.New(), Title: "done", Priority: task.PriorityUrgent, Status: task.StatusCompleted}
	highNear := &task.Task{UUID: uuid.New(), Title: "high near", Priority: task.PriorityHigh, Status: task.StatusPending, Deadline: deadline(1)}
	highFar := &task.Task{UUID: uuid.New(), Title: "high far", Priority: task.PriorityHigh, Status: task.StatusPending, Deadline: deadline(20)}

	t.Run("success - urgent first, completed excluded", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("GetFiltered", mock.Anything, task.Filter{}, 1, mock.Anything).
			Return([]*task.Task{lowTask, doneTask, highFar, urgentTask, highNear}, nil)

		svc := newAIService(mockRepo, nil)
		got, err := svc.PrioritizeTasks(ctx, nil)

		require.NoError(t, err)
		require.Len(t, got, 4)
		assert.Equal(t, "urgent", got[0].Title)
		assert.Equal(t, "high near", got[1].Title)
		assert.Equal(t, "high far", got[2].Title)
		assert.Equal(t, "low", got[3].Title)
	})

	t.Run("success - id subset filters selection", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("GetFiltered", mock.Anything, task.Filter{}, 1, mock.Anything).
			Return([]*task.Task{lowTask, urgentTask, highNear}, nil)

		svc := newAIService(mockRepo, nil)
		got, err := svc.PrioritizeTasks(ctx, []uuid.UUID{lowTask.UUID, urgentTask.UUID})

		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "urgent", got[0].Title)
		assert.Equal(t, "low", got[1].Title)
	})

	t.Run("error - repository failure", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("GetFiltered", mock.Anything, task.Filter{}, 1, mock.Anything).
			Return(nil, errors.New("db down"))

		svc := newAIService(mockRepo, nil)
		_, err := svc.PrioritizeTasks(ctx, nil)
		assert.Error(t, err)
	})
}

func TestAIService_GenerateSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("success - default period is daily", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Stats", mock.Anything).Return(&task.Stats{
			Total:     5,
			Completed: 2,
			Pending:   3,
		}, nil)

		svc := newAIService(mockRepo, nil)
		summary, err := svc.GenerateSummary(ctx, "")

		require.NoError(t, err)
		assert.Equal(t, "daily", summary.Period)
		assert.Equal(t, "Completed 2 tasks. 3 still pending.", summary.Text)
		assert.Equal(t, 5, summary.Stats.Total)
		assert.False(t, summary.GeneratedAt.IsZero())
	})

	t.Run("error - unknown period", func(t *testing.T) {
		svc := newAIService(new(MockTaskRepository), nil)
		_, err := svc.GenerateSummary(ctx, "monthly")

		var businessErr *service.BusinessError
		require.ErrorAs(t, err, &businessErr)
		assert.Equal(t, service.CodeValidationError, businessErr.Code)
	})
}
