package normalizer_test

import (
	"testing"
	"time"

	"taskPlanner/internal/models/task"
	"taskPlanner/internal/normalizer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func TestNormalizer_Normalize(t *testing.T) {
	loc := time.UTC
	norm := normalizer.New(loc)
	now := time.Date(2025, 8, 20, 10, 0, 0, 0, loc)

	tests := []struct {
		name        string
		raw         normalizer.RawDraft
		expectError bool
		errorField  string
		check       func(t *testing.T, draft *normalizer.Draft)
	}{
		{
			name: "success - full draft",
			raw: normalizer.RawDraft{
				Title:        strPtr("  Написать отчёт  "),
				Description:  strPtr("квартальный отчёт"),
				DeadlineText: strPtr("2025-09-10"),
				Priority:     strPtr("high"),
				Category:     strPtr("work"),
				Subtasks:     []string{"собрать цифры", "сверстать"},
			},
			check: func(t *testing.T, draft *normalizer.Draft) {
				assert.Equal(t, "Написать отчёт", draft.Title)
				assert.Equal(t, "квартальный отчёт", draft.Description)
				require.NotNil(t, draft.Deadline)
				assert.Equal(t, time.Date(2025, 9, 10, 23, 59, 0, 0, loc), *draft.Deadline)
				assert.Equal(t, task.PriorityHigh, draft.Priority)
				assert.Equal(t, "work", draft.Category)
				assert.Equal(t, []string{"собрать цифры", "сверстать"}, draft.Subtasks)
			},
		},
		{
			name: "success - minimal draft gets defaults",
			raw: normalizer.RawDraft{
				Title: strPtr("купить хлеб"),
			},
			check: func(t *testing.T, draft *normalizer.Draft) {
				assert.Equal(t, "купить хлеб", draft.Title)
				assert.Equal(t, "", draft.Description)
				assert.Nil(t, draft.Deadline)
				assert.Equal(t, task.PriorityMedium, draft.Priority)
				assert.Equal(t, "", draft.Category)
				assert.Empty(t, draft.Subtasks)
			},
		},
		{
			name: "error - empty title is the only hard failure",
			raw: normalizer.RawDraft{
				Title:    strPtr(""),
				Priority: strPtr("urgent"),
			},
			expectError: true,
			errorField:  "title",
		},
		{
			name: "error - whitespace title rejected",
			raw: normalizer.RawDraft{
				Title: strPtr("   "),
			},
			expectError: true,
			errorField:  "title",
		},
		{
			name: "error - nil title rejected",
			raw: normalizer.RawDraft{
				Description: strPtr("без заголовка"),
			},
			expectError: true,
			errorField:  "title",
		},
		{
			name: "success - unknown priority degrades to medium",
			raw: normalizer.RawDraft{
				Title:    strPtr("задача"),
				Priority: strPtr("critical"),
			},
			check: func(t *testing.T, draft *normalizer.Draft) {
				assert.Equal(t, task.PriorityMedium, draft.Priority)
			},
		},
		{
			name: "success - priority comparison is case sensitive",
			raw: normalizer.RawDraft{
				Title:    strPtr("задача"),
				Priority: strPtr("URGENT"),
			},
			check: func(t *testing.T, draft *normalizer.Draft) {
				assert.Equal(t, task.PriorityMedium, draft.Priority)
			},
		},
		{
			name: "success - unparseable deadline text degrades to absent",
			raw: normalizer.RawDraft{
				Title:        strPtr("задача"),
				DeadlineText: strPtr("как-нибудь в другой раз"),
				Subtasks:     []string{"шаг 1"},
			},
			check: func(t *testing.T, draft *normalizer.Draft) {
				assert.Nil(t, draft.Deadline)
				// битый дедлайн не блокирует остальные поля
				assert.Equal(t, []string{"шаг 1"}, draft.Subtasks)
			},
		},
		{
			name: "success - explicit deadline wins over text",
			raw: normalizer.RawDraft{
				Title:        strPtr("задача"),
				Deadline:     timePtr(time.Date(2025, 12, 1, 10, 0, 0, 0, loc)),
				DeadlineText: strPtr("2025-09-10"),
			},
			check: func(t *testing.T, draft *normalizer.Draft) {
				require.NotNil(t, draft.Deadline)
				assert.Equal(t, time.Date(2025, 12, 1, 10, 0, 0, 0, loc), *draft.Deadline)
			},
		},
		{
			name: "success - day first with pm and defaulted priority",
			raw: normalizer.RawDraft{
				Title:        strPtr("сдать проект"),
				DeadlineText: strPtr("22-08-2025 9 pm"),
			},
			check: func(t *testing.T, draft *normalizer.Draft) {
				require.NotNil(t, draft.Deadline)
				assert.Equal(t, time.Date(2025, 8, 22, 21, 0, 0, 0, loc), *draft.Deadline)
				assert.Equal(t, task.PriorityMedium, draft.Priority)
			},
		},
		{
			name: "success - subtasks trimmed, empty dropped, order kept",
			raw: normalizer.RawDraft{
				Title:    strPtr("задача"),
				Subtasks: []string{"", " a ", "b", "  "},
			},
			check: func(t *testing.T, draft *normalizer.Draft) {
				assert.Equal(t, []string{"a", "b"}, draft.Subtasks)
			},
		},
		{
			name: "success - duplicate subtasks survive",
			raw: normalizer.RawDraft{
				Title:    strPtr("задача"),
				Subtasks: []string{"a", "a", "b"},
			},
			check: func(t *testing.T, draft *normalizer.Draft) {
				assert.Equal(t, []string{"a", "a", "b"}, draft.Subtasks)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft, err := norm.Normalize(tt.raw, now)

			if tt.expectError {
				require.Error(t, err)
				var vErr *normalizer.ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Equal(t, tt.errorField, vErr.Field)
				assert.Nil(t, draft)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, draft)
			tt.check(t, draft)
		})
	}
}

// повторная нормализация канонического черновика ничего не меняет
func TestNormalizer_Normalize_Idempotent(t *testing.T) {
	loc := time.UTC
	norm := normalizer.New(loc)
	now := time.Date(2025, 8, 20, 10, 0, 0, 0, loc)

	raw := normalizer.RawDraft{
		Title:        strPtr("закрыть квартал"),
		Description:  strPtr("подбить итоги"),
		DeadlineText: strPtr("22-08-2025 9 pm"),
		Priority:     strPtr("high"),
		Category:     strPtr("work"),
		Subtasks:     []string{" цифры ", "", "отчёт"},
	}

	first, err := norm.Normalize(raw, now)
	require.NoError(t, err)

	second, err := norm.Normalize(first.ToRaw(), now)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCanonicalPriority(t *testing.T) {
	assert.Equal(t, task.PriorityUrgent, normalizer.CanonicalPriority(strPtr("urgent")))
	assert.Equal(t, task.PriorityMedium, normalizer.CanonicalPriority(strPtr("Urgent")))
	assert.Equal(t, task.PriorityMedium, normalizer.CanonicalPriority(nil))
	assert.Equal(t, task.PriorityLow, normalizer.CanonicalPriority(strPtr("low")))
}

func timePtr(t time.Time) *time.Time {
	return &t
}
