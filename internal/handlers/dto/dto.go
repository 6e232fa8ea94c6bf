package dto

import (
	"time"

	"taskPlanner/internal/models/task"
	"taskPlanner/internal/normalizer"

	"github.com/google/uuid"
)

// Поля-указатели: отсутствие поля в JSON и пустое значение различаются,
// это важно для политики fill-if-empty

type CreateTaskRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Deadline    *string  `json:"deadline"`
	Priority    *string  `json:"priority"`
	Category    *string  `json:"category"`
	Subtasks    []string `json:"subtasks"`
}

func (r CreateTaskRequest) ToRawDraft() normalizer.RawDraft {
	return normalizer.RawDraft{
		Title:        r.Title,
		Description:  r.Description,
		DeadlineText: r.Deadline,
		Priority:     r.Priority,
		Category:     r.Category,
		Subtasks:     r.Subtasks,
	}
}

type UpdateTaskRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Deadline    *string   `json:"deadline,omitempty"`
	Priority    *string   `json:"priority,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Subtasks    *[]string `json:"subtasks,omitempty"`
	Status      *string   `json:"status,omitempty"`
}

type ParseTaskRequest struct {
	Input string `json:"input"`
}

type SuggestSubtasksRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    *string  `json:"priority,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Subtasks    []string `json:"subtasks,omitempty"`
}

func (r SuggestSubtasksRequest) ToRawDraft() normalizer.RawDraft {
	title := r.Title
	description := r.Description
	return normalizer.RawDraft{
		Title:       &title,
		Description: &description,
		Priority:    r.Priority,
		Category:    r.Category,
		Subtasks:    r.Subtasks,
	}
}

type PrioritizeRequest struct {
	TaskIDs []uuid.UUID `json:"task_ids,omitempty"`
}

type SuggestionsResponse struct {
	SuggestedSubtasks []string `json:"suggested_subtasks"`
	SuggestedCategory string   `json:"suggested_category"`
	SuggestedPriority string   `json:"suggested_priority"`
}

type TaskResponse struct {
	UUID        uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Priority    string     `json:"priority"`
	Category    string     `json:"category"`
	Subtasks    []string   `json:"subtasks"`
	Status      string     `json:"status"`
	AIGenerated bool       `json:"ai_generated"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	IsOverdue   bool       `json:"is_overdue"`
}

func FromTask(t *task.Task) TaskResponse {
	subtasks := t.Subtasks
	if subtasks == nil {
		subtasks = []string{}
	}
	return TaskResponse{
		UUID:        t.UUID,
		Title:       t.Title,
		Description: t.Description,
		Deadline:    t.Deadline,
		Priority:    string(t.Priority),
		Category:    t.Category,
		Subtasks:    subtasks,
		Status:      string(t.Status),
		AIGenerated: t.AIGenerated,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		IsOverdue: t.Status == task.StatusOverdue ||
			(t.Status != task.StatusCompleted && t.Deadline != nil && t.Deadline.Before(time.Now())),
	}
}

func FromTaskList(tasks []*task.Task) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t)
	}
	return result
}
