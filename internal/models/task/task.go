package task

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	UUID        uuid.UUID  `json:"uuid" db:"uuid"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Deadline    *time.Time `json:"deadline,omitempty" db:"deadline"`
	Priority    Priority   `json:"priority" db:"priority"`
	Category    string     `json:"category" db:"category"`
	Subtasks    []string   `json:"subtasks" db:"subtasks"`
	Status      Status     `json:"status" db:"status"`
	Flag        Flag       `json:"flag" db:"flag"`
	AIGenerated bool       `json:"ai_generated" db:"ai_generated"`
	Version     int        `json:"version" db:"version"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" db:"updated_at,omitempty"`
	RemindedAt  *time.Time `json:"reminded_at,omitempty" db:"reminded_at,omitempty"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" db:"deleted_at,omitempty"`
}

type Status string
type Flag string
type Priority string

const StatusPending Status = "pending"
const StatusInProgress Status = "in_progress"
const StatusCompleted Status = "completed"
const StatusOverdue Status = "overdue"

const FlagDeleted Flag = "deleted"
const FlagActive Flag = "active"

const PriorityLow Priority = "low"
const PriorityMedium Priority = "medium"
const PriorityHigh Priority = "high"
const PriorityUrgent Priority = "urgent"

// Known — строгое (с учётом регистра) сравнение со значениями перечисления
func (p Priority) Known() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Rank возвращает числовой вес приоритета: low=0 ... urgent=3
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 0
	case PriorityMedium:
		return 1
	case PriorityHigh:
		return 2
	case PriorityUrgent:
		return 3
	}
	return 1
}

func (s Status) Known() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusOverdue:
		return true
	}
	return false
}

// Filter — параметры выборки задач. Пустое поле — фильтр не применяется.
type Filter struct {
	Status   Status
	Priority Priority
	Category string
	Search   string // подстрока в title/description
}

type Stats struct {
	Total      int `json:"total_tasks"`
	Completed  int `json:"completed_tasks"`
	Pending    int `json:"pending_tasks"`
	InProgress int `json:"in_progress_tasks"`
	Overdue    int `json:"overdue_tasks"`
	Urgent     int `json:"urgent_tasks"`
	High       int `json:"high_priority_tasks"`
}
