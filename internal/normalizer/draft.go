package normalizer

import (
	"fmt"
	"strings"
	"time"

	"taskPlanner/internal/models/task"
)

// RawDraft — недоверенный черновик задачи. Источник может быть любым:
// форма пользователя, ответ LLM-провайдера, свободный текст. Каждое поле
// может отсутствовать или содержать мусор — всё проходит через Normalize.
type RawDraft struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	// Deadline — уже разрешённый абсолютный момент; имеет приоритет над DeadlineText
	Deadline     *time.Time `json:"deadline,omitempty"`
	DeadlineText *string    `json:"deadline_text,omitempty"`
	Priority     *string    `json:"priority,omitempty"`
	Category     *string    `json:"category,omitempty"`
	Subtasks     []string   `json:"subtasks,omitempty"`
}

// Draft — канонический черновик задачи после валидации.
// Инварианты: Title непустой, Priority всегда из перечисления,
// Deadline либо nil, либо абсолютный момент, Subtasks без пустых строк.
type Draft struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Deadline    *time.Time    `json:"deadline,omitempty"`
	Priority    task.Priority `json:"priority"`
	Category    string        `json:"category"`
	Subtasks    []string      `json:"subtasks"`
}

// ToRaw конвертирует канонический черновик обратно в RawDraft —
// повторная нормализация такого черновика ничего не меняет.
func (d *Draft) ToRaw() RawDraft {
	title := d.Title
	description := d.Description
	priority := string(d.Priority)
	category := d.Category

	raw := RawDraft{
		Title:       &title,
		Description: &description,
		Priority:    &priority,
		Category:    &category,
		Subtasks:    append([]string(nil), d.Subtasks...),
	}
	if d.Deadline != nil {
		deadline := *d.Deadline
		raw.Deadline = &deadline
	}
	return raw
}

// ValidationError — единственный жёсткий отказ нормализации.
// Возвращается только для пустого title, остальные поля деградируют
// до значений по умолчанию.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("поле '%s' не прошло валидацию", e.Field)
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
