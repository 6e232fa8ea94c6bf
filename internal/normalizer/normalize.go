package normalizer

import (
	"strings"
	"time"

	"taskPlanner/internal/models/task"
)

// Исход нормализации отдельного поля. Наружу исходы схлопываются
// до "черновик готов" / "пустой title", но внутри политика
// деградации остаётся проверяемой по полям.
type fieldState int

const (
	fieldCanonical fieldState = iota
	fieldDefaulted
	fieldInvalid
)

// Normalize производит канонический черновик из недоверенного.
// Чистая функция: часы не читаются, опорное "сейчас" передаёт вызывающий.
// Единственный жёсткий отказ — пустой title; остальные поля деградируют
// независимо друг от друга, битый дедлайн не блокирует валидные сабтаски.
func (n *Normalizer) Normalize(raw RawDraft, now time.Time) (*Draft, error) {
	title := ""
	if raw.Title != nil {
		title = strings.TrimSpace(*raw.Title)
	}
	if title == "" {
		return nil, &ValidationError{Field: "title"}
	}

	description := ""
	if raw.Description != nil {
		description = strings.TrimSpace(*raw.Description)
	}

	deadline, _ := n.normalizeDeadline(raw, now)
	priority, _ := normalizePriority(raw.Priority)
	category, _ := normalizeCategory(raw.Category)

	return &Draft{
		Title:       title,
		Description: description,
		Deadline:    deadline,
		Priority:    priority,
		Category:    category,
		Subtasks:    CleanSubtasks(raw.Subtasks),
	}, nil
}

func (n *Normalizer) normalizeDeadline(raw RawDraft, now time.Time) (*time.Time, fieldState) {
	if raw.Deadline != nil && !raw.Deadline.IsZero() {
		deadline := *raw.Deadline
		return &deadline, fieldCanonical
	}
	if raw.DeadlineText != nil {
		if t, ok := n.ParseDeadline(*raw.DeadlineText, now); ok {
			return &t, fieldCanonical
		}
		if strings.TrimSpace(*raw.DeadlineText) != "" {
			return nil, fieldInvalid
		}
	}
	return nil, fieldDefaulted
}

func normalizePriority(p *string) (task.Priority, fieldState) {
	if p == nil {
		return task.PriorityMedium, fieldDefaulted
	}
	if priority := task.Priority(*p); priority.Known() {
		return priority, fieldCanonical
	}
	return task.PriorityMedium, fieldInvalid
}

func normalizeCategory(c *string) (string, fieldState) {
	if c == nil {
		return "", fieldDefaulted
	}
	return strings.TrimSpace(*c), fieldCanonical
}

// CanonicalPriority приводит произвольную строку к значению перечисления.
// Сравнение с учётом регистра, всё нераспознанное — medium.
func CanonicalPriority(p *string) task.Priority {
	priority, _ := normalizePriority(p)
	return priority
}

// CleanSubtasks отбрасывает пустые строки, обрезает пробелы,
// сохраняет порядок и дубликаты.
func CleanSubtasks(subtasks []string) []string {
	cleaned := make([]string, 0, len(subtasks))
	for _, s := range subtasks {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		cleaned = append(cleaned, s)
	}
	return cleaned
}
