package normalizer

// MergeSuggestion накладывает подсказку провайдера на существующий черновик.
// Политика "fill-if-empty": подсказка заполняет только пустые поля и никогда
// не перетирает значение, заданное пользователем, даже невалидное — оно
// деградирует при нормализации, а не подменяется. Сабтаски провайдера
// дописываются после существующих, без дедупликации.
func MergeSuggestion(raw RawDraft, suggestion *RawDraft) RawDraft {
	if suggestion == nil {
		return raw
	}

	merged := raw

	if isBlank(merged.Title) && !isBlank(suggestion.Title) {
		merged.Title = suggestion.Title
	}
	if isBlank(merged.Description) && !isBlank(suggestion.Description) {
		merged.Description = suggestion.Description
	}
	if merged.Deadline == nil && isBlank(merged.DeadlineText) {
		merged.Deadline = suggestion.Deadline
		merged.DeadlineText = suggestion.DeadlineText
	}
	if isBlank(merged.Priority) && !isBlank(suggestion.Priority) {
		merged.Priority = suggestion.Priority
	}
	if isBlank(merged.Category) && !isBlank(suggestion.Category) {
		merged.Category = suggestion.Category
	}

	if len(suggestion.Subtasks) > 0 {
		subtasks := append([]string(nil), merged.Subtasks...)
		merged.Subtasks = append(subtasks, suggestion.Subtasks...)
	}

	return merged
}
