package service

import "fmt"

// Коды бизнес-ошибок, которые транслируются в HTTP-статусы на границе
const (
	CodeNotFound            = "NOT_FOUND"
	CodeValidationError     = "VALIDATION_ERROR"
	CodeProviderUnavailable = "PROVIDER_UNAVAILABLE"
	CodeVersionConflict     = "VERSION_CONFLICT"
	CodeTaskDeleted         = "TASK_DELETED"
	CodeNotDeleted          = "NOT_DELETED"
)

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

func NewNotFound(resource, id string) *BusinessError {
	return &BusinessError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %s не найден(а)", resource, id),
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}

func NewValidationError(field, reason string) *BusinessError {
	return &BusinessError{
		Code:    CodeValidationError,
		Message: fmt.Sprintf("Неверное значение поля '%s': %s", field, reason),
		Details: map[string]any{
			"field":  field,
			"reason": reason,
		},
	}
}

// NewProviderUnavailable отличается от ошибки валидации: пользователю
// нужно действие — настроить ключ, а не исправлять ввод
func NewProviderUnavailable(err error) *BusinessError {
	return &BusinessError{
		Code:    CodeProviderUnavailable,
		Message: "Провайдер ИИ недоступен или не настроен",
		Details: map[string]any{
			"hint": "задайте переменную окружения OPENAI_API_KEY",
		},
		Err: err,
	}
}

func NewVersionConflict(id string) *BusinessError {
	return &BusinessError{
		Code:    CodeVersionConflict,
		Message: fmt.Sprintf("Задача %s изменена параллельно, повторите запрос", id),
		Details: map[string]any{
			"id": id,
		},
	}
}

// NewNotDeleted: безвозвратно удалять можно только задачу из корзины
func NewNotDeleted(id string) *BusinessError {
	return &BusinessError{
		Code:    CodeNotDeleted,
		Message: fmt.Sprintf("Задача %s не удалена, сначала выполните обычное удаление", id),
		Details: map[string]any{
			"id": id,
		},
	}
}

func NewTaskDeleted(id string) *BusinessError {
	return &BusinessError{
		Code:    CodeTaskDeleted,
		Message: fmt.Sprintf("Задача %s удалена", id),
		Details: map[string]any{
			"id": id,
		},
	}
}
