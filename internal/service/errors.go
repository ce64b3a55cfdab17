package service

import "fmt"

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

func NewNotFound(id int64, err error) *BusinessError {
	return &BusinessError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("задача %d не найдена", id),
		Details: map[string]any{"id": id},
		Err:     err,
	}
}

// NewValidationError собирает все нарушения в одну ошибку:
// ключ - имя поля, значение - список сообщений
func NewValidationError(fields map[string][]string) *BusinessError {
	details := make(map[string]any, len(fields))
	for field, messages := range fields {
		details[field] = messages
	}
	return &BusinessError{
		Code:    "VALIDATION_ERROR",
		Message: "Ошибка валидации",
		Details: details,
	}
}
