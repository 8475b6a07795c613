package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound - пользователь, пост или комментарий не найден, либо неверные учетные данные
	ErrNotFound = errors.New("not found")

	// ErrConflict - имя пользователя уже занято
	ErrConflict = errors.New("already exists")

	// ErrUnavailable - хранилище недоступно (временная ошибка, повтор на стороне вызывающего)
	ErrUnavailable = errors.New("storage unavailable")
)

// ValidationError - пустое обязательное поле или недопустимый аргумент
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error (%s): %s", e.Field, e.Message)
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}

// Unavailable оборачивает ошибку драйвера так, чтобы сработал IsUnavailable
func Unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
}
