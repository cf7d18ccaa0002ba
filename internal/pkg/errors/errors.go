package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation используется для ошибок валидации входных данных (400).
	ErrValidation = errors.New("validation failed")

	// ErrUnprocessable используется, когда запрос синтаксически верен,
	// но не может быть выполнен (например, игра по несуществующей категории).
	ErrUnprocessable = errors.New("unprocessable")

	// ErrConflict используется для конфликтов состояния (например, нарушение уникальности).
	ErrConflict = errors.New("resource state conflict")
)
