package domain

import "errors"

// Сентинельные ошибки бизнес-слоя. Хендлеры маппят их в HTTP-статусы
// (404/403/400), всё остальное считается внутренней ошибкой.
var (
	ErrNotFound     = errors.New("entity not found")
	ErrForbidden    = errors.New("operation not permitted for role")
	ErrInvalidInput = errors.New("invalid input")
)
