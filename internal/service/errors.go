// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import "errors"

var (
	// ErrNotFound — запись не найдена (в т.ч. по slug и legacy id).
	ErrNotFound = errors.New("запись не найдена")
	// ErrValidation — ошибка валидации входных данных.
	ErrValidation = errors.New("ошибка валидации")
)
