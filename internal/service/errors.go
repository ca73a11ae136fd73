package service

import (
	"errors"
	"fmt"

	"marketplace-admin/internal/repository"
)

// Errores de negocio exportados (los usa el controller)
var (
	ErrInvalidTransition = errors.New("transición de estado inválida")
	ErrNotFound          = repository.ErrNotFound
	ErrVersionConflict   = repository.ErrVersionConflict
	ErrDriverNotEligible = errors.New("el repartidor no está disponible para esta orden")
	ErrValidation        = errors.New("datos inválidos")
)

// validationError envuelve ErrValidation con el detalle que se muestra al operador.
func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
