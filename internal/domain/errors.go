package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound       = errors.New("recurso no encontrado")
	ErrInvalidInput   = errors.New("entrada inválida")
	ErrMalformedInput = errors.New("formato de entrada inválido")
	ErrDuplicate      = errors.New("recurso duplicado")
	ErrDataIntegrity  = errors.New("integridad de datos comprometida")
)

// ValidationError describe por qué se rechazó una importación. Envuelve ErrInvalidInput.
type ValidationError struct {
	UnitID string // vacío si el error es del lote completo
	Reason string
}

func (e *ValidationError) Error() string {
	if e.UnitID == "" {
		return "validación: " + e.Reason
	}
	return "validación (" + e.UnitID + "): " + e.Reason
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError construye un ValidationError.
func NewValidationError(unitID, reason string) *ValidationError {
	return &ValidationError{UnitID: unitID, Reason: reason}
}
