package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/catalogo-api/internal/domain"
)

// DateLayout formato ISO 8601 con milisegundos usado en la frontera.
const DateLayout = "2006-01-02T15:04:05.000Z"

// ParseDate interpreta una fecha ISO 8601 / RFC 3339 (fracción de segundo opcional).
// Nunca cae a un valor por defecto: una cadena vacía o inválida es ErrMalformedInput.
// El resultado se normaliza a UTC y a milisegundos.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: fecha vacía", domain.ErrMalformedInput)
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha %q: %v", domain.ErrMalformedInput, s, err)
	}
	return NormalizeDate(t), nil
}

// NormalizeDate lleva la fecha a UTC con precisión de milisegundos (la que guardan los stores).
func NormalizeDate(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// FormatDate serializa en DateLayout.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
