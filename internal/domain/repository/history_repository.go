package repository

import (
	"context"
	"time"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// HistoryRepository puerto del historial de precios (solo inserción).
type HistoryRepository interface {
	// Insert agrega entradas; las repetidas (unit, date, price) se ignoran.
	Insert(ctx context.Context, entries []entity.HistoryEntry) error
	// ListByUnit entradas de un nodo en [start, end], ordenadas por fecha.
	ListByUnit(ctx context.Context, unitID string, start, end time.Time) ([]entity.HistoryEntry, error)
	DeleteByUnitIDs(ctx context.Context, ids []string) error
}
