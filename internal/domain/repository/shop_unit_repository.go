package repository

import (
	"context"
	"time"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// ShopUnitRepository define el puerto de persistencia para ShopUnit (DIP).
type ShopUnitRepository interface {
	// GetByID devuelve nil, nil si el nodo no existe.
	GetByID(ctx context.Context, id string) (*entity.ShopUnit, error)
	// GetByIDs devuelve solo los ids encontrados.
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.ShopUnit, error)
	// Upsert inserta o actualiza todas las columnas por id, en sentencias acotadas por MaxQueryArgs.
	Upsert(ctx context.Context, units []*entity.ShopUnit) error
	// BumpDates lleva date a max(date, at) para todos los ids.
	BumpDates(ctx context.Context, ids []string, at time.Time) error
	// ListOffersWithHistoryBetween ofertas con alguna entrada de historial en [start, end].
	ListOffersWithHistoryBetween(ctx context.Context, start, end time.Time) ([]*entity.ShopUnit, error)
	DeleteByIDs(ctx context.Context, ids []string) error
}
