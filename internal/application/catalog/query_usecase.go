package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/catalogo-api/internal/domain"
	domcatalog "github.com/jhoicas/catalogo-api/internal/domain/catalog"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

// DefaultSalesWindow ventana de GetSales hacia atrás desde la fecha consultada.
const DefaultSalesWindow = 24 * time.Hour

// NodeHistory campos del nodo (sin fecha) y su historial de precios.
type NodeHistory struct {
	ID       string
	Name     string
	Kind     entity.Kind
	ParentID string
	Price    *int64
	Stats    []entity.HistoryEntry
}

// QueryUseCase lecturas del catálogo: árbol, ventas recientes e historial.
type QueryUseCase struct {
	units       repository.ShopUnitRepository
	edges       repository.EdgeRepository
	history     repository.HistoryRepository
	salesWindow time.Duration
	log         zerolog.Logger
}

// NewQueryUseCase construye el caso de uso. salesWindow <= 0 usa DefaultSalesWindow.
func NewQueryUseCase(
	units repository.ShopUnitRepository,
	edges repository.EdgeRepository,
	history repository.HistoryRepository,
	salesWindow time.Duration,
	log zerolog.Logger,
) *QueryUseCase {
	if salesWindow <= 0 {
		salesWindow = DefaultSalesWindow
	}
	return &QueryUseCase{units: units, edges: edges, history: history, salesWindow: salesWindow, log: log}
}

// GetTree devuelve el árbol bajo rootID con los precios de categoría ya agregados.
func (uc *QueryUseCase) GetTree(ctx context.Context, rootID string) (*domcatalog.Node, error) {
	tree, err := loadTree(ctx, uc.units, uc.edges, rootID, uc.log)
	if err != nil {
		countIntegrity("get_tree", err)
		return nil, err
	}
	return tree, nil
}

// GetSales ofertas con historial dentro de [since - ventana, since], ambos extremos incluidos.
func (uc *QueryUseCase) GetSales(ctx context.Context, since time.Time) ([]*entity.ShopUnit, error) {
	end := domcatalog.NormalizeDate(since)
	return uc.units.ListOffersWithHistoryBetween(ctx, end.Add(-uc.salesWindow), end)
}

// GetHistory historial de nodeID en [start, end] junto con su precio actual
// (agregado si es categoría).
func (uc *QueryUseCase) GetHistory(ctx context.Context, nodeID string, start, end time.Time) (*NodeHistory, error) {
	start, end = domcatalog.NormalizeDate(start), domcatalog.NormalizeDate(end)
	if start.After(end) {
		return nil, fmt.Errorf("%w: dateStart posterior a dateEnd", domain.ErrMalformedInput)
	}
	unit, err := uc.units.GetByID(ctx, nodeID)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, domain.ErrNotFound
	}

	out := &NodeHistory{
		ID:       unit.ID,
		Name:     unit.Name,
		Kind:     unit.Kind,
		ParentID: unit.ParentID,
		Price:    unit.Price,
	}
	if unit.IsCategory() {
		tree, err := loadTree(ctx, uc.units, uc.edges, nodeID, uc.log)
		if err != nil {
			countIntegrity("get_history", err)
			return nil, err
		}
		out.Price = tree.Price
	}

	out.Stats, err = uc.history.ListByUnit(ctx, nodeID, start, end)
	if err != nil {
		return nil, err
	}
	return out, nil
}
