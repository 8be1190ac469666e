package catalog

import (
	"context"
	"sort"
	"time"

	domcatalog "github.com/jhoicas/catalogo-api/internal/domain/catalog"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

// BranchPropagator lleva la fecha de modificación de un nodo a toda su rama (hasta la raíz).
type BranchPropagator struct {
	units repository.ShopUnitRepository
	edges repository.EdgeRepository
}

// NewBranchPropagator construye el propagador sobre los repositorios dados (pool o tx).
func NewBranchPropagator(units repository.ShopUnitRepository, edges repository.EdgeRepository) *BranchPropagator {
	return &BranchPropagator{units: units, edges: edges}
}

// Branch devuelve nodeID y todos sus ancestros. Un ciclo o un nodo con dos padres es ErrDataIntegrity.
func (p *BranchPropagator) Branch(ctx context.Context, nodeID string) ([]string, error) {
	up, err := p.edges.Ancestors(ctx, nodeID)
	if err != nil {
		return nil, err
	}
	chain, err := domcatalog.AncestorChain(nodeID, up)
	if err != nil {
		return nil, err
	}
	return domcatalog.BranchIDs(nodeID, chain), nil
}

// Propagate lleva la fecha de la unión de las ramas de nodeIDs a max(fecha actual, at).
// Cada rama recibe además la fecha del propio nodo si es posterior a at (un subárbol
// movido con fechas más recientes). La fecha nunca retrocede.
func (p *BranchPropagator) Propagate(ctx context.Context, nodeIDs []string, at time.Time) error {
	if len(nodeIDs) == 0 {
		return nil
	}
	at = domcatalog.NormalizeDate(at)
	records, err := p.units.GetByIDs(ctx, nodeIDs)
	if err != nil {
		return err
	}

	target := make(map[string]time.Time)
	for _, id := range nodeIDs {
		d := at
		if rec, ok := records[id]; ok && rec.Date.After(d) {
			d = domcatalog.NormalizeDate(rec.Date)
		}
		branch, err := p.Branch(ctx, id)
		if err != nil {
			return err
		}
		for _, b := range branch {
			if cur, ok := target[b]; !ok || d.After(cur) {
				target[b] = d
			}
		}
	}

	byDate := make(map[time.Time][]string)
	for id, d := range target {
		byDate[d] = append(byDate[d], id)
	}
	dates := make([]time.Time, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	for _, d := range dates {
		ids := byDate[d]
		sort.Strings(ids)
		if err := p.units.BumpDates(ctx, ids, d); err != nil {
			return err
		}
	}
	return nil
}
