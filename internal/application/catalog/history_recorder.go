package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/catalogo-api/internal/domain"
	domcatalog "github.com/jhoicas/catalogo-api/internal/domain/catalog"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

// HistoryBatch estado de un lote de importación para el historial: árboles ya
// recalculados por raíz y el último precio observado por nodo. No se comparte entre lotes.
type HistoryBatch struct {
	date      time.Time
	roots     map[string]*domcatalog.Node
	snapshots map[string]int64
}

// NewHistoryBatch abre un lote con la fecha de importación.
func NewHistoryBatch(date time.Time) *HistoryBatch {
	return &HistoryBatch{
		date:      domcatalog.NormalizeDate(date),
		roots:     make(map[string]*domcatalog.Node),
		snapshots: make(map[string]int64),
	}
}

// Entries devuelve las instantáneas acumuladas ordenadas por id.
func (b *HistoryBatch) Entries() []entity.HistoryEntry {
	out := make([]entity.HistoryEntry, 0, len(b.snapshots))
	for id, price := range b.snapshots {
		out = append(out, entity.HistoryEntry{UnitID: id, Date: b.date, Price: price})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UnitID < out[j].UnitID })
	return out
}

// Roots cantidad de raíces recalculadas en el lote.
func (b *HistoryBatch) Roots() int { return len(b.roots) }

// HistoryRecorder registra el precio de cada nodo en la rama de una oferta modificada.
type HistoryRecorder struct {
	units   repository.ShopUnitRepository
	edges   repository.EdgeRepository
	history repository.HistoryRepository
	log     zerolog.Logger
}

// NewHistoryRecorder construye el recorder sobre los repositorios dados (pool o tx).
func NewHistoryRecorder(
	units repository.ShopUnitRepository,
	edges repository.EdgeRepository,
	history repository.HistoryRepository,
	log zerolog.Logger,
) *HistoryRecorder {
	return &HistoryRecorder{units: units, edges: edges, history: history, log: log}
}

// Record recalcula (una vez por raíz y lote) el árbol que contiene nodeID y guarda en el lote
// el precio de cada nodo del camino raíz → nodeID.
func (r *HistoryRecorder) Record(ctx context.Context, b *HistoryBatch, nodeID string) error {
	up, err := r.edges.Ancestors(ctx, nodeID)
	if err != nil {
		return err
	}
	chain, err := domcatalog.AncestorChain(nodeID, up)
	if err != nil {
		return err
	}
	rootID := domcatalog.RootOf(nodeID, chain)

	tree, ok := b.roots[rootID]
	if !ok {
		tree, err = loadTree(ctx, r.units, r.edges, rootID, r.log)
		if errors.Is(err, domain.ErrNotFound) {
			// la raíz se alcanzó por aristas, no por el llamador
			return fmt.Errorf("%w: raíz %s de %s sin registro", domain.ErrDataIntegrity, rootID, nodeID)
		}
		if err != nil {
			return err
		}
		b.roots[rootID] = tree
	}

	cur := tree
	b.snapshot(cur)
	for i := len(chain) - 1; i >= 0; i-- {
		next := cur.Child(chain[i].ChildID)
		if next == nil {
			return fmt.Errorf("%w: %s no cuelga de %s en el árbol de %s",
				domain.ErrDataIntegrity, chain[i].ChildID, cur.ID, rootID)
		}
		cur = next
		b.snapshot(cur)
	}
	return nil
}

// Flush inserta las instantáneas del lote; las repetidas se ignoran en el store.
func (r *HistoryRecorder) Flush(ctx context.Context, b *HistoryBatch) (int, error) {
	entries := b.Entries()
	if len(entries) == 0 {
		return 0, nil
	}
	if err := r.history.Insert(ctx, entries); err != nil {
		return 0, err
	}
	getMetrics().historyEntries.Add(float64(len(entries)))
	return len(entries), nil
}

func (b *HistoryBatch) snapshot(n *domcatalog.Node) {
	if n.Price == nil {
		return
	}
	b.snapshots[n.ID] = *n.Price
}
