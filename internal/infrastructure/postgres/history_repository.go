package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
	"github.com/jhoicas/catalogo-api/pkg/chunk"
)

var _ repository.HistoryRepository = (*HistoryRepo)(nil)

// HistoryRepo implementación de HistoryRepository sobre PostgreSQL.
type HistoryRepo struct {
	q       Querier
	maxArgs int
}

// NewHistoryRepository construye el adaptador del historial. Pasar pool o tx (Querier).
func NewHistoryRepository(q Querier) *HistoryRepo {
	return &HistoryRepo{q: q, maxArgs: chunk.MaxQueryArgs}
}

// Insert agrega entradas; (unit_id, updated_at, price) repetido se ignora.
func (r *HistoryRepo) Insert(ctx context.Context, entries []entity.HistoryEntry) error {
	const cols = 3
	for _, part := range chunk.Split(entries, chunk.RowsPerStatement(r.maxArgs, cols)) {
		args := make([]any, 0, len(part)*cols)
		for _, e := range part {
			args = append(args, e.UnitID, e.Date.UTC(), e.Price)
		}
		query := `INSERT INTO history (unit_id, updated_at, price) VALUES ` +
			valuesList(len(part), cols) + ` ON CONFLICT DO NOTHING`
		if _, err := r.q.Exec(ctx, query, args...); err != nil {
			return wrapWrite("insert history", err)
		}
	}
	return nil
}

// ListByUnit entradas de unitID en [start, end] ordenadas por fecha.
func (r *HistoryRepo) ListByUnit(ctx context.Context, unitID string, start, end time.Time) ([]entity.HistoryEntry, error) {
	rows, err := r.q.Query(ctx, `
		SELECT unit_id, updated_at, price FROM history
		WHERE unit_id = $1 AND updated_at BETWEEN $2 AND $3
		ORDER BY updated_at, price`,
		unitID, start.UTC(), end.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()
	out := []entity.HistoryEntry{}
	for rows.Next() {
		var e entity.HistoryEntry
		if err := rows.Scan(&e.UnitID, &e.Date, &e.Price); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		e.Date = e.Date.UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

// DeleteByUnitIDs elimina el historial de los nodos indicados.
func (r *HistoryRepo) DeleteByUnitIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM history WHERE unit_id = ANY($1)`, ids); err != nil {
		return fmt.Errorf("delete history: %w", err)
	}
	return nil
}
