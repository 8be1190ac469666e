package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
	"github.com/jhoicas/catalogo-api/pkg/chunk"
)

var _ repository.HistoryRepository = (*HistoryRepo)(nil)

// HistoryRepo implementación de HistoryRepository sobre SQLite.
type HistoryRepo struct {
	q       Querier
	maxArgs int
}

// NewHistoryRepository construye el adaptador del historial. Pasar db o tx (Querier).
func NewHistoryRepository(q Querier) *HistoryRepo {
	return &HistoryRepo{q: q, maxArgs: maxQueryArgs}
}

// Insert agrega entradas; (unit_id, updated_at, price) repetido se ignora.
func (r *HistoryRepo) Insert(ctx context.Context, entries []entity.HistoryEntry) error {
	const cols = 3
	for _, part := range chunk.Split(entries, chunk.RowsPerStatement(r.maxArgs, cols)) {
		args := make([]any, 0, len(part)*cols)
		for _, e := range part {
			args = append(args, e.UnitID, toMillis(e.Date), e.Price)
		}
		query := `INSERT INTO history (unit_id, updated_at, price) VALUES ` +
			rowsPlaceholders(len(part), cols) + ` ON CONFLICT DO NOTHING`
		if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert history: %w", err)
		}
	}
	return nil
}

// ListByUnit entradas de unitID en [start, end] ordenadas por fecha.
func (r *HistoryRepo) ListByUnit(ctx context.Context, unitID string, start, end time.Time) ([]entity.HistoryEntry, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT unit_id, updated_at, price FROM history
		WHERE unit_id = ? AND updated_at BETWEEN ? AND ?
		ORDER BY updated_at, price`,
		unitID, toMillis(start), toMillis(end),
	)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()
	out := []entity.HistoryEntry{}
	for rows.Next() {
		var (
			e  entity.HistoryEntry
			ms int64
		)
		if err := rows.Scan(&e.UnitID, &ms, &e.Price); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		e.Date = fromMillis(ms)
		out = append(out, e)
	}
	return out, rows.Err()
}

// DeleteByUnitIDs elimina el historial de los nodos indicados.
func (r *HistoryRepo) DeleteByUnitIDs(ctx context.Context, ids []string) error {
	for _, part := range chunk.Split(ids, r.maxArgs) {
		query := `DELETE FROM history WHERE unit_id IN (` + placeholders(len(part)) + `)`
		if _, err := r.q.ExecContext(ctx, query, stringArgs(part)...); err != nil {
			return fmt.Errorf("delete history: %w", err)
		}
	}
	return nil
}
