package sqlite

import (
	"context"
	"fmt"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
	"github.com/jhoicas/catalogo-api/pkg/chunk"
)

var _ repository.EdgeRepository = (*EdgeRepo)(nil)

// UNION (no UNION ALL) descarta filas repetidas, así que la recursión termina aunque haya ciclos.
const (
	descendantsQuery = `
		WITH RECURSIVE tree (parent_id, child_id) AS (
			SELECT parent_id, child_id FROM relations WHERE parent_id = ?
			UNION
			SELECT r.parent_id, r.child_id
			FROM relations r JOIN tree t ON r.parent_id = t.child_id
		)
		SELECT parent_id, child_id FROM tree ORDER BY parent_id, child_id`

	ancestorsQuery = `
		WITH RECURSIVE branch (parent_id, child_id) AS (
			SELECT parent_id, child_id FROM relations WHERE child_id = ?
			UNION
			SELECT r.parent_id, r.child_id
			FROM relations r JOIN branch b ON r.child_id = b.parent_id
		)
		SELECT parent_id, child_id FROM branch`
)

// EdgeRepo implementación de EdgeRepository sobre SQLite.
type EdgeRepo struct {
	q       Querier
	maxArgs int
}

// NewEdgeRepository construye el adaptador de aristas. Pasar db o tx (Querier).
func NewEdgeRepository(q Querier) *EdgeRepo {
	return &EdgeRepo{q: q, maxArgs: maxQueryArgs}
}

// Descendants aristas alcanzables hacia abajo desde rootID.
func (r *EdgeRepo) Descendants(ctx context.Context, rootID string) ([]entity.Edge, error) {
	edges, err := r.closure(ctx, descendantsQuery, rootID)
	if err != nil {
		return nil, fmt.Errorf("descendants of %s: %w", rootID, err)
	}
	return edges, nil
}

// Ancestors aristas alcanzables hacia arriba desde nodeID.
func (r *EdgeRepo) Ancestors(ctx context.Context, nodeID string) ([]entity.Edge, error) {
	edges, err := r.closure(ctx, ancestorsQuery, nodeID)
	if err != nil {
		return nil, fmt.Errorf("ancestors of %s: %w", nodeID, err)
	}
	return edges, nil
}

func (r *EdgeRepo) closure(ctx context.Context, query, id string) ([]entity.Edge, error) {
	rows, err := r.q.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	edges := []entity.Edge{}
	for rows.Next() {
		var e entity.Edge
		if err := rows.Scan(&e.ParentID, &e.ChildID); err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// Insert agrega aristas ignorando las existentes.
func (r *EdgeRepo) Insert(ctx context.Context, edges []entity.Edge) error {
	const cols = 2
	for _, part := range chunk.Split(edges, chunk.RowsPerStatement(r.maxArgs, cols)) {
		args := make([]any, 0, len(part)*cols)
		for _, e := range part {
			args = append(args, e.ParentID, e.ChildID)
		}
		query := `INSERT INTO relations (parent_id, child_id) VALUES ` +
			rowsPlaceholders(len(part), cols) + ` ON CONFLICT DO NOTHING`
		if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert relations: %w", err)
		}
	}
	return nil
}

// DetachChildren elimina la arista padre de cada hijo indicado.
func (r *EdgeRepo) DetachChildren(ctx context.Context, childIDs []string) error {
	return r.deleteWhere(ctx, "child_id", childIDs)
}

// DeleteTouching elimina toda arista cuyo padre o hijo esté en ids.
func (r *EdgeRepo) DeleteTouching(ctx context.Context, ids []string) error {
	if err := r.deleteWhere(ctx, "parent_id", ids); err != nil {
		return err
	}
	return r.deleteWhere(ctx, "child_id", ids)
}

func (r *EdgeRepo) deleteWhere(ctx context.Context, column string, ids []string) error {
	for _, part := range chunk.Split(ids, r.maxArgs) {
		query := `DELETE FROM relations WHERE ` + column + ` IN (` + placeholders(len(part)) + `)`
		if _, err := r.q.ExecContext(ctx, query, stringArgs(part)...); err != nil {
			return fmt.Errorf("delete relations by %s: %w", column, err)
		}
	}
	return nil
}
