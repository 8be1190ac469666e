package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
	"github.com/jhoicas/catalogo-api/pkg/chunk"
)

var _ repository.EdgeRepository = (*EdgeRepo)(nil)

// UNION descarta filas repetidas: la recursión termina también sobre datos con ciclos.
const (
	descendantsQuery = `
		WITH RECURSIVE tree (parent_id, child_id) AS (
			SELECT parent_id, child_id FROM relations WHERE parent_id = $1
			UNION
			SELECT r.parent_id, r.child_id
			FROM relations r JOIN tree t ON r.parent_id = t.child_id
		)
		SELECT parent_id, child_id FROM tree ORDER BY parent_id, child_id`

	ancestorsQuery = `
		WITH RECURSIVE branch (parent_id, child_id) AS (
			SELECT parent_id, child_id FROM relations WHERE child_id = $1
			UNION
			SELECT r.parent_id, r.child_id
			FROM relations r JOIN branch b ON r.child_id = b.parent_id
		)
		SELECT parent_id, child_id FROM branch`
)

// EdgeRepo implementación de EdgeRepository sobre PostgreSQL.
type EdgeRepo struct {
	q       Querier
	maxArgs int
}

// NewEdgeRepository construye el adaptador de aristas. Pasar pool o tx (Querier).
func NewEdgeRepository(q Querier) *EdgeRepo {
	return &EdgeRepo{q: q, maxArgs: chunk.MaxQueryArgs}
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
	rows, err := r.q.Query(ctx, query, id)
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
			valuesList(len(part), cols) + ` ON CONFLICT DO NOTHING`
		if _, err := r.q.Exec(ctx, query, args...); err != nil {
			return wrapWrite("insert relations", err)
		}
	}
	return nil
}

// DetachChildren elimina la arista padre de cada hijo indicado.
func (r *EdgeRepo) DetachChildren(ctx context.Context, childIDs []string) error {
	if len(childIDs) == 0 {
		return nil
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM relations WHERE child_id = ANY($1)`, childIDs); err != nil {
		return fmt.Errorf("detach relations: %w", err)
	}
	return nil
}

// DeleteTouching elimina toda arista cuyo padre o hijo esté en ids.
func (r *EdgeRepo) DeleteTouching(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query := `DELETE FROM relations WHERE parent_id = ANY($1) OR child_id = ANY($1)`
	if _, err := r.q.Exec(ctx, query, ids); err != nil {
		return fmt.Errorf("delete relations: %w", err)
	}
	return nil
}
