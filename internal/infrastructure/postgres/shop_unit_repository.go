package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
	"github.com/jhoicas/catalogo-api/pkg/chunk"
)

var _ repository.ShopUnitRepository = (*ShopUnitRepo)(nil)

const shopUnitColumns = `id, name, kind, parent_id, price, date`

// ShopUnitRepo implementación de ShopUnitRepository sobre PostgreSQL (usable con pool o tx).
type ShopUnitRepo struct {
	q       Querier
	maxArgs int
}

// NewShopUnitRepository construye el adaptador de nodos. Pasar pool o tx (Querier).
func NewShopUnitRepository(q Querier) *ShopUnitRepo {
	return &ShopUnitRepo{q: q, maxArgs: chunk.MaxQueryArgs}
}

func scanShopUnit(row pgx.Row) (*entity.ShopUnit, error) {
	var (
		u      entity.ShopUnit
		kind   string
		parent *string
	)
	if err := row.Scan(&u.ID, &u.Name, &kind, &parent, &u.Price, &u.Date); err != nil {
		return nil, err
	}
	u.Kind = entity.Kind(kind)
	if parent != nil {
		u.ParentID = *parent
	}
	u.Date = u.Date.UTC()
	return &u, nil
}

// GetByID obtiene un nodo por id; nil, nil si no existe.
func (r *ShopUnitRepo) GetByID(ctx context.Context, id string) (*entity.ShopUnit, error) {
	query := `SELECT ` + shopUnitColumns + ` FROM shop_units WHERE id = $1`
	u, err := scanShopUnit(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shop unit: %w", err)
	}
	return u, nil
}

// GetByIDs obtiene los nodos existentes entre ids.
func (r *ShopUnitRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.ShopUnit, error) {
	out := make(map[string]*entity.ShopUnit, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query := `SELECT ` + shopUnitColumns + ` FROM shop_units WHERE id = ANY($1)`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get shop units: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		u, err := scanShopUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shop unit: %w", err)
		}
		out[u.ID] = u
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get shop units: %w", err)
	}
	return out, nil
}

// Upsert inserta o actualiza todas las columnas por id, en sentencias de a lo sumo maxArgs parámetros.
// La fecha de una categoría nunca retrocede.
func (r *ShopUnitRepo) Upsert(ctx context.Context, units []*entity.ShopUnit) error {
	const cols = 6
	for _, part := range chunk.Split(units, chunk.RowsPerStatement(r.maxArgs, cols)) {
		args := make([]any, 0, len(part)*cols)
		for _, u := range part {
			var parent *string
			if u.HasParent() {
				p := u.ParentID
				parent = &p
			}
			args = append(args, u.ID, u.Name, string(u.Kind), parent, u.Price, u.Date.UTC())
		}
		query := `
			INSERT INTO shop_units (` + shopUnitColumns + `)
			VALUES ` + valuesList(len(part), cols) + `
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				kind = EXCLUDED.kind,
				parent_id = EXCLUDED.parent_id,
				price = EXCLUDED.price,
				date = CASE WHEN EXCLUDED.kind = 'CATEGORY'
					THEN GREATEST(shop_units.date, EXCLUDED.date)
					ELSE EXCLUDED.date END`
		if _, err := r.q.Exec(ctx, query, args...); err != nil {
			return wrapWrite("upsert shop units", err)
		}
	}
	return nil
}

// BumpDates lleva date a GREATEST(date, at) para todos los ids.
func (r *ShopUnitRepo) BumpDates(ctx context.Context, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE shop_units SET date = GREATEST(date, $2) WHERE id = ANY($1)`
	if _, err := r.q.Exec(ctx, query, ids, at.UTC()); err != nil {
		return fmt.Errorf("bump shop unit dates: %w", err)
	}
	return nil
}

// ListOffersWithHistoryBetween ofertas con alguna entrada de historial en [start, end].
func (r *ShopUnitRepo) ListOffersWithHistoryBetween(ctx context.Context, start, end time.Time) ([]*entity.ShopUnit, error) {
	query := `
		SELECT ` + shopUnitColumns + `
		FROM shop_units u
		WHERE u.kind = 'OFFER'
		  AND EXISTS (
			SELECT 1 FROM history h
			WHERE h.unit_id = u.id AND h.updated_at BETWEEN $1 AND $2
		  )
		ORDER BY u.id`
	rows, err := r.q.Query(ctx, query, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("list offers with history: %w", err)
	}
	defer rows.Close()
	var out []*entity.ShopUnit
	for rows.Next() {
		u, err := scanShopUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shop unit: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// DeleteByIDs elimina los registros indicados.
func (r *ShopUnitRepo) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM shop_units WHERE id = ANY($1)`, ids); err != nil {
		return fmt.Errorf("delete shop units: %w", err)
	}
	return nil
}
