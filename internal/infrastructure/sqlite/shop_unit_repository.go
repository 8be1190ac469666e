package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
	"github.com/jhoicas/catalogo-api/pkg/chunk"
)

var _ repository.ShopUnitRepository = (*ShopUnitRepo)(nil)

const shopUnitColumns = `id, name, kind, parent_id, price, date`

// ShopUnitRepo implementación de ShopUnitRepository sobre SQLite (usable con db o tx).
type ShopUnitRepo struct {
	q       Querier
	maxArgs int
}

// NewShopUnitRepository construye el adaptador. Pasar db o tx (Querier).
func NewShopUnitRepository(q Querier) *ShopUnitRepo {
	return &ShopUnitRepo{q: q, maxArgs: maxQueryArgs}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShopUnit(s rowScanner) (*entity.ShopUnit, error) {
	var (
		u      entity.ShopUnit
		kind   string
		parent sql.NullString
		price  sql.NullInt64
		date   int64
	)
	if err := s.Scan(&u.ID, &u.Name, &kind, &parent, &price, &date); err != nil {
		return nil, err
	}
	u.Kind = entity.Kind(kind)
	u.ParentID = parent.String
	if price.Valid {
		p := price.Int64
		u.Price = &p
	}
	u.Date = fromMillis(date)
	return &u, nil
}

// GetByID obtiene un nodo por id; nil, nil si no existe.
func (r *ShopUnitRepo) GetByID(ctx context.Context, id string) (*entity.ShopUnit, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+shopUnitColumns+` FROM shop_units WHERE id = ?`, id)
	u, err := scanShopUnit(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shop unit: %w", err)
	}
	return u, nil
}

// GetByIDs obtiene los nodos existentes entre ids, en bloques de maxArgs parámetros.
func (r *ShopUnitRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.ShopUnit, error) {
	out := make(map[string]*entity.ShopUnit, len(ids))
	for _, part := range chunk.Split(ids, r.maxArgs) {
		query := `SELECT ` + shopUnitColumns + ` FROM shop_units WHERE id IN (` + placeholders(len(part)) + `)`
		if err := r.collect(ctx, query, stringArgs(part), func(u *entity.ShopUnit) { out[u.ID] = u }); err != nil {
			return nil, fmt.Errorf("get shop units: %w", err)
		}
	}
	return out, nil
}

// Upsert inserta o actualiza todas las columnas por id. La fecha de una categoría nunca retrocede.
func (r *ShopUnitRepo) Upsert(ctx context.Context, units []*entity.ShopUnit) error {
	const cols = 6
	for _, part := range chunk.Split(units, chunk.RowsPerStatement(r.maxArgs, cols)) {
		args := make([]any, 0, len(part)*cols)
		for _, u := range part {
			var parent, price any
			if u.HasParent() {
				parent = u.ParentID
			}
			if u.Price != nil {
				price = *u.Price
			}
			args = append(args, u.ID, u.Name, string(u.Kind), parent, price, toMillis(u.Date))
		}
		query := `
			INSERT INTO shop_units (` + shopUnitColumns + `)
			VALUES ` + rowsPlaceholders(len(part), cols) + `
			ON CONFLICT (id) DO UPDATE SET
				name = excluded.name,
				kind = excluded.kind,
				parent_id = excluded.parent_id,
				price = excluded.price,
				date = CASE WHEN excluded.kind = 'CATEGORY'
					THEN max(shop_units.date, excluded.date)
					ELSE excluded.date END`
		if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert shop units: %w", err)
		}
	}
	return nil
}

// BumpDates lleva date a max(date, at) para todos los ids.
func (r *ShopUnitRepo) BumpDates(ctx context.Context, ids []string, at time.Time) error {
	for _, part := range chunk.Split(ids, r.maxArgs-1) {
		args := append([]any{toMillis(at)}, stringArgs(part)...)
		query := `UPDATE shop_units SET date = max(date, ?) WHERE id IN (` + placeholders(len(part)) + `)`
		if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("bump shop unit dates: %w", err)
		}
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
			WHERE h.unit_id = u.id AND h.updated_at BETWEEN ? AND ?
		  )
		ORDER BY u.id`
	var out []*entity.ShopUnit
	if err := r.collect(ctx, query, []any{toMillis(start), toMillis(end)}, func(u *entity.ShopUnit) { out = append(out, u) }); err != nil {
		return nil, fmt.Errorf("list offers with history: %w", err)
	}
	return out, nil
}

// DeleteByIDs elimina los registros indicados.
func (r *ShopUnitRepo) DeleteByIDs(ctx context.Context, ids []string) error {
	for _, part := range chunk.Split(ids, r.maxArgs) {
		query := `DELETE FROM shop_units WHERE id IN (` + placeholders(len(part)) + `)`
		if _, err := r.q.ExecContext(ctx, query, stringArgs(part)...); err != nil {
			return fmt.Errorf("delete shop units: %w", err)
		}
	}
	return nil
}

func (r *ShopUnitRepo) collect(ctx context.Context, query string, args []any, fn func(*entity.ShopUnit)) error {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		u, err := scanShopUnit(rows)
		if err != nil {
			return err
		}
		fn(u)
	}
	return rows.Err()
}
