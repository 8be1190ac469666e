package postgres_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/infrastructure/postgres"
)

var t0 = time.Date(2022, 2, 1, 12, 0, 0, 0, time.UTC)

func price(v int64) *int64 { return &v }

// ─── ShopUnitRepo ───────────────────────────────────────────────────────────

func TestShopUnitRepo_GetByID_NoExiste(t *testing.T) {
	tx := &stubTx{}
	got, err := postgres.NewShopUnitRepository(tx).GetByID(context.Background(), "x")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestShopUnitRepo_GetByID_Escanea(t *testing.T) {
	tx := &stubTx{row: stubRow{vals: []any{"o1", "Phone", "OFFER", "c1", int64(79999), t0}}}
	got, err := postgres.NewShopUnitRepository(tx).GetByID(context.Background(), "o1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entity.KindOffer, got.Kind)
	assert.Equal(t, "c1", got.ParentID)
	assert.Equal(t, int64(79999), *got.Price)
	assert.True(t, got.Date.Equal(t0))
}

func TestShopUnitRepo_GetByIDs_UsaAny(t *testing.T) {
	tx := &stubTx{rows: []*stubRows{{rows: [][]any{
		{"root", "Root", "CATEGORY", nil, nil, t0},
		{"o1", "Phone", "OFFER", "root", int64(10), t0},
	}}}}
	got, err := postgres.NewShopUnitRepository(tx).GetByIDs(context.Background(), []string{"root", "o1"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Empty(t, got["root"].ParentID)
	assert.Nil(t, got["root"].Price)

	require.Len(t, tx.queries, 1)
	assert.Contains(t, tx.queries[0].sql, "= ANY($1)")
	assert.Equal(t, []any{[]string{"root", "o1"}}, tx.queries[0].args)
}

func TestShopUnitRepo_GetByIDs_VacioNoConsulta(t *testing.T) {
	tx := &stubTx{}
	got, err := postgres.NewShopUnitRepository(tx).GetByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, tx.queries)
}

func TestShopUnitRepo_Upsert_PartePorTopeDeParametros(t *testing.T) {
	tx := &stubTx{}
	// 6 columnas, tope 13: dos filas por sentencia → 5 filas en 3 sentencias.
	repo := postgres.NewShopUnitRepositoryWithMaxArgs(tx, 13)
	var units []*entity.ShopUnit
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		units = append(units, &entity.ShopUnit{ID: id, Name: id, Kind: entity.KindOffer, Price: price(1), Date: t0})
	}

	require.NoError(t, repo.Upsert(context.Background(), units))

	require.Len(t, tx.execs, 3)
	assert.Len(t, tx.execs[0].args, 12)
	assert.Len(t, tx.execs[2].args, 6)
	assert.Contains(t, tx.execs[0].sql, "($1, $2, $3, $4, $5, $6), ($7, $8, $9, $10, $11, $12)")
	assert.Contains(t, tx.execs[0].sql, "ON CONFLICT (id) DO UPDATE")
	assert.Contains(t, tx.execs[0].sql, "GREATEST(shop_units.date, EXCLUDED.date)")
}

func TestShopUnitRepo_Upsert_RaizSinParentID(t *testing.T) {
	tx := &stubTx{}
	root := &entity.ShopUnit{ID: "r", Name: "Root", Kind: entity.KindCategory, Date: t0}

	require.NoError(t, postgres.NewShopUnitRepository(tx).Upsert(context.Background(), []*entity.ShopUnit{root}))

	require.Len(t, tx.execs, 1)
	parent, ok := tx.execs[0].args[3].(*string)
	require.True(t, ok)
	assert.Nil(t, parent)
}

func TestShopUnitRepo_Upsert_UnicidadEsDuplicado(t *testing.T) {
	tx := &stubTx{execErr: &pgconn.PgError{Code: "23505"}}
	err := postgres.NewShopUnitRepository(tx).Upsert(context.Background(), []*entity.ShopUnit{
		{ID: "a", Name: "a", Kind: entity.KindOffer, Price: price(1), Date: t0},
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestShopUnitRepo_BumpDates(t *testing.T) {
	tx := &stubTx{}
	repo := postgres.NewShopUnitRepository(tx)

	require.NoError(t, repo.BumpDates(context.Background(), nil, t0))
	assert.Empty(t, tx.execs)

	require.NoError(t, repo.BumpDates(context.Background(), []string{"a", "b"}, t0))
	require.Len(t, tx.execs, 1)
	assert.Contains(t, tx.execs[0].sql, "GREATEST(date, $2)")
	assert.Equal(t, []any{[]string{"a", "b"}, t0}, tx.execs[0].args)
}

func TestShopUnitRepo_ListOffersWithHistoryBetween(t *testing.T) {
	tx := &stubTx{rows: []*stubRows{{rows: [][]any{
		{"o1", "TV", "OFFER", "tv", int64(32999), t0},
	}}}}
	got, err := postgres.NewShopUnitRepository(tx).
		ListOffersWithHistoryBetween(context.Background(), t0.Add(-24*time.Hour), t0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Contains(t, tx.queries[0].sql, "BETWEEN $1 AND $2")
}

// ─── EdgeRepo ───────────────────────────────────────────────────────────────

func TestEdgeRepo_Descendants(t *testing.T) {
	tx := &stubTx{rows: []*stubRows{{rows: [][]any{
		{"root", "a"},
		{"a", "b"},
	}}}}
	got, err := postgres.NewEdgeRepository(tx).Descendants(context.Background(), "root")
	require.NoError(t, err)
	assert.Equal(t, []entity.Edge{{ParentID: "root", ChildID: "a"}, {ParentID: "a", ChildID: "b"}}, got)

	sql := tx.queries[0].sql
	assert.Contains(t, sql, "WITH RECURSIVE")
	assert.Contains(t, sql, "UNION")
	assert.NotContains(t, sql, "UNION ALL")
}

func TestEdgeRepo_Ancestors_SinRelacionesEsVacio(t *testing.T) {
	tx := &stubTx{}
	got, err := postgres.NewEdgeRepository(tx).Ancestors(context.Background(), "solo")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestEdgeRepo_ErrorDeConsulta(t *testing.T) {
	tx := &stubTx{queryErr: errors.New("conn reset")}
	_, err := postgres.NewEdgeRepository(tx).Ancestors(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ancestors of x")
}

func TestEdgeRepo_Insert_Bloques(t *testing.T) {
	tx := &stubTx{}
	repo := postgres.NewEdgeRepositoryWithMaxArgs(tx, 5)
	edges := []entity.Edge{{ParentID: "p", ChildID: "a"}, {ParentID: "p", ChildID: "b"}, {ParentID: "p", ChildID: "c"}}

	require.NoError(t, repo.Insert(context.Background(), edges))

	require.Len(t, tx.execs, 2)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(tx.execs[0].sql), "ON CONFLICT DO NOTHING"))
	assert.Equal(t, []any{"p", "a", "p", "b"}, tx.execs[0].args)
	assert.Equal(t, []any{"p", "c"}, tx.execs[1].args)
}

func TestEdgeRepo_DeleteTouchingYDetach(t *testing.T) {
	tx := &stubTx{}
	repo := postgres.NewEdgeRepository(tx)

	require.NoError(t, repo.DetachChildren(context.Background(), nil))
	require.NoError(t, repo.DeleteTouching(context.Background(), nil))
	assert.Empty(t, tx.execs)

	require.NoError(t, repo.DetachChildren(context.Background(), []string{"a"}))
	require.NoError(t, repo.DeleteTouching(context.Background(), []string{"a", "b"}))
	require.Len(t, tx.execs, 2)
	assert.Contains(t, tx.execs[0].sql, "child_id = ANY($1)")
	assert.Contains(t, tx.execs[1].sql, "parent_id = ANY($1) OR child_id = ANY($1)")
}

// ─── HistoryRepo ────────────────────────────────────────────────────────────

func TestHistoryRepo_Insert(t *testing.T) {
	tx := &stubTx{}
	entries := []entity.HistoryEntry{{UnitID: "a", Date: t0, Price: 1}, {UnitID: "b", Date: t0, Price: 2}}

	require.NoError(t, postgres.NewHistoryRepositoryWithMaxArgs(tx, 3).Insert(context.Background(), entries))

	require.Len(t, tx.execs, 2)
	assert.Contains(t, tx.execs[0].sql, "VALUES ($1, $2, $3) ON CONFLICT DO NOTHING")
}

func TestHistoryRepo_ListByUnit(t *testing.T) {
	tx := &stubTx{rows: []*stubRows{{rows: [][]any{
		{"a", t0, int64(10)},
		{"a", t0.Add(time.Hour), int64(12)},
	}}}}
	got, err := postgres.NewHistoryRepository(tx).ListByUnit(context.Background(), "a", t0, t0.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(12), got[1].Price)
	assert.Contains(t, tx.queries[0].sql, "ORDER BY updated_at")
}

// ─── TxRunner ───────────────────────────────────────────────────────────────

func TestTxRunner_Commit(t *testing.T) {
	tx := &stubTx{}
	runner := postgres.NewTxRunner(&stubBeginner{tx: tx})

	err := runner.Run(context.Background(), func(units postgresUnits, edges postgresEdges, history postgresHistory) error {
		return edges.Insert(context.Background(), []entity.Edge{{ParentID: "p", ChildID: "c"}})
	})

	require.NoError(t, err)
	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)
	assert.Len(t, tx.execs, 1)
}

func TestTxRunner_RollbackSiFnFalla(t *testing.T) {
	tx := &stubTx{}
	boom := errors.New("boom")

	err := postgres.NewTxRunner(&stubBeginner{tx: tx}).Run(context.Background(),
		func(postgresUnits, postgresEdges, postgresHistory) error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
}

func TestTxRunner_ErrorAlIniciar(t *testing.T) {
	err := postgres.NewTxRunner(&stubBeginner{err: errors.New("pool cerrado")}).Run(context.Background(),
		func(postgresUnits, postgresEdges, postgresHistory) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "begin transaction")
}

func TestTxRunner_ErrorDeCommit(t *testing.T) {
	tx := &stubTx{commitErr: errors.New("serialization failure")}
	err := postgres.NewTxRunner(&stubBeginner{tx: tx}).Run(context.Background(),
		func(postgresUnits, postgresEdges, postgresHistory) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "commit transaction")
	assert.True(t, tx.rolledBack)
}
