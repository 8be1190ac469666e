package catalog_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	appcatalog "github.com/jhoicas/catalogo-api/internal/application/catalog"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
	"github.com/jhoicas/catalogo-api/internal/infrastructure/sqlite"
)

// Ids y fechas de los lotes de aceptación.
const (
	rootID    = "069cb8d7-bbdd-47d3-ad8f-82ef4c269df1"
	phonesID  = "d515e43f-f3f6-4471-bb77-6b455017a2d2"
	jPhoneID  = "863e1a7a-1304-42ae-943b-179184c077e3"
	xomiaID   = "b1d8fd7d-2ae3-47d5-b2f9-0f094af800d4"
	tvID      = "1cc0129a-2bfe-474c-9ee6-d435bf5fc8f2"
	samsonID  = "98883e8f-0507-482f-bce2-2fb306cf6483"
	phyllisID = "74b81fda-9cdc-4b63-8927-c978afed5cf4"
	goldID    = "73bc3b36-02d1-4245-ab35-3106c9ee1c65"
)

var (
	d1 = time.Date(2022, 2, 1, 12, 0, 0, 0, time.UTC)
	d2 = time.Date(2022, 2, 2, 12, 0, 0, 0, time.UTC)
	d3 = time.Date(2022, 2, 3, 12, 0, 0, 0, time.UTC)
	d4 = time.Date(2022, 2, 3, 15, 0, 0, 0, time.UTC)
)

type batch struct {
	items []*entity.ShopUnit
	date  time.Time
}

func price(v int64) *int64 { return &v }

func category(id, name, parent string) *entity.ShopUnit {
	return &entity.ShopUnit{ID: id, Name: name, Kind: entity.KindCategory, ParentID: parent}
}

func offer(id, name, parent string, p int64) *entity.ShopUnit {
	return &entity.ShopUnit{ID: id, Name: name, Kind: entity.KindOffer, ParentID: parent, Price: price(p)}
}

func acceptanceBatches() []batch {
	return []batch{
		{date: d1, items: []*entity.ShopUnit{category(rootID, "Товары", "")}},
		{date: d2, items: []*entity.ShopUnit{
			category(phonesID, "Смартфоны", rootID),
			offer(jPhoneID, "jPhone 13", phonesID, 79999),
			offer(xomiaID, "Xomiа Readme 10", phonesID, 59999),
		}},
		{date: d3, items: []*entity.ShopUnit{
			category(tvID, "Телевизоры", rootID),
			offer(samsonID, `Samson 70" LED UHD Smart`, tvID, 32999),
			offer(phyllisID, `Phyllis 50" LED UHD Smarter`, tvID, 49999),
		}},
		{date: d4, items: []*entity.ShopUnit{
			offer(goldID, `Goldstar 65" LED UHD LOL Very Smart`, tvID, 69999),
		}},
	}
}

// ─── entorno ────────────────────────────────────────────────────────────────

type env struct {
	db      *sql.DB
	tx      appcatalog.TxRunner
	units   repository.ShopUnitRepository
	edges   repository.EdgeRepository
	history repository.HistoryRepository
	imports *appcatalog.ImportUseCase
	queries *appcatalog.QueryUseCase
	deletes *appcatalog.DeleteUseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return newEnvWithRunner(db, sqlite.NewTxRunner(db))
}

func newEnvWithRunner(db *sql.DB, tx appcatalog.TxRunner) *env {
	log := zerolog.Nop()
	e := &env{
		db:      db,
		tx:      tx,
		units:   sqlite.NewShopUnitRepository(db),
		edges:   sqlite.NewEdgeRepository(db),
		history: sqlite.NewHistoryRepository(db),
	}
	e.imports = appcatalog.NewImportUseCase(tx, 0, log)
	e.queries = appcatalog.NewQueryUseCase(e.units, e.edges, e.history, 0, log)
	e.deletes = appcatalog.NewDeleteUseCase(tx, log)
	return e
}

func (e *env) importAll(t *testing.T, batches []batch) {
	t.Helper()
	for i, b := range batches {
		require.NoError(t, e.imports.ImportBatch(context.Background(), b.items, b.date), "lote %d", i)
	}
}

// flakyRunner falla la llamada número failOn y delega el resto.
type flakyRunner struct {
	inner  appcatalog.TxRunner
	calls  int
	failOn int
	err    error
}

func (r *flakyRunner) Run(ctx context.Context, fn func(
	repository.ShopUnitRepository,
	repository.EdgeRepository,
	repository.HistoryRepository,
) error) error {
	r.calls++
	if r.calls == r.failOn {
		return r.err
	}
	return r.inner.Run(ctx, fn)
}

// countingUnits cuenta las lecturas de raíz al armar árboles.
type countingUnits struct {
	repository.ShopUnitRepository
	getByID int
}

func (c *countingUnits) GetByID(ctx context.Context, id string) (*entity.ShopUnit, error) {
	c.getByID++
	return c.ShopUnitRepository.GetByID(ctx, id)
}
