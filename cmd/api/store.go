package main

import (
	"context"
	"database/sql"
	"fmt"

	appcatalog "github.com/jhoicas/catalogo-api/internal/application/catalog"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
	"github.com/jhoicas/catalogo-api/internal/infrastructure/migrations"
	"github.com/jhoicas/catalogo-api/internal/infrastructure/postgres"
	"github.com/jhoicas/catalogo-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/catalogo-api/pkg/config"
)

// store repositorios del backend configurado. db es la vista database/sql
// (migraciones y health check).
type store struct {
	dialect migrations.Dialect
	db      *sql.DB
	tx      appcatalog.TxRunner
	units   repository.ShopUnitRepository
	edges   repository.EdgeRepository
	history repository.HistoryRepository
	close   func()
}

// openStore conecta al backend de cfg.Driver sin tocar el esquema.
func openStore(ctx context.Context, cfg config.DBConfig) (*store, error) {
	dialect, err := migrations.ParseDialect(cfg.Driver)
	if err != nil {
		return nil, err
	}

	switch dialect {
	case migrations.SQLite:
		db, err := sqlite.Connect(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &store{
			dialect: dialect,
			db:      db,
			tx:      sqlite.NewTxRunner(db),
			units:   sqlite.NewShopUnitRepository(db),
			edges:   sqlite.NewEdgeRepository(db),
			history: sqlite.NewHistoryRepository(db),
			close:   func() { _ = db.Close() },
		}, nil

	default:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		db := postgres.OpenDB(pool)
		return &store{
			dialect: dialect,
			db:      db,
			tx:      postgres.NewTxRunner(pool),
			units:   postgres.NewShopUnitRepository(pool),
			edges:   postgres.NewEdgeRepository(pool),
			history: postgres.NewHistoryRepository(pool),
			close: func() {
				_ = db.Close()
				pool.Close()
			},
		}, nil
	}
}
