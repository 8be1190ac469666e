// Package migrations aplica el esquema del catálogo con goose a partir de SQL embebido,
// un directorio por dialecto.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// Dialect motor de base de datos soportado.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// ParseDialect valida el nombre del driver configurado.
func ParseDialect(s string) (Dialect, error) {
	switch Dialect(s) {
	case Postgres, SQLite:
		return Dialect(s), nil
	default:
		return "", fmt.Errorf("driver de base de datos desconocido %q (postgres|sqlite)", s)
	}
}

// NewProvider construye el provider de goose para el dialecto.
func NewProvider(db *sql.DB, d Dialect) (*goose.Provider, error) {
	var gd goose.Dialect
	switch d {
	case Postgres:
		gd = goose.DialectPostgres
	case SQLite:
		gd = goose.DialectSQLite3
	default:
		return nil, fmt.Errorf("dialecto no soportado %q", d)
	}
	sub, err := fs.Sub(files, string(d))
	if err != nil {
		return nil, fmt.Errorf("migraciones %s: %w", d, err)
	}
	p, err := goose.NewProvider(gd, db, sub)
	if err != nil {
		return nil, fmt.Errorf("provider goose: %w", err)
	}
	return p, nil
}

// Up aplica todas las migraciones pendientes y devuelve las versiones aplicadas.
func Up(ctx context.Context, db *sql.DB, d Dialect) ([]int64, error) {
	p, err := NewProvider(db, d)
	if err != nil {
		return nil, err
	}
	results, err := p.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("aplicar migraciones: %w", err)
	}
	versions := make([]int64, 0, len(results))
	for _, r := range results {
		versions = append(versions, r.Source.Version)
	}
	return versions, nil
}

// Down revierte la última migración aplicada.
func Down(ctx context.Context, db *sql.DB, d Dialect) (int64, error) {
	p, err := NewProvider(db, d)
	if err != nil {
		return 0, err
	}
	r, err := p.Down(ctx)
	if err != nil {
		return 0, fmt.Errorf("revertir migración: %w", err)
	}
	return r.Source.Version, nil
}

// Status versión actual del esquema y cantidad de migraciones pendientes.
func Status(ctx context.Context, db *sql.DB, d Dialect) (current int64, pending int, err error) {
	p, err := NewProvider(db, d)
	if err != nil {
		return 0, 0, err
	}
	statuses, err := p.Status(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("estado de migraciones: %w", err)
	}
	for _, s := range statuses {
		if s.State == goose.StatePending {
			pending++
		}
	}
	current, err = p.GetDBVersion(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("versión del esquema: %w", err)
	}
	return current, pending, nil
}
