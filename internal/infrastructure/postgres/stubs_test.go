package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

// execCall sentencia recibida por el stub.
type execCall struct {
	sql  string
	args []any
}

// stubTx implementa pgx.Tx y registra lo que recibe.
type stubTx struct {
	execErr    error
	queryErr   error
	rows       []*stubRows
	row        pgx.Row
	execs      []execCall
	queries    []execCall
	committed  bool
	rolledBack bool
	commitErr  error
}

func (t *stubTx) Begin(context.Context) (pgx.Tx, error) { return t, nil }
func (t *stubTx) Commit(context.Context) error {
	if t.commitErr != nil {
		return t.commitErr
	}
	t.committed = true
	return nil
}
func (t *stubTx) Rollback(context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}
func (t *stubTx) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *stubTx) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults { return fakeBatchResults{} }
func (t *stubTx) LargeObjects() pgx.LargeObjects                         { return pgx.LargeObjects{} }
func (t *stubTx) Prepare(context.Context, string, string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *stubTx) Conn() *pgx.Conn { return nil }

func (t *stubTx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	t.execs = append(t.execs, execCall{sql: sql, args: args})
	if t.execErr != nil {
		return pgconn.CommandTag{}, t.execErr
	}
	return pgconn.CommandTag{}, nil
}

func (t *stubTx) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	t.queries = append(t.queries, execCall{sql: sql, args: args})
	if t.queryErr != nil {
		return nil, t.queryErr
	}
	if len(t.rows) > 0 {
		r := t.rows[0]
		t.rows = t.rows[1:]
		return r, nil
	}
	return &stubRows{}, nil
}

func (t *stubTx) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	t.queries = append(t.queries, execCall{sql: sql, args: args})
	if t.row != nil {
		r := t.row
		t.row = nil
		return r
	}
	return stubRow{err: pgx.ErrNoRows}
}

// stubBeginner entrega siempre la misma tx.
type stubBeginner struct {
	tx  *stubTx
	err error
}

func (b *stubBeginner) Begin(context.Context) (pgx.Tx, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.tx, nil
}

type stubRow struct {
	vals []any
	err  error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.vals) {
		return fmt.Errorf("scan: %d destinos para %d valores", len(dest), len(r.vals))
	}
	for i, v := range r.vals {
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case **string:
			if v == nil {
				*d = nil
			} else {
				s := v.(string)
				*d = &s
			}
		case *int64:
			*d = v.(int64)
		case **int64:
			if v == nil {
				*d = nil
			} else {
				n := v.(int64)
				*d = &n
			}
		case *time.Time:
			*d = v.(time.Time)
		default:
			return errors.New("tipo de destino no soportado")
		}
	}
	return nil
}

type stubRows struct {
	idx  int
	rows [][]any
	err  error
}

func (r *stubRows) Close()                        {}
func (r *stubRows) Err() error                    { return r.err }
func (r *stubRows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }
func (r *stubRows) FieldDescriptions() []pgconn.FieldDescription {
	return nil
}
func (r *stubRows) Next() bool {
	return r.idx < len(r.rows)
}
func (r *stubRows) Scan(dest ...any) error {
	if r.idx >= len(r.rows) {
		return errors.New("no rows")
	}
	row := r.rows[r.idx]
	r.idx++
	return stubRow{vals: row}.Scan(dest...)
}
func (r *stubRows) Values() ([]any, error) { return nil, nil }
func (r *stubRows) RawValues() [][]byte    { return nil }
func (r *stubRows) Conn() *pgx.Conn        { return nil }

type fakeBatchResults struct{}

func (fakeBatchResults) Exec() (pgconn.CommandTag, error) { return pgconn.CommandTag{}, nil }
func (fakeBatchResults) Query() (pgx.Rows, error)         { return &stubRows{}, nil }
func (fakeBatchResults) QueryRow() pgx.Row                { return stubRow{} }
func (fakeBatchResults) Close() error                     { return nil }

type (
	postgresUnits   = repository.ShopUnitRepository
	postgresEdges   = repository.EdgeRepository
	postgresHistory = repository.HistoryRepository
)
