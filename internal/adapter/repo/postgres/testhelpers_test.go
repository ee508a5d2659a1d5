package postgres_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// rowsStub implements pgx.Rows over in-memory values.
type rowsStub struct {
	data    [][]any
	i       int
	err     error
	scanErr error
	closed  bool
}

func (r *rowsStub) Close()                                       { r.closed = true }
func (r *rowsStub) Err() error                                   { return r.err }
func (r *rowsStub) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *rowsStub) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *rowsStub) RawValues() [][]byte                          { return nil }
func (r *rowsStub) Conn() *pgx.Conn                              { return nil }

func (r *rowsStub) Next() bool {
	if r.i >= len(r.data) {
		return false
	}
	r.i++
	return true
}

func (r *rowsStub) Values() ([]any, error) { return r.data[r.i-1], nil }

func (r *rowsStub) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	row := r.data[r.i-1]
	if len(row) != len(dest) {
		return fmt.Errorf("scan: %d values into %d targets", len(row), len(dest))
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = row[i].(string)
		case *[]string:
			*p = row[i].([]string)
		default:
			return fmt.Errorf("scan: unsupported target %T", d)
		}
	}
	return nil
}

type execCall struct {
	sql  string
	args []any
}

// txStub implements the pgx.Tx methods CandidateRepo uses.
type txStub struct {
	pgx.Tx
	execs      []execCall
	failOn     int
	committed  bool
	rolledBack bool
}

func (t *txStub) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	t.execs = append(t.execs, execCall{sql: sql, args: args})
	if t.failOn > 0 && len(t.execs) == t.failOn {
		return pgconn.CommandTag{}, errors.New("exec failed")
	}
	return pgconn.CommandTag{}, nil
}

func (t *txStub) Commit(context.Context) error   { t.committed = true; return nil }
func (t *txStub) Rollback(context.Context) error { t.rolledBack = true; return nil }

// poolStub implements postgres.PgxPool.
type poolStub struct {
	rows     *rowsStub
	queryErr error
	execErr  error
	tx       *txStub
	lastSQL  string
}

func (p *poolStub) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	p.lastSQL = sql
	return pgconn.CommandTag{}, p.execErr
}

func (p *poolStub) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	p.lastSQL = sql
	if p.queryErr != nil {
		return nil, p.queryErr
	}
	return p.rows, nil
}

func (p *poolStub) BeginTx(context.Context, pgx.TxOptions) (pgx.Tx, error) {
	if p.tx == nil {
		return nil, errors.New("no tx configured")
	}
	return p.tx, nil
}
