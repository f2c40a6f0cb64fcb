// Package testutil renders repository SQL through the postgres dialector
// without a database server.
package testutil

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var errNoDatabase = errors.New("dry run: no database")

type (
	Statement struct {
		SQL  string
		Vars []any
	}

	// Recorder keeps every rendered statement in execution order. Explicit
	// transactions show up as BEGIN and COMMIT entries.
	Recorder struct {
		mu         sync.Mutex
		statements []Statement
	}
)

func (r *Recorder) add(sql string, vars []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statements = append(r.statements, Statement{
		SQL:  strings.Join(strings.Fields(sql), " "),
		Vars: append([]any(nil), vars...),
	})
}

func (r *Recorder) Statements() []Statement {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Statement(nil), r.statements...)
}

// SQL lists the statement texts only.
func (r *Recorder) SQL() []string {
	statements := r.Statements()
	out := make([]string, 0, len(statements))
	for _, s := range statements {
		out = append(out, s.SQL)
	}
	return out
}

// Find returns the first statement containing fragment.
func (r *Recorder) Find(t testing.TB, fragment string) Statement {
	t.Helper()
	for _, s := range r.Statements() {
		if strings.Contains(s.SQL, fragment) {
			return s
		}
	}
	require.Failf(t, "statement not rendered", "no statement contains %q in %v", fragment, r.SQL())
	return Statement{}
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statements = nil
}

// NewDryRunDB opens gorm in dry-run mode. Writes report one affected row so
// code paths guarded by RowsAffected keep going.
func NewDryRunDB(t testing.TB) (*gorm.DB, *Recorder) {
	t.Helper()
	rec := &Recorder{}

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: &pool{rec: rec}}), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err)

	capture := func(db *gorm.DB) {
		rec.add(db.Statement.SQL.String(), db.Statement.Vars)
	}
	affected := func(db *gorm.DB) {
		capture(db)
		if db.Error == nil {
			db.RowsAffected = 1
		}
	}

	cb := db.Callback()
	require.NoError(t, cb.Create().After("gorm:create").Register("testutil:capture", capture))
	require.NoError(t, cb.Query().After("gorm:query").Register("testutil:capture", capture))
	require.NoError(t, cb.Row().After("gorm:row").Register("testutil:capture", capture))
	require.NoError(t, cb.Raw().After("gorm:raw").Register("testutil:capture", affected))
	require.NoError(t, cb.Update().After("gorm:update").Register("testutil:capture", affected))
	require.NoError(t, cb.Delete().After("gorm:delete").Register("testutil:capture", affected))

	return db, rec
}

type noDB struct{}

func (noDB) PrepareContext(context.Context, string) (*sql.Stmt, error) {
	return nil, errNoDatabase
}

func (noDB) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, errNoDatabase
}

func (noDB) QueryContext(context.Context, string, ...any) (*sql.Rows, error) {
	return nil, errNoDatabase
}

func (noDB) QueryRowContext(context.Context, string, ...any) *sql.Row {
	return nil
}

type pool struct {
	noDB
	rec *Recorder
}

func (p *pool) BeginTx(context.Context, *sql.TxOptions) (gorm.ConnPool, error) {
	p.rec.add("BEGIN", nil)
	return &tx{rec: p.rec}, nil
}

type tx struct {
	noDB
	rec *Recorder
}

func (t *tx) Commit() error {
	t.rec.add("COMMIT", nil)
	return nil
}

func (t *tx) Rollback() error {
	t.rec.add("ROLLBACK", nil)
	return nil
}
