// Package testsupport holds helpers shared by repository tests.
package testsupport

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

var dbSeq atomic.Int64

// NewSQLiteMemoryDB opens a named shared-cache in-memory database so every
// call gets an isolated store.
func NewSQLiteMemoryDB() (*sql.DB, error) {
	dsn := fmt.Sprintf("file:testsupport_%d?mode=memory&cache=shared", dbSeq.Add(1))
	return sql.Open("sqlite3", dsn)
}

// NewBunDB returns a sqlite backed bun.DB with a table created for each model.
// The database is closed when the test ends.
func NewBunDB(tb testing.TB, models ...any) *bun.DB {
	tb.Helper()
	sqlDB, err := NewSQLiteMemoryDB()
	if err != nil {
		tb.Fatalf("new sqlite db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	tb.Cleanup(func() {
		_ = db.Close()
	})
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(context.Background()); err != nil {
			tb.Fatalf("create table %T: %v", model, err)
		}
	}
	return db
}
