package di

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-page-composer/data"
	"github.com/goliatone/go-page-composer/internal/runtimeconfig"
)

// OpenDB opens the configured database with the matching bun dialect.
func OpenDB(cfg runtimeconfig.StorageConfig) (*bun.DB, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "sqlite", "sqlite3":
		sqlDB, err := sql.Open("sqlite3", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("di: open sqlite: %w", err)
		}
		// sqlite allows a single writer.
		sqlDB.SetMaxOpenConns(1)
		return bun.NewDB(sqlDB, sqlitedialect.New()), nil
	case "postgres", "pg":
		sqlDB, err := sql.Open("postgres", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("di: open postgres: %w", err)
		}
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("%w: %s", runtimeconfig.ErrStorageDriverUnknown, cfg.Driver)
	}
}

// EnsureSchema applies the embedded migrations in file name order. Every
// statement is idempotent.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	return ApplyMigrations(ctx, db, data.Migrations)
}

// ApplyMigrations executes every *.up.sql file under sql/migrations.
func ApplyMigrations(ctx context.Context, db *bun.DB, fsys fs.FS) error {
	files, err := fs.Glob(fsys, "sql/migrations/*.up.sql")
	if err != nil {
		return fmt.Errorf("di: list migrations: %w", err)
	}
	sort.Strings(files)
	for _, file := range files {
		raw, err := fs.ReadFile(fsys, file)
		if err != nil {
			return fmt.Errorf("di: read migration %s: %w", file, err)
		}
		for _, statement := range strings.Split(string(raw), ";") {
			if strings.TrimSpace(statement) == "" {
				continue
			}
			if _, err := db.ExecContext(ctx, statement); err != nil {
				return fmt.Errorf("di: apply migration %s: %w", path.Base(file), err)
			}
		}
	}
	return nil
}
