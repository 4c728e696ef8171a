package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed sql
var files embed.FS

// Dialects maps a configured database driver to its goose dialect.
var Dialects = map[string]goose.Dialect{
	"mysql":    goose.DialectMySQL,
	"postgres": goose.DialectPostgres,
}

// Source returns the migration files for a driver.
func Source(driver string) (fs.FS, error) {
	if _, ok := Dialects[driver]; !ok {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	return fs.Sub(files, "sql/"+driver)
}

// Run applies a goose command ("up", "down", "status", "version", ...)
// against db using the embedded migrations for driver.
func Run(ctx context.Context, db *sql.DB, driver, command string, args ...string) error {
	fsys, err := Source(driver)
	if err != nil {
		return err
	}
	goose.SetBaseFS(fsys)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(string(Dialects[driver])); err != nil {
		return err
	}
	if err := goose.RunContext(ctx, command, db, ".", args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}
