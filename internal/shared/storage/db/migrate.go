package db

import (
	"context"
	"embed"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationFiles embed.FS

// RunMigrations applies embedded SQL migrations via goose for the handle's dialect.
// If database is nil, it's a no-op.
func RunMigrations(ctx context.Context, database *sqlx.DB) error {
	return Migrate(ctx, database, "up")
}

// Migrate runs a goose command ("up", "down", "status" or "version") against
// the embedded migrations. If database is nil, it's a no-op.
func Migrate(ctx context.Context, database *sqlx.DB, command string) error {
	if database == nil {
		return nil
	}
	dialect, dir, err := migrationSet(database.DriverName())
	if err != nil {
		return err
	}
	goose.SetBaseFS(migrationFiles)
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}

	switch command {
	case "up":
		err = goose.UpContext(ctx, database.DB, dir)
	case "down":
		err = goose.DownContext(ctx, database.DB, dir)
	case "status":
		err = goose.StatusContext(ctx, database.DB, dir)
	case "version":
		err = goose.VersionContext(ctx, database.DB, dir)
	default:
		return fmt.Errorf("unknown migrate command %q", command)
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", command, err)
	}
	return nil
}

func migrationSet(driver string) (dialect string, dir string, err error) {
	switch driver {
	case DriverPostgres:
		return "postgres", "migrations/postgres", nil
	case DriverSQLite:
		return "sqlite3", "migrations/sqlite", nil
	default:
		return "", "", fmt.Errorf("no migrations for driver %q", driver)
	}
}
