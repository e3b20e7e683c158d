package repository

import (
	"context"
	"embed"
	"fmt"

	"github.com/Juan181803/ecommerce-microservice-backend-app2/shared/database"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrations embed.FS

// Migrate applies the schema migrations for the connection's driver.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	var dialect, dir string
	switch db.DriverName() {
	case database.DriverPostgres:
		dialect, dir = "postgres", "migrations/postgres"
	case database.DriverSQLite:
		dialect, dir = "sqlite3", "migrations/sqlite"
	default:
		return fmt.Errorf("no migrations for driver %q", db.DriverName())
	}

	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db.DB, dir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
