package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// Migrate applies the embedded schema for dialect. Running it against an
// up-to-date database is a no-op.
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect) error {
	source, err := iofs.New(migrationsFS, "migrations/"+dialect.Name)
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	driver, release, err := migrationDriver(ctx, db, dialect)
	if err != nil {
		source.Close()
		return err
	}

	m, err := migrate.NewWithInstance("iofs", source, dialect.Name, driver)
	if err != nil {
		source.Close()
		release()
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	upErr := m.Up()
	source.Close()
	release()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", upErr)
	}
	return nil
}

// migrationDriver wraps db for golang-migrate. The returned release func
// frees what the driver holds without closing the shared pool.
func migrationDriver(ctx context.Context, db *sql.DB, dialect Dialect) (migratedb.Driver, func(), error) {
	switch dialect.Name {
	case PostgreSQL:
		conn, err := db.Conn(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to acquire migration connection: %w", err)
		}
		driver, err := migratepg.WithConnection(ctx, conn, &migratepg.Config{})
		if err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("failed to create postgres migration driver: %w", err)
		}
		return driver, func() { driver.Close() }, nil
	case SQLite:
		driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create sqlite migration driver: %w", err)
		}
		// The sqlite driver's Close closes db itself, so there is nothing to release.
		return driver, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("no migrations for dialect %q", dialect.Name)
	}
}
