package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/lib/pq"   // PostgreSQL driver
	_ "modernc.org/sqlite" // SQLite driver
)

// New opens a connection pool for dsn and verifies it with a ping.
// postgres:// and postgresql:// URLs use lib/pq; sqlite: and file: URLs use
// the pure Go SQLite driver.
func New(ctx context.Context, dsn string) (*sql.DB, Dialect, error) {
	dialect, source, err := parseDSN(dsn)
	if err != nil {
		return nil, Dialect{}, err
	}

	db, err := sql.Open(dialect.driver, source)
	if err != nil {
		return nil, Dialect{}, fmt.Errorf("failed to open database: %w", err)
	}

	if dialect.Name == SQLite {
		// SQLite serializes writers anyway, and a private :memory: database
		// exists only on the connection that created it.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetConnMaxIdleTime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, Dialect{}, fmt.Errorf("failed to reach database: %w", err)
	}
	return db, dialect, nil
}

func parseDSN(dsn string) (Dialect, string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return Dialect{}, "", fmt.Errorf("invalid database url: %w", err)
	}
	switch u.Scheme {
	case "postgres", "postgresql":
		return Postgres(), dsn, nil
	case "sqlite":
		src := strings.TrimPrefix(strings.TrimPrefix(dsn, "sqlite:"), "//")
		if src == "" {
			return Dialect{}, "", fmt.Errorf("sqlite url %q has no path", dsn)
		}
		return SQLiteDialect(), src, nil
	case "file":
		return SQLiteDialect(), dsn, nil
	default:
		return Dialect{}, "", fmt.Errorf("unsupported database scheme %q", u.Scheme)
	}
}
