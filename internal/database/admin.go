package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// AdminSeed describes the default admin account.
type AdminSeed struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// PasswordHasher is the subset of the credential hasher the seeder needs.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
}

// EnsureAdmin inserts the default admin row unless a user with that
// username exists. It reports whether a row was created.
func EnsureAdmin(ctx context.Context, db *sql.DB, dialect Dialect, seed AdminSeed, hasher PasswordHasher) (bool, error) {
	var id int64
	err := db.QueryRowContext(ctx, dialect.Rebind("SELECT id FROM users WHERE username = ? LIMIT 1"), seed.Username).Scan(&id)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("failed to check for admin user: %w", err)
	}

	hashed, err := hasher.Hash(seed.Password)
	if err != nil {
		return false, err
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	var email any
	if seed.Email != "" {
		email = seed.Email
	}
	_, err = db.ExecContext(ctx, dialect.Rebind(`
		INSERT INTO users (username, email, password, first_name, last_name, is_admin, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		seed.Username, email, hashed, seed.FirstName, seed.LastName, true, now, now,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create admin user: %w", err)
	}
	return true, nil
}
