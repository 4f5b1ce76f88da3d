package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/mgrazal/attic"
)

const defaultTableName = "attic_users"

// SQLiteChecker looks up listing secrets in a SQLite table with username and
// secret columns. Lookups hit the database on every request, so credential
// changes take effect without a restart.
type SQLiteChecker struct {
	db    *sql.DB
	table string
}

// OpenSQLite opens (or creates) the SQLite database at dsn and ensures the
// users table exists. An empty table name falls back to "attic_users".
func OpenSQLite(ctx context.Context, dsn, table string) (*SQLiteChecker, error) {
	if table == "" {
		table = defaultTableName
	}
	if !IsValidTableName(table) {
		return nil, fmt.Errorf("open sqlite: invalid table name %q", table)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	c := &SQLiteChecker{db: db, table: table}
	if err := c.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return c, nil
}

func (c *SQLiteChecker) migrate(ctx context.Context) error {
	query := fmt.Sprintf( //nolint:gosec // table name is validated
		`CREATE TABLE IF NOT EXISTS %q (
			username TEXT PRIMARY KEY,
			secret TEXT NOT NULL
		)`, c.table)

	if _, err := c.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("migrate sqlite users table: %w", err)
	}
	return nil
}

// SetUser inserts or replaces a user's secret.
func (c *SQLiteChecker) SetUser(ctx context.Context, username, secret string) error {
	query := fmt.Sprintf( //nolint:gosec // table name is validated
		`INSERT INTO %q (username, secret) VALUES (?, ?)
		ON CONFLICT(username) DO UPDATE SET secret = excluded.secret`, c.table)

	if _, err := c.db.ExecContext(ctx, query, username, secret); err != nil {
		return fmt.Errorf("set user: %w", err)
	}
	return nil
}

// Lookup returns the secret for username.
func (c *SQLiteChecker) Lookup(ctx context.Context, username string) (string, error) {
	query := fmt.Sprintf(`SELECT secret FROM %q WHERE username = ?`, c.table) //nolint:gosec // table name is validated

	var secret string
	err := c.db.QueryRowContext(ctx, query, username).Scan(&secret)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("unknown user %q: %w", username, attic.ErrUnauthorized)
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}
	return secret, nil
}

// Close releases the database handle.
func (c *SQLiteChecker) Close() error {
	return c.db.Close()
}
