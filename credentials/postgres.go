package credentials

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mgrazal/attic"
)

// PostgresChecker looks up listing secrets in a Postgres table with username
// and secret columns.
type PostgresChecker struct {
	pool  *pgxpool.Pool
	table string
}

// OpenPostgres connects to the database at dsn and ensures the users table
// exists. An empty table name falls back to "attic_users".
func OpenPostgres(ctx context.Context, dsn, table string) (*PostgresChecker, error) {
	if table == "" {
		table = defaultTableName
	}
	if !IsValidTableName(table) {
		return nil, fmt.Errorf("open postgres: invalid table name %q", table)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	c := &PostgresChecker{pool: pool, table: table}
	if err := c.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return c, nil
}

func (c *PostgresChecker) quotedTable() string {
	return pgx.Identifier{c.table}.Sanitize()
}

func (c *PostgresChecker) migrate(ctx context.Context) error {
	query := fmt.Sprintf( //nolint:gosec // table name is validated
		`CREATE TABLE IF NOT EXISTS %s (
			username TEXT PRIMARY KEY,
			secret TEXT NOT NULL
		)`, c.quotedTable())

	if _, err := c.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("migrate postgres users table: %w", err)
	}
	return nil
}

// SetUser inserts or replaces a user's secret.
func (c *PostgresChecker) SetUser(ctx context.Context, username, secret string) error {
	query := fmt.Sprintf( //nolint:gosec // table name is validated
		`INSERT INTO %s (username, secret) VALUES ($1, $2)
		ON CONFLICT (username) DO UPDATE SET secret = EXCLUDED.secret`, c.quotedTable())

	if _, err := c.pool.Exec(ctx, query, username, secret); err != nil {
		return fmt.Errorf("set user: %w", err)
	}
	return nil
}

// Lookup returns the secret for username.
func (c *PostgresChecker) Lookup(ctx context.Context, username string) (string, error) {
	query := fmt.Sprintf(`SELECT secret FROM %s WHERE username = $1`, c.quotedTable()) //nolint:gosec // table name is validated

	var secret string
	err := c.pool.QueryRow(ctx, query, username).Scan(&secret)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("unknown user %q: %w", username, attic.ErrUnauthorized)
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}
	return secret, nil
}

// Close releases the connection pool.
func (c *PostgresChecker) Close() error {
	c.pool.Close()
	return nil
}
