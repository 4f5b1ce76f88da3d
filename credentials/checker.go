// Package credentials provides CredentialChecker implementations for the
// directory-listing access guard: an in-memory map, a YAML file loader, and
// SQLite/Postgres-backed stores for deployments that keep secrets in a
// database.
package credentials

import (
	"context"
	"fmt"
	"regexp"

	"github.com/mgrazal/attic"
)

// StaticChecker looks up secrets in an in-memory map. Suitable for
// configuration-file-based credentials.
type StaticChecker struct {
	users map[string]string
}

// NewStaticChecker creates a checker over the given username-to-secret map.
func NewStaticChecker(users map[string]string) *StaticChecker {
	return &StaticChecker{users: users}
}

// Lookup returns the secret for username from the map.
func (s *StaticChecker) Lookup(_ context.Context, username string) (string, error) {
	secret, found := s.users[username]
	if !found {
		return "", fmt.Errorf("unknown user %q: %w", username, attic.ErrUnauthorized)
	}
	return secret, nil
}

var validTableNameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// IsValidTableName checks if a table name is valid (lowercase, alphanumeric
// with underscores, max 63 chars). Backend queries interpolate the table
// name, so anything else is rejected up front.
func IsValidTableName(name string) bool {
	return validTableNameRegex.MatchString(name) && len(name) <= 63
}

// Config selects and configures a credential source. Inline users and a
// users file may be combined; file entries win on duplicates. Backend, when
// set, takes precedence over both.
type Config struct {
	Users   map[string]string `mapstructure:"users"`   // inline username -> secret
	File    string            `mapstructure:"file"`    // YAML file of user/secret pairs
	Backend string            `mapstructure:"backend"` // "", "sqlite", or "postgres"
	DSN     string            `mapstructure:"dsn"`
	Table   string            `mapstructure:"table"`
}

// Empty reports whether no credential source is configured at all, which
// leaves directory listings unprotected.
func (c Config) Empty() bool {
	return len(c.Users) == 0 && c.File == "" && c.Backend == ""
}

// NewChecker builds a CredentialChecker from cfg. The returned close
// function releases any backend connections and is non-nil on success.
// An empty config yields a nil checker (authentication disabled).
func NewChecker(ctx context.Context, cfg Config) (attic.CredentialChecker, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case "":
		if cfg.Empty() {
			return nil, noop, nil
		}

		users := make(map[string]string, len(cfg.Users))
		for name, secret := range cfg.Users {
			if name != "" && secret != "" {
				users[name] = secret
			}
		}
		if cfg.File != "" {
			fileUsers, err := LoadUsersFromFile(cfg.File)
			if err != nil {
				return nil, nil, err
			}
			for name, secret := range fileUsers {
				users[name] = secret
			}
		}
		return NewStaticChecker(users), noop, nil

	case "sqlite":
		checker, err := OpenSQLite(ctx, cfg.DSN, cfg.Table)
		if err != nil {
			return nil, nil, err
		}
		return checker, checker.Close, nil

	case "postgres":
		checker, err := OpenPostgres(ctx, cfg.DSN, cfg.Table)
		if err != nil {
			return nil, nil, err
		}
		return checker, checker.Close, nil

	default:
		return nil, nil, fmt.Errorf("new checker: unknown backend %q", cfg.Backend)
	}
}
