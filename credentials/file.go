package credentials

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// UserSecret represents a single username/secret pair in a users file.
type UserSecret struct {
	Username string `yaml:"username" mapstructure:"username"`
	Secret   string `yaml:"secret" mapstructure:"secret"`
}

// LoadUsersFromFile loads listing credentials from a YAML file holding a
// list of pairs:
//
//	- username: admin
//	  secret: hunter2
//	- username: ops
//	  secret: s3cret
//
// Entries with an empty username or secret are skipped; on duplicates the
// last one wins. Returns a map of username to secret.
func LoadUsersFromFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from trusted config
	if err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}

	var pairs []UserSecret
	if err := yaml.Unmarshal(data, &pairs); err != nil {
		return nil, fmt.Errorf("parse users file: %w", err)
	}

	users := make(map[string]string, len(pairs))
	for _, p := range pairs {
		if p.Username != "" && p.Secret != "" {
			users[p.Username] = p.Secret
		}
	}

	return users, nil
}
