package attic

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Guard enforces Basic authentication on protected directory listings.
// With a nil checker every request is allowed. There is no session state;
// each request re-authenticates from its Authorization header.
type Guard struct {
	checker CredentialChecker
}

// NewGuard creates a Guard backed by checker. A nil checker disables
// authentication entirely.
func NewGuard(checker CredentialChecker) *Guard {
	return &Guard{checker: checker}
}

// Enabled reports whether the guard actually checks credentials.
func (g *Guard) Enabled() bool {
	return g.checker != nil
}

// Authorize checks the Authorization header against the configured
// credentials. A missing or malformed header, an unknown user, or a
// non-matching secret all fail with ErrUnauthorized; user and secret are
// matched exactly and case-sensitively.
func (g *Guard) Authorize(ctx context.Context, header http.Header) error {
	if g.checker == nil {
		return nil
	}

	username, password, err := parseBasicAuth(header.Get("Authorization"))
	if err != nil {
		return err
	}

	secret, err := g.checker.Lookup(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return err
		}
		return fmt.Errorf("credential lookup: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(secret), []byte(password)) != 1 {
		return fmt.Errorf("secret mismatch for %q: %w", username, ErrUnauthorized)
	}

	return nil
}

func parseBasicAuth(value string) (username, password string, err error) {
	const prefix = "Basic "

	if len(value) < len(prefix) || !strings.EqualFold(value[:len(prefix)], prefix) {
		return "", "", fmt.Errorf("missing basic auth header: %w", ErrUnauthorized)
	}

	decoded, err := base64.StdEncoding.DecodeString(value[len(prefix):])
	if err != nil {
		return "", "", fmt.Errorf("malformed basic auth header: %w", ErrUnauthorized)
	}

	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return "", "", fmt.Errorf("malformed basic auth credentials: %w", ErrUnauthorized)
	}

	return username, password, nil
}
