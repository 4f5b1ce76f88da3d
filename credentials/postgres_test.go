package credentials_test

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/mgrazal/attic"
	"github.com/mgrazal/attic/credentials"
)

var (
	testPool     *pgxpool.Pool
	testPoolOnce sync.Once
	testCleanup  func()
)

// getSharedTestDatabase returns a shared database pool for all tests.
// This significantly improves test performance by reusing the same container.
func getSharedTestDatabase(t *testing.T) *pgxpool.Pool {
	t.Helper()

	testPoolOnce.Do(func() {
		ctx := context.Background()

		pgContainer, err := pgcontainer.Run(ctx,
			"postgres:18-alpine",
			pgcontainer.WithDatabase("testdb"),
			pgcontainer.WithUsername("testuser"),
			pgcontainer.WithPassword("testpass"),
			pgcontainer.BasicWaitStrategies(),
		)
		if err != nil {
			t.Fatalf("failed to start postgres container: %v", err)
		}

		testCleanup = func() {
			if testPool != nil {
				testPool.Close()
			}
			if err := testcontainers.TerminateContainer(pgContainer); err != nil {
				t.Logf("failed to terminate container: %s", err)
			}
		}

		connectionStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			testCleanup()
			t.Fatalf("failed to get connection string: %v", err)
		}

		pool, err := pgxpool.New(ctx, connectionStr)
		if err != nil {
			testCleanup()
			t.Fatalf("could not connect to database: %v", err)
		}

		testPool = pool
	})

	return testPool
}

// getRandomString generates a random string for unique test identifiers.
func getRandomString(t *testing.T) string {
	t.Helper()
	n, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	require.NoError(t, err, "random string")
	return fmt.Sprintf("test%x", n.Int64())
}

// dropTable drops the specified table for test cleanup.
func dropTable(ctx context.Context, pool *pgxpool.Pool, tableName string) error {
	quotedTable := pgx.Identifier{tableName}.Sanitize()
	sql := fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", quotedTable)
	_, err := pool.Exec(ctx, sql)
	return err
}

// setupPostgresChecker creates a checker with a unique table name for test
// isolation on the shared container.
func setupPostgresChecker(t *testing.T) *credentials.PostgresChecker {
	t.Helper()

	pool := getSharedTestDatabase(t)
	ctx := context.Background()

	tableName := fmt.Sprintf("users_%s", getRandomString(t))

	checker, err := credentials.OpenPostgres(ctx, pool.Config().ConnString(), tableName)
	require.NoError(t, err, "failed to open postgres checker")

	t.Cleanup(func() {
		_ = checker.Close()
		_ = dropTable(ctx, pool, tableName)
	})

	return checker
}

func TestPostgresChecker_SetAndLookup(t *testing.T) {
	checker := setupPostgresChecker(t)
	ctx := context.Background()

	require.NoError(t, checker.SetUser(ctx, "alice", "pw1"))

	secret, err := checker.Lookup(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "pw1", secret)
}

func TestPostgresChecker_SetUserUpserts(t *testing.T) {
	checker := setupPostgresChecker(t)
	ctx := context.Background()

	require.NoError(t, checker.SetUser(ctx, "alice", "old"))
	require.NoError(t, checker.SetUser(ctx, "alice", "new"))

	secret, err := checker.Lookup(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "new", secret)
}

func TestPostgresChecker_UnknownUser(t *testing.T) {
	checker := setupPostgresChecker(t)

	_, err := checker.Lookup(context.Background(), "mallory")
	assert.ErrorIs(t, err, attic.ErrUnauthorized)
}

func TestOpenPostgres_InvalidTableName(t *testing.T) {
	_, err := credentials.OpenPostgres(context.Background(), "postgres://localhost/none", "Bad-Name")
	assert.ErrorContains(t, err, "invalid table name")
}

func TestNewChecker_PostgresBackend(t *testing.T) {
	pool := getSharedTestDatabase(t)
	ctx := context.Background()

	tableName := fmt.Sprintf("users_%s", getRandomString(t))
	t.Cleanup(func() { _ = dropTable(ctx, pool, tableName) })

	checker, closeFn, err := credentials.NewChecker(ctx, credentials.Config{
		Backend: "postgres",
		DSN:     pool.Config().ConnString(),
		Table:   tableName,
	})
	require.NoError(t, err)
	defer func() { _ = closeFn() }()

	pg, ok := checker.(*credentials.PostgresChecker)
	require.True(t, ok)

	require.NoError(t, pg.SetUser(ctx, "alice", "pw"))

	secret, err := checker.Lookup(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "pw", secret)
}
