package ratelimit_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"paygate/internal/database"
	"paygate/internal/ratelimit"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("paygate"),
		postgres.WithUsername("paygate"),
		postgres.WithPassword("paygate"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(ctx, db))
	return db
}

func TestPostgresLimiterAllowThenDeny(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	// A wide window keeps every call inside one counting bucket.
	l := ratelimit.NewPostgresLimiter(db, 3, 10*time.Minute)

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "+97455511122")
		require.NoError(t, err)
		assert.True(t, ok, "request %d within limit", i)
	}
	ok, err := l.Allow(ctx, "+97455511122")
	require.NoError(t, err)
	assert.False(t, ok, "limit exhausted for the window")

	ok, err = l.Allow(ctx, "+97455500000")
	require.NoError(t, err)
	assert.True(t, ok, "other keys keep their own budget")
}

func TestPostgresLimiterResetsInNextWindow(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	l := ratelimit.NewPostgresLimiter(db, 1, 500*time.Millisecond)

	ok, err := l.Allow(ctx, "+97455511122")
	require.NoError(t, err)
	assert.True(t, ok)

	// Sleeping past the window length lands in a strictly later bucket.
	time.Sleep(700 * time.Millisecond)

	ok, err = l.Allow(ctx, "+97455511122")
	require.NoError(t, err)
	assert.True(t, ok, "fresh window starts a fresh count")
}

func TestPostgresLimiterJanitorExpiresOldWindows(t *testing.T) {
	db := setupDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := ratelimit.NewPostgresLimiter(db, 1, 100*time.Millisecond)

	ok, err := l.Allow(ctx, "+97455511122")
	require.NoError(t, err)
	assert.True(t, ok)

	// Age the row past the janitor's 2x-window cutoff.
	time.Sleep(400 * time.Millisecond)
	go l.RunJanitor(ctx, 50*time.Millisecond)

	require.Eventually(t, func() bool {
		var n int
		if err := db.QueryRowContext(ctx, `SELECT count(*) FROM rate_limits`).Scan(&n); err != nil {
			return false
		}
		return n == 0
	}, 5*time.Second, 100*time.Millisecond, "expired window rows swept")
}
