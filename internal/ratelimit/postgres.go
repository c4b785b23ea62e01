package ratelimit

import (
	"context"
	"database/sql"
	"log"
	"time"
)

// PostgresLimiter counts requests per key in fixed windows persisted in the
// rate_limits table, so the limit holds across concurrent server instances.
// Each check is a single upsert statement.
type PostgresLimiter struct {
	db     *sql.DB
	limit  int
	window time.Duration
}

func NewPostgresLimiter(db *sql.DB, perWindow int, window time.Duration) *PostgresLimiter {
	if perWindow <= 0 {
		perWindow = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &PostgresLimiter{db: db, limit: perWindow, window: window}
}

func (p *PostgresLimiter) Allow(ctx context.Context, key string) (bool, error) {
	windowStart := time.Now().UTC().Truncate(p.window)
	query := `
		INSERT INTO rate_limits (key, window_start, count)
		VALUES ($1, $2, 1)
		ON CONFLICT (key, window_start) DO UPDATE SET count = rate_limits.count + 1
		RETURNING count
	`
	var count int
	if err := p.db.QueryRowContext(ctx, query, key, windowStart).Scan(&count); err != nil {
		return false, err
	}
	return count <= p.limit, nil
}

// RunJanitor deletes expired window rows until ctx is done.
func (p *PostgresLimiter) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().UTC().Add(-2 * p.window)
			if _, err := p.db.ExecContext(ctx, `DELETE FROM rate_limits WHERE window_start < $1`, cutoff); err != nil {
				log.Printf("rate limit janitor: %v", err)
			}
		}
	}
}
