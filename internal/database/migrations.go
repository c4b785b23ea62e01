package database

import (
	"context"
	"database/sql"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS payments (
		id UUID PRIMARY KEY,
		transaction_reference TEXT NOT NULL UNIQUE,
		vendor TEXT NOT NULL DEFAULT '',
		vendor_payment_id TEXT NOT NULL DEFAULT '',
		amount NUMERIC,
		currency TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'pending',
		raw_vendor_payload JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_status_updated
		ON payments (status, updated_at)`,
	`CREATE TABLE IF NOT EXISTS rate_limits (
		key TEXT NOT NULL,
		window_start TIMESTAMPTZ NOT NULL,
		count INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (key, window_start)
	)`,
}

// Migrate bootstraps the schema. Statements are idempotent so the service
// can run them unconditionally at startup.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
