package db

import "context"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS orders (
		id BIGSERIAL PRIMARY KEY,
		customer TEXT NOT NULL,
		product TEXT NOT NULL,
		quantity INT NOT NULL DEFAULT 1,
		price DOUBLE PRECISION NOT NULL,
		status TEXT NOT NULL DEFAULT 'новый',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS outbox_tasks (
		id UUID PRIMARY KEY,
		status TEXT NOT NULL,
		payload JSONB NOT NULL,
		topic TEXT NOT NULL,
		attempts INT NOT NULL DEFAULT 0,
		last_error TEXT,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		completed_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_outbox_tasks_status ON outbox_tasks (status, updated_at)`,
}

// Migrate applies the schema on startup. Statements are idempotent, so
// running it on every boot is safe.
func (db *Database) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
