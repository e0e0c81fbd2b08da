package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	external_id VARCHAR(191) UNIQUE,
	name VARCHAR(191),
	email VARCHAR(191) UNIQUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS device_tokens (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NULL REFERENCES users(id) ON DELETE SET NULL,
	token VARCHAR(512) NOT NULL UNIQUE,
	platform VARCHAR(32),
	last_seen_at TIMESTAMPTZ NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_device_tokens_user ON device_tokens(user_id);

CREATE TABLE IF NOT EXISTS messages (
	id BIGSERIAL PRIMARY KEY,
	title VARCHAR(191),
	body TEXT,
	data JSONB NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS message_deliveries (
	id BIGSERIAL PRIMARY KEY,
	message_id BIGINT NOT NULL REFERENCES messages(id) ON DELETE CASCADE,
	user_id BIGINT NULL REFERENCES users(id) ON DELETE SET NULL,
	token_id BIGINT NULL REFERENCES device_tokens(id) ON DELETE SET NULL,
	status VARCHAR(16) NOT NULL DEFAULT 'queued'
		CHECK (status IN ('queued', 'sent', 'failed')),
	error TEXT NULL,
	sent_at TIMESTAMPTZ NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_deliveries_message ON message_deliveries(message_id);
CREATE INDEX IF NOT EXISTS idx_deliveries_user ON message_deliveries(user_id);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	external_id TEXT UNIQUE,
	name TEXT,
	email TEXT UNIQUE,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS device_tokens (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NULL REFERENCES users(id) ON DELETE SET NULL,
	token TEXT NOT NULL UNIQUE,
	platform TEXT,
	last_seen_at TIMESTAMP NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_device_tokens_user ON device_tokens(user_id);

CREATE TABLE IF NOT EXISTS messages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT,
	body TEXT,
	data TEXT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS message_deliveries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	message_id INTEGER NOT NULL REFERENCES messages(id) ON DELETE CASCADE,
	user_id INTEGER NULL REFERENCES users(id) ON DELETE SET NULL,
	token_id INTEGER NULL REFERENCES device_tokens(id) ON DELETE SET NULL,
	status TEXT NOT NULL DEFAULT 'queued'
		CHECK (status IN ('queued', 'sent', 'failed')),
	error TEXT NULL,
	sent_at TIMESTAMP NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_deliveries_message ON message_deliveries(message_id);
CREATE INDEX IF NOT EXISTS idx_deliveries_user ON message_deliveries(user_id);
`

// Migrate creates all tables idempotently inside one transaction. A failure
// here is meant to stop the process.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	schema := postgresSchema
	if db.DriverName() == DriverSQLite {
		schema = sqliteSchema
	}

	base := NewBaseRepository(db)
	err := base.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, schema)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
