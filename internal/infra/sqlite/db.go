// Package sqlite is an embedded trade store for single-node deployments and
// local development.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS trades (
	id         TEXT PRIMARY KEY,
	user_id    TEXT    NOT NULL,
	symbol     TEXT    NOT NULL,
	trade_date TEXT    NOT NULL,
	side       TEXT    NOT NULL CHECK (side IN ('BUY', 'SELL')),
	price      REAL    NOT NULL,
	volume     INTEGER NOT NULL,
	fee        REAL    NOT NULL,
	tax        REAL    NOT NULL,
	fee_rate   REAL    NOT NULL,
	tax_rate   REAL    NOT NULL,
	created_at TEXT    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_user_date ON trades (user_id, trade_date, id);
`

// Open opens (creating if needed) the database at path and ensures the schema
// exists. Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", path, err)
	}

	// SQLite allows one writer; a single connection also keeps ":memory:"
	// databases alive across calls.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return db, nil
}
