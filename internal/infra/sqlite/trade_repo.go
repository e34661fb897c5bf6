package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/kislikjeka/tradebook/internal/trade"
)

// TradeRepository implements trade.Repository on SQLite
type TradeRepository struct {
	db *sql.DB
}

// NewTradeRepository creates a new SQLite trade repository
func NewTradeRepository(db *sql.DB) *TradeRepository {
	return &TradeRepository{db: db}
}

// Append inserts all transactions in a single database transaction
func (r *TradeRepository) Append(ctx context.Context, txs []trade.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	stmt, err := dbTx.PrepareContext(ctx, `
		INSERT INTO trades (id, user_id, symbol, trade_date, side, price, volume, fee, tax, fee_rate, tax_rate, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range txs {
		_, err := stmt.ExecContext(ctx,
			t.ID,
			t.UserID,
			t.Symbol,
			t.TradeDate,
			string(t.Type),
			t.Price,
			t.Volume,
			t.Fee,
			t.Tax,
			t.FeeRate,
			t.TaxRate,
			t.CreatedAt.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			if isDuplicateKey(err) {
				return trade.ErrDuplicateID
			}
			return fmt.Errorf("failed to insert trade %s: %w", t.ID, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit trades: %w", err)
	}

	return nil
}

// ListByUser retrieves all trades of a user ordered by trade date, then id
func (r *TradeRepository) ListByUser(ctx context.Context, userID string) ([]trade.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, symbol, trade_date, side, price, volume, fee, tax, fee_rate, tax_rate, created_at
		FROM trades
		WHERE user_id = ?
		ORDER BY trade_date ASC, id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	txs := []trade.Transaction{}
	for rows.Next() {
		var (
			t         trade.Transaction
			side      string
			createdAt string
		)
		if err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.Symbol,
			&t.TradeDate,
			&side,
			&t.Price,
			&t.Volume,
			&t.Fee,
			&t.Tax,
			&t.FeeRate,
			&t.TaxRate,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		t.Type = trade.Side(side)
		t.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("invalid created_at for trade %s: %w", t.ID, err)
		}
		txs = append(txs, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trades: %w", err)
	}

	return txs, nil
}

// isDuplicateKey reports a duplicate primary key
func isDuplicateKey(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		// primary code only, when extended result codes are off
		return strings.Contains(sqliteErr.Error(), "UNIQUE constraint failed")
	default:
		return false
	}
}

// Ping checks database connectivity
func (r *TradeRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
