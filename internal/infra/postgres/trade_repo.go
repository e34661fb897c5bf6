package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kislikjeka/tradebook/internal/trade"
)

// uniqueViolation is the Postgres SQLSTATE for a duplicate key
const uniqueViolation = "23505"

// TradeRepository implements trade.Repository using PostgreSQL
type TradeRepository struct {
	pool *pgxpool.Pool
}

// NewTradeRepository creates a new PostgreSQL trade repository
func NewTradeRepository(pool *pgxpool.Pool) *TradeRepository {
	return &TradeRepository{pool: pool}
}

// Append inserts all transactions in a single database transaction
func (r *TradeRepository) Append(ctx context.Context, txs []trade.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	query := `
		INSERT INTO trades (id, user_id, symbol, trade_date, side, price, volume, fee, tax, fee_rate, tax_rate, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	dbTx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, t := range txs {
		date, err := time.Parse(time.DateOnly, t.TradeDate)
		if err != nil {
			return fmt.Errorf("invalid trade date %q for %s: %w", t.TradeDate, t.ID, err)
		}
		batch.Queue(query,
			t.ID,
			t.UserID,
			t.Symbol,
			date,
			string(t.Type),
			t.Price,
			t.Volume,
			t.Fee,
			t.Tax,
			t.FeeRate,
			t.TaxRate,
			t.CreatedAt,
		)
	}

	if err := dbTx.SendBatch(ctx, batch).Close(); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return trade.ErrDuplicateID
		}
		return fmt.Errorf("failed to insert trades: %w", err)
	}

	if err := dbTx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit trades: %w", err)
	}

	return nil
}

// ListByUser retrieves all trades of a user ordered by trade date, then id
func (r *TradeRepository) ListByUser(ctx context.Context, userID string) ([]trade.Transaction, error) {
	query := `
		SELECT id, user_id, symbol, trade_date, side, price, volume, fee, tax, fee_rate, tax_rate, created_at
		FROM trades
		WHERE user_id = $1
		ORDER BY trade_date ASC, id ASC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	txs := []trade.Transaction{}
	for rows.Next() {
		var (
			t    trade.Transaction
			date time.Time
			side string
		)
		if err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.Symbol,
			&date,
			&side,
			&t.Price,
			&t.Volume,
			&t.Fee,
			&t.Tax,
			&t.FeeRate,
			&t.TaxRate,
			&t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		t.TradeDate = date.Format(time.DateOnly)
		t.Type = trade.Side(side)
		txs = append(txs, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trades: %w", err)
	}

	return txs, nil
}

// Ping checks database connectivity
func (r *TradeRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
