package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kislikjeka/tradebook/internal/infra/sqlite"
	"github.com/kislikjeka/tradebook/internal/trade"
)

func setupTest(t *testing.T) (*sqlite.TradeRepository, *sql.DB, context.Context) {
	ctx := context.Background()
	db, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return sqlite.NewTradeRepository(db), db, ctx
}

func sampleTrade(id, userID, date string) trade.Transaction {
	return trade.Transaction{
		ID:        id,
		UserID:    userID,
		Symbol:    "VNM",
		TradeDate: date,
		Type:      trade.SideBuy,
		Price:     1000,
		Volume:    10,
		Fee:       5,
		Tax:       10,
		FeeRate:   0.0005,
		TaxRate:   0.001,
		CreatedAt: time.Date(2024, 3, 5, 10, 0, 0, 123, time.UTC),
	}
}

func TestTradeRepository_AppendAndList(t *testing.T) {
	repo, _, ctx := setupTest(t)

	require.NoError(t, repo.Append(ctx, []trade.Transaction{
		sampleTrade("u1-1-1", "u1", "2024-03-06"),
		sampleTrade("u1-1-0", "u1", "2024-03-05"),
		sampleTrade("u2-1-0", "u2", "2024-03-01"),
	}))

	txs, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, sampleTrade("u1-1-0", "u1", "2024-03-05"), txs[0])
	assert.Equal(t, "u1-1-1", txs[1].ID)
}

func TestTradeRepository_Append_DuplicateIsAtomic(t *testing.T) {
	repo, _, ctx := setupTest(t)

	require.NoError(t, repo.Append(ctx, []trade.Transaction{sampleTrade("u1-1-0", "u1", "2024-03-05")}))

	err := repo.Append(ctx, []trade.Transaction{
		sampleTrade("u1-2-0", "u1", "2024-03-06"),
		sampleTrade("u1-1-0", "u1", "2024-03-07"),
	})
	assert.ErrorIs(t, err, trade.ErrDuplicateID)

	txs, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestTradeRepository_Append_Empty(t *testing.T) {
	repo, _, ctx := setupTest(t)
	assert.NoError(t, repo.Append(ctx, nil))
}

func TestTradeRepository_ListByUser_Empty(t *testing.T) {
	repo, _, ctx := setupTest(t)

	txs, err := repo.ListByUser(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, txs)
	assert.Empty(t, txs)
}

func TestOpen_PersistsToFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "trades.db")

	db, err := sqlite.Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, sqlite.NewTradeRepository(db).Append(ctx, []trade.Transaction{sampleTrade("u1-1-0", "u1", "2024-03-05")}))
	require.NoError(t, db.Close())

	db, err = sqlite.Open(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	txs, err := sqlite.NewTradeRepository(db).ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestTradeRepository_Ping(t *testing.T) {
	repo, db, ctx := setupTest(t)

	require.NoError(t, repo.Ping(ctx))
	require.NoError(t, db.Close())
	assert.Error(t, repo.Ping(ctx))
}
