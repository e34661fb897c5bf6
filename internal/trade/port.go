package trade

import "context"

// Repository defines the interface for committed transaction storage.
// The store is append-only.
type Repository interface {
	// Append persists all transactions or none of them
	Append(ctx context.Context, txs []Transaction) error

	// ListByUser returns a user's transactions ordered by trade date, then id
	ListByUser(ctx context.Context, userID string) ([]Transaction, error)
}
