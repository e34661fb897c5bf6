package upload

import (
	"context"
	"time"

	"github.com/kislikjeka/tradebook/internal/ingest"
)

// Store keeps preview batches for a limited time
type Store interface {
	// Save stores the batch, replacing any batch with the same ID
	Save(ctx context.Context, batch *Batch, ttl time.Duration) error

	// Get returns ErrBatchNotFound when the batch is missing or expired
	Get(ctx context.Context, id string) (*Batch, error)
}

// Ingester turns decoded rows into a preview
type Ingester interface {
	Ingest(rows []ingest.RawRow, userID string) (*ingest.Preview, error)
}
