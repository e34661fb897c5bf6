// Package memcache keeps preview batches in process memory. It is used when
// no Redis instance is configured.
package memcache

import (
	"context"
	"slices"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/kislikjeka/tradebook/internal/upload"
)

const cleanupInterval = 5 * time.Minute

// PreviewStore is an in-process upload.Store
type PreviewStore struct {
	cache *cache.Cache
}

// NewPreviewStore creates a preview store whose entries expire after
// defaultTTL unless Save is given another TTL.
func NewPreviewStore(defaultTTL time.Duration) *PreviewStore {
	return &PreviewStore{
		cache: cache.New(defaultTTL, cleanupInterval),
	}
}

// Save stores a deep copy of the batch
func (s *PreviewStore) Save(_ context.Context, batch *upload.Batch, ttl time.Duration) error {
	s.cache.Set(batch.ID, cloneBatch(batch), ttl)
	return nil
}

// Get returns a deep copy of the stored batch
func (s *PreviewStore) Get(_ context.Context, id string) (*upload.Batch, error) {
	v, found := s.cache.Get(id)
	if !found {
		return nil, upload.ErrBatchNotFound
	}

	return cloneBatch(v.(*upload.Batch)), nil
}

func cloneBatch(b *upload.Batch) *upload.Batch {
	c := *b
	c.Rows = slices.Clone(b.Rows)
	c.Warnings = slices.Clone(b.Warnings)
	return &c
}

// Ping always succeeds
func (s *PreviewStore) Ping(context.Context) error {
	return nil
}

// Len returns the number of stored batches, including expired ones not yet
// evicted.
func (s *PreviewStore) Len() int {
	return s.cache.ItemCount()
}
