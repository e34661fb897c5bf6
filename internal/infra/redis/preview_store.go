package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kislikjeka/tradebook/internal/upload"
	"github.com/kislikjeka/tradebook/pkg/logger"
)

// KeyPrefix is the prefix for preview batch keys
const KeyPrefix = "preview:"

// PreviewStore is a Redis-backed upload.Store. Expiry is delegated to Redis.
type PreviewStore struct {
	client *redis.Client
	logger *logger.Logger
}

// NewPreviewStore creates a new preview store
func NewPreviewStore(client *redis.Client, log *logger.Logger) *PreviewStore {
	return &PreviewStore{
		client: client,
		logger: log.WithField("component", "preview_store"),
	}
}

// NewClient parses a redis:// URL and verifies the connection
func NewClient(ctx context.Context, url, password string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

func key(id string) string {
	return KeyPrefix + id
}

// Save stores a batch with the given TTL
func (s *PreviewStore) Save(ctx context.Context, batch *upload.Batch, ttl time.Duration) error {
	data, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("failed to marshal batch: %w", err)
	}

	if err := s.client.Set(ctx, key(batch.ID), data, ttl).Err(); err != nil {
		s.logger.Error("cache error", "operation", "set", "batch_id", batch.ID, "error", err)
		return fmt.Errorf("failed to store batch: %w", err)
	}

	return nil
}

// Get retrieves a batch
func (s *PreviewStore) Get(ctx context.Context, id string) (*upload.Batch, error) {
	val, err := s.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		s.logger.Debug("cache miss", "batch_id", id)
		return nil, upload.ErrBatchNotFound
	}
	if err != nil {
		s.logger.Error("cache error", "operation", "get", "batch_id", id, "error", err)
		return nil, fmt.Errorf("failed to get batch: %w", err)
	}

	var batch upload.Batch
	if err := json.Unmarshal(val, &batch); err != nil {
		return nil, fmt.Errorf("failed to unmarshal batch: %w", err)
	}

	return &batch, nil
}

// Ping checks the Redis connection
func (s *PreviewStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
