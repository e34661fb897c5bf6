package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/kislikjeka/tradebook/internal/decode"
	"github.com/kislikjeka/tradebook/internal/ingest"
	"github.com/kislikjeka/tradebook/pkg/logger"
)

// Service runs the upload -> preview flow
type Service struct {
	ingester Ingester
	store    Store
	ttl      time.Duration
	now      func() time.Time
	logger   *logger.Logger
}

// NewService creates a new upload service
func NewService(ingester Ingester, store Store, ttl time.Duration, log *logger.Logger) *Service {
	return &Service{
		ingester: ingester,
		store:    store,
		ttl:      ttl,
		now:      time.Now,
		logger:   log.WithField("component", "upload"),
	}
}

// Preview decodes an uploaded file, runs it through the ingestion pipeline
// and stores the result as a new batch.
func (s *Service) Preview(ctx context.Context, userID, fileName string, r io.Reader) (*Batch, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}

	log := s.logger.WithContext(ctx).WithFields(map[string]any{
		"user_id":   userID,
		"file_name": fileName,
	})

	// 1. Decode
	rows, err := decode.Decode(fileName, r)
	if err != nil {
		if errors.Is(err, decode.ErrNoData) || errors.Is(err, decode.ErrNoHeader) {
			return nil, fmt.Errorf("%w: %w", ingest.ErrEmptyInput, err)
		}
		return nil, err
	}

	// 2. Ingest
	preview, err := s.ingester.Ingest(rows, userID)
	if err != nil {
		log.WithError(err).Warn("ingestion failed")
		return nil, err
	}

	// 3. Store
	now := s.now().UTC()
	batch := &Batch{
		ID:        uuid.NewString(),
		UserID:    userID,
		FileName:  fileName,
		Rows:      preview.Rows,
		Warnings:  preview.Warnings,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	if err := s.store.Save(ctx, batch, s.ttl); err != nil {
		return nil, fmt.Errorf("failed to store preview: %w", err)
	}

	s.logger.WithContext(logger.WithBatchID(ctx, batch.ID)).Info("preview created",
		"file_name", fileName,
		"rows", len(batch.Rows),
		"warnings", len(batch.Warnings),
	)

	return batch, nil
}

// Get returns a stored batch owned by userID
func (s *Service) Get(ctx context.Context, id, userID string) (*Batch, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrBatchNotFound
	}

	batch, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// Batches are only visible to their owner
	if batch.UserID != userID {
		return nil, ErrBatchNotFound
	}

	return batch, nil
}
