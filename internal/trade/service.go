package trade

import (
	"context"
	"fmt"
	"time"

	"github.com/kislikjeka/tradebook/pkg/logger"
)

// Service commits user-approved transactions
type Service struct {
	repo   Repository
	gate   *Gate
	now    func() time.Time
	logger *logger.Logger
}

// Option configures a Service
type Option func(*Service)

// WithClock overrides the time source used for ids and timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new commit service
func NewService(repo Repository, log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		gate:   NewGate(),
		now:    time.Now,
		logger: log.WithField("component", "trade"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Commit validates each submission and appends the ones that pass.
// A bad row never aborts the batch; it is reported in CommitResult.Errors
// and the remaining rows are still committed. Only a storage failure fails
// the call as a whole, in which case nothing is committed.
func (s *Service) Commit(ctx context.Context, userID string, subs []Submission, opts CommitOptions) (*CommitResult, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}

	log := s.logger.WithContext(ctx).WithField("user_id", userID)
	log.Info("commit requested",
		"count", len(subs),
		"ignore_negative_balances", opts.IgnoreNegativeBalances,
	)

	now := s.now().UTC()
	result := &CommitResult{Errors: []CommitError{}}
	accepted := make([]Transaction, 0, len(subs))

	// The request-level user always wins over whatever the row carries
	rows := make([]Submission, len(subs))
	for i, sub := range subs {
		sub.UserID = userID
		rows[i] = sub
	}
	checked := s.gate.ValidateBatch(rows)

	for i, sub := range rows {
		var err error
		tx, ok := checked.Valid[i]
		if ok {
			err = CheckBusinessRules(tx)
		} else {
			err = &ValidationError{Details: checked.Violations[i]}
		}
		if err != nil {
			log.Debug("transaction rejected", "index", i, "symbol", sub.Symbol, "error", err)
			result.Errors = append(result.Errors, CommitError{
				Index:  i,
				Error:  err.Error(),
				Symbol: sub.Symbol,
			})
			continue
		}

		tx.ID = fmt.Sprintf("%s-%d-%d", userID, now.UnixMilli(), i)
		tx.CreatedAt = now
		tx.RunningBalance = 0
		tx.BalanceStatus = ""
		accepted = append(accepted, tx)
	}

	if len(accepted) > 0 {
		if err := s.repo.Append(ctx, accepted); err != nil {
			log.WithError(err).Error("failed to append transactions")
			return nil, fmt.Errorf("failed to append transactions: %w", err)
		}
	}

	result.Success = len(accepted)
	result.Committed = accepted

	log.Info("commit completed",
		"total", len(subs),
		"success", result.Success,
		"errors", len(result.Errors),
	)

	return result, nil
}

// List returns all committed transactions for a user
func (s *Service) List(ctx context.Context, userID string) ([]Transaction, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}

	txs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return txs, nil
}
