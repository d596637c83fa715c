package bids

import (
	"context"
	"fmt"
	"math"

	"github.com/wonny/buildbid/backend/internal/contracts"
	"github.com/wonny/buildbid/backend/pkg/logger"
	"github.com/wonny/buildbid/backend/pkg/metrics"
)

// Store is the bid write side
type Store interface {
	Create(ctx context.Context, in contracts.NewBid) (*contracts.Bid, error)
	Decide(ctx context.Context, d contracts.BidDecision) (*contracts.Bid, error)
}

// Invalidator drops memoized rankings of a project
type Invalidator interface {
	Invalidate(ctx context.Context, projectID int64)
}

// Service handles bid submission and company decisions
type Service struct {
	store       Store
	invalidator Invalidator
	logger      *logger.Logger
}

// NewService creates a new bid service. invalidator may be nil.
func NewService(store Store, invalidator Invalidator, log *logger.Logger) *Service {
	return &Service{store: store, invalidator: invalidator, logger: log}
}

// Submit records a pending bid
func (s *Service) Submit(ctx context.Context, in contracts.NewBid) (*contracts.Bid, error) {
	if math.IsNaN(in.Amount) || math.IsInf(in.Amount, 0) || in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", contracts.ErrInvalidInput)
	}
	if in.TimelineDays != nil && *in.TimelineDays <= 0 {
		return nil, fmt.Errorf("%w: timeline days must be positive", contracts.ErrInvalidInput)
	}

	bid, err := s.store.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, bid.ProjectID)

	s.logger.WithFields(map[string]interface{}{
		"bid_id":        bid.ID,
		"project_id":    bid.ProjectID,
		"contractor_id": bid.ContractorID,
	}).Info("Bid submitted")

	return bid, nil
}

// Decide accepts or rejects a pending bid
// ⭐ SSOT: 입찰 상태 전이는 여기서만 (pending → accepted | rejected)
func (s *Service) Decide(ctx context.Context, d contracts.BidDecision) (*contracts.Bid, error) {
	if d.Method == "" {
		d.Method = contracts.SelectionManual
	}
	if d.Method != contracts.SelectionManual && d.Method != contracts.SelectionAI {
		return nil, fmt.Errorf("%w: unknown selection method %q", contracts.ErrInvalidInput, d.Method)
	}

	bid, err := s.store.Decide(ctx, d)
	if err != nil {
		return nil, err
	}

	metrics.BidDecisionsTotal.WithLabelValues(string(d.Action), string(d.Method)).Inc()
	s.invalidate(ctx, bid.ProjectID)

	s.logger.WithFields(map[string]interface{}{
		"bid_id":     bid.ID,
		"project_id": bid.ProjectID,
		"action":     d.Action,
		"method":     d.Method,
	}).Info("Bid decided")

	return bid, nil
}

func (s *Service) invalidate(ctx context.Context, projectID int64) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, projectID)
	}
}
