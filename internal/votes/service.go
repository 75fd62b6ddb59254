// Package votes keeps per-address voted markers as a UX convenience. The
// markers are explicitly non-authoritative: the proposal's own counters are
// the source of truth, and without redis every marker reads as not voted.
package votes

import (
	"context"
	"time"

	"github.com/communitydao/budget-backend/pkg/logger"
	"github.com/communitydao/budget-backend/pkg/redis"
)

const markerTTL = 30 * 24 * time.Hour

type markerStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	VoteMarkerKey(proposalID, address string) string
}

// Service records and reads voted markers.
type Service interface {
	MarkVoted(ctx context.Context, proposalID, address string) error
	HasVoted(ctx context.Context, proposalID, address string) (bool, error)
}

type service struct {
	store  markerStore
	logger *logger.Logger
}

// NewService wraps the marker store. A nil store disables markers entirely.
func NewService(store *redis.Client, logg *logger.Logger) Service {
	if store == nil {
		return &service{logger: logg}
	}
	return &service{store: store, logger: logg}
}

func (s *service) MarkVoted(ctx context.Context, proposalID, address string) error {
	if s.store == nil || proposalID == "" || address == "" {
		return nil
	}
	key := s.store.VoteMarkerKey(proposalID, address)
	if err := s.store.Set(ctx, key, "1", markerTTL); err != nil {
		// best effort: a lost marker only degrades the have-I-voted hint
		s.logger.Warn(s.logger.WithField(ctx, "proposal_id", proposalID), "failed to record voted marker")
		return nil
	}
	return nil
}

func (s *service) HasVoted(ctx context.Context, proposalID, address string) (bool, error) {
	if s.store == nil || proposalID == "" || address == "" {
		return false, nil
	}
	key := s.store.VoteMarkerKey(proposalID, address)
	value, err := s.store.Get(ctx, key)
	if err != nil {
		if redis.IsNil(err) {
			return false, nil
		}
		return false, err
	}
	return value == "1", nil
}
