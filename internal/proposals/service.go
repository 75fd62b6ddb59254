// Package proposals reconstructs the proposal listing from emitted events.
// The ledger has no native "list all proposals" query, so the set is folded
// from the creation-event window and hydrated id by id.
package proposals

import (
	"context"
	"strings"

	"github.com/communitydao/budget-backend/internal/governance"
	"github.com/communitydao/budget-backend/pkg/logger"
	"github.com/communitydao/budget-backend/pkg/sui"
)

type eventSource interface {
	QueryEvents(ctx context.Context, eventType string, limit int) ([]sui.Event, error)
}

type proposalGetter interface {
	GetProposal(ctx context.Context, proposalID string) (*governance.Proposal, error)
}

// Service lists proposals discovered through the event window. Listings are
// bounded by that window; a complete historical index is out of scope.
type Service interface {
	ListAll(ctx context.Context) ([]governance.Proposal, error)
	ListByParticipant(ctx context.Context, address string) ([]governance.Proposal, error)
}

type service struct {
	events    eventSource
	proposals proposalGetter
	packageID string
	logger    *logger.Logger
}

func NewService(events eventSource, proposals proposalGetter, packageID string, logg *logger.Logger) Service {
	return &service{
		events:    events,
		proposals: proposals,
		packageID: packageID,
		logger:    logg,
	}
}

func (s *service) ListAll(ctx context.Context) ([]governance.Proposal, error) {
	created, err := s.events.QueryEvents(ctx, governance.ProposalCreatedEventType(s.packageID), sui.MaxEventPageSize)
	if err != nil {
		return nil, err
	}
	ids := idsFromCreatedEvents(created)
	if len(ids) == 0 {
		// proposals that executed before creation events were emitted are
		// still discoverable through their spend records
		spends, err := s.events.QueryEvents(ctx, governance.SpendingEventType(s.packageID), sui.MaxEventPageSize)
		if err != nil {
			return nil, err
		}
		ids = idsFromSpendingEvents(spends)
	}
	return s.hydrate(ctx, ids), nil
}

func (s *service) ListByParticipant(ctx context.Context, address string) ([]governance.Proposal, error) {
	created, err := s.events.QueryEvents(ctx, governance.ProposalCreatedEventType(s.packageID), sui.MaxEventPageSize)
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, idsForParticipant(created, address)), nil
}

// hydrate fetches full state per id. A failed fetch drops that id only;
// partial results are the designed behavior, never an error.
func (s *service) hydrate(ctx context.Context, ids []string) []governance.Proposal {
	out := make([]governance.Proposal, 0, len(ids))
	for _, id := range ids {
		proposal, err := s.proposals.GetProposal(ctx, id)
		if err != nil {
			s.logger.Warn(s.logger.WithField(ctx, "proposal_id", id), "dropping proposal that failed to hydrate")
			continue
		}
		out = append(out, *proposal)
	}
	return out
}

// idsFromCreatedEvents folds the creation-event window into a deduplicated
// id list preserving first-seen order.
func idsFromCreatedEvents(events []sui.Event) []string {
	seen := make(map[string]struct{}, len(events))
	ids := make([]string, 0, len(events))
	for _, evt := range events {
		id := sui.NormalizeProposalCreated(evt).ProposalID
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// idsFromSpendingEvents is the zero-creation-events fallback.
func idsFromSpendingEvents(events []sui.Event) []string {
	seen := make(map[string]struct{}, len(events))
	ids := make([]string, 0, len(events))
	for _, evt := range events {
		id := sui.NormalizeSpendingEvent(evt).ProposalID
		if id == "" || id == "unknown" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// idsForParticipant keeps only proposals whose embedded participant list
// contains the address, compared case-insensitively, before any hydration.
func idsForParticipant(events []sui.Event, address string) []string {
	needle := strings.ToLower(strings.TrimSpace(address))
	seen := make(map[string]struct{}, len(events))
	ids := make([]string, 0, len(events))
	for _, evt := range events {
		created := sui.NormalizeProposalCreated(evt)
		if created.ProposalID == "" {
			continue
		}
		if _, dup := seen[created.ProposalID]; dup {
			continue
		}
		for _, participant := range created.Participants {
			if strings.ToLower(participant) == needle {
				seen[created.ProposalID] = struct{}{}
				ids = append(ids, created.ProposalID)
				break
			}
		}
	}
	return ids
}
