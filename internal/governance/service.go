package governance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pkgerrors "github.com/communitydao/budget-backend/pkg/errors"
	"github.com/communitydao/budget-backend/pkg/logger"
	"github.com/communitydao/budget-backend/pkg/sui"
)

// Reader is the slice of the chain client the service reads through.
type Reader interface {
	GetObject(ctx context.Context, objectID string) (*sui.ObjectData, error)
	QueryEvents(ctx context.Context, eventType string, limit int) ([]sui.Event, error)
}

// Service is the governance workflow: create and read budgets and
// proposals, cast votes, list the spend audit log.
type Service interface {
	CreateBudget(ctx context.Context, input CreateBudgetInput) (*CreateBudgetResult, error)
	GetBudget(ctx context.Context, budgetID string) (*Budget, error)
	CreateProposal(ctx context.Context, input CreateProposalInput) (*CreateProposalResult, error)
	GetProposal(ctx context.Context, proposalID string) (*Proposal, error)
	Vote(ctx context.Context, input VoteInput) (*VoteResult, error)
	ListSpendingEvents(ctx context.Context, limit int) ([]sui.SpendingEvent, error)
}

type service struct {
	reader    Reader
	submitter Submitter
	builder   *Builder
	packageID string
	logger    *logger.Logger
}

// NewService wires the read client, the active submission strategy, and the
// call builder for the deployed package.
func NewService(reader Reader, submitter Submitter, builder *Builder, packageID string, logg *logger.Logger) Service {
	return &service{
		reader:    reader,
		submitter: submitter,
		builder:   builder,
		packageID: packageID,
		logger:    logg,
	}
}

func (s *service) CreateBudget(ctx context.Context, input CreateBudgetInput) (*CreateBudgetResult, error) {
	amountMist, err := sui.ToMist(input.AmountSui)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid budget amount")
	}
	call, err := s.builder.CreateBudget(input.AdminCapID, input.Name, input.CoinObjectID, amountMist)
	if err != nil {
		return nil, err
	}
	result, err := s.submitter.Submit(ctx, call, SubmitOptions{
		Operation:          "create_budget",
		ExpectedTypeSuffix: BudgetTypeSuffix,
	})
	if err != nil {
		return nil, err
	}
	return &CreateBudgetResult{
		TxDigest: result.TxDigest,
		BudgetID: result.CreatedObjectID,
		Effects:  result.Effects,
	}, nil
}

func (s *service) GetBudget(ctx context.Context, budgetID string) (*Budget, error) {
	obj, err := s.readObject(ctx, budgetID, BudgetTypeSuffix)
	if err != nil {
		return nil, err
	}
	fields := sui.NormalizeBudget(obj.Fields)
	return &Budget{
		ID:    obj.ObjectID,
		Name:  fields.Name,
		Total: fields.Total,
		Spent: fields.Spent,
	}, nil
}

func (s *service) CreateProposal(ctx context.Context, input CreateProposalInput) (*CreateProposalResult, error) {
	amountMist, err := sui.ToMist(input.AmountSui)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid proposal amount")
	}
	call, err := s.builder.CreateProposal(input.BudgetID, input.Title, input.Description, amountMist, input.Receiver, input.Participants)
	if err != nil {
		return nil, err
	}
	result, err := s.submitter.Submit(ctx, call, SubmitOptions{
		Operation:          "create_proposal",
		ExpectedTypeSuffix: ProposalTypeSuffix,
		AllowedAddresses:   append([]string{input.Receiver}, input.Participants...),
	})
	if err != nil {
		return nil, err
	}
	return &CreateProposalResult{
		TxDigest:   result.TxDigest,
		ProposalID: result.CreatedObjectID,
		Effects:    result.Effects,
	}, nil
}

func (s *service) GetProposal(ctx context.Context, proposalID string) (*Proposal, error) {
	obj, err := s.readObject(ctx, proposalID, ProposalTypeSuffix)
	if err != nil {
		return nil, err
	}
	return proposalFromObject(obj), nil
}

func (s *service) Vote(ctx context.Context, input VoteInput) (*VoteResult, error) {
	call, err := s.builder.Vote(input.BudgetID, input.ProposalID, input.Choice)
	if err != nil {
		return nil, err
	}
	opts := SubmitOptions{Operation: "vote"}
	if input.Voter != "" {
		opts.AllowedAddresses = []string{input.Voter}
	}
	result, err := s.submitter.Submit(ctx, call, opts)
	if err != nil {
		return nil, err
	}
	return &VoteResult{TxDigest: result.TxDigest, Effects: result.Effects}, nil
}

func (s *service) ListSpendingEvents(ctx context.Context, limit int) ([]sui.SpendingEvent, error) {
	events, err := s.reader.QueryEvents(ctx, SpendingEventType(s.packageID), limit)
	if err != nil {
		return nil, wrapReadError(err, "spending events")
	}
	out := make([]sui.SpendingEvent, 0, len(events))
	for _, evt := range events {
		out = append(out, sui.NormalizeSpendingEvent(evt))
	}
	return out, nil
}

func (s *service) readObject(ctx context.Context, objectID, typeSuffix string) (*sui.ObjectData, error) {
	if !addressPattern.MatchString(strings.TrimSpace(objectID)) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "id must be a 0x-prefixed object id")
	}
	obj, err := s.reader.GetObject(ctx, objectID)
	if err != nil {
		return nil, wrapReadError(err, objectID)
	}
	if !strings.Contains(obj.Type, typeSuffix) {
		return nil, pkgerrors.New(pkgerrors.CodeUnexpectedShape,
			fmt.Sprintf("object %s has type %q, want %s", objectID, obj.Type, typeSuffix))
	}
	return obj, nil
}

// proposalFromObject maps normalized on-chain state to the API view.
func proposalFromObject(obj *sui.ObjectData) *Proposal {
	fields := sui.NormalizeProposal(obj.Fields)
	return &Proposal{
		ID:           obj.ObjectID,
		BudgetID:     fields.BudgetID,
		Title:        fields.Title,
		Description:  fields.Description,
		Amount:       fields.Amount,
		Receiver:     fields.Receiver,
		Participants: fields.Participants,
		YesVotes:     fields.YesVotes,
		NoVotes:      fields.NoVotes,
		VotesCast:    fields.VotesCast,
		TotalVoters:  fields.TotalVoters,
		Status:       DeriveStatus(fields.StatusRaw),
		StatusRaw:    fields.StatusRaw,
	}
}

func wrapReadError(err error, subject string) error {
	switch {
	case errors.Is(err, sui.ErrObjectNotFound):
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, subject+" not found")
	case errors.Is(err, sui.ErrUnexpectedShape):
		return pkgerrors.Wrap(pkgerrors.CodeUnexpectedShape, err, "unexpected on-chain shape for "+subject)
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "chain read failed for "+subject)
	}
}
