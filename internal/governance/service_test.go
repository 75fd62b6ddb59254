package governance

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/communitydao/budget-backend/pkg/errors"
	"github.com/communitydao/budget-backend/pkg/sui"
)

func newTestService(reader Reader, submitter Submitter, t *testing.T) Service {
	t.Helper()
	return NewService(reader, submitter, newTestBuilder(t), testPackageID, testLogger())
}

func TestCreateBudgetConvertsSuiToMist(t *testing.T) {
	var submitted *sui.MoveCall
	submitter := &stubSubmitter{
		submit: func(ctx context.Context, call *sui.MoveCall, opts SubmitOptions) (*SubmitResult, error) {
			submitted = call
			if opts.Operation != "create_budget" || opts.ExpectedTypeSuffix != BudgetTypeSuffix {
				t.Fatalf("submit options %+v", opts)
			}
			return &SubmitResult{TxDigest: "D1", CreatedObjectID: "0xbudget1"}, nil
		},
	}
	svc := newTestService(&stubChain{}, submitter, t)
	result, err := svc.CreateBudget(context.Background(), CreateBudgetInput{
		Name:      "ops",
		AmountSui: decimal.RequireFromString("1.5"),
	})
	if err != nil {
		t.Fatalf("create budget: %v", err)
	}
	if result.BudgetID != "0xbudget1" || result.TxDigest != "D1" {
		t.Fatalf("result %+v", result)
	}
	amount := submitted.Arguments[len(submitted.Arguments)-1]
	if amount.U64 != 1_500_000_000 {
		t.Fatalf("amount %d MIST, want 1500000000", amount.U64)
	}
}

func TestCreateBudgetRejectsNegativeAmount(t *testing.T) {
	svc := newTestService(&stubChain{}, &stubSubmitter{}, t)
	_, err := svc.CreateBudget(context.Background(), CreateBudgetInput{
		Name:      "ops",
		AmountSui: decimal.RequireFromString("-1"),
	})
	requireValidationError(t, err)
}

func TestGetBudgetNormalizesFields(t *testing.T) {
	reader := &stubChain{
		getObject: func(ctx context.Context, objectID string) (*sui.ObjectData, error) {
			return &sui.ObjectData{
				ObjectID: objectID,
				Type:     "0xabc::governance::CommunityBudget",
				Fields:   map[string]any{"name": "ops", "totalAmount": "900", "spent_amount": "250"},
			}, nil
		},
	}
	svc := newTestService(reader, &stubSubmitter{}, t)
	budget, err := svc.GetBudget(context.Background(), "0xbudget1")
	if err != nil {
		t.Fatalf("get budget: %v", err)
	}
	if budget.Name != "ops" || budget.Total != 900 || budget.Spent != 250 {
		t.Fatalf("budget %+v", budget)
	}
}

func TestGetBudgetMapsNotFound(t *testing.T) {
	reader := &stubChain{
		getObject: func(ctx context.Context, objectID string) (*sui.ObjectData, error) {
			return nil, fmt.Errorf("%w: %s", sui.ErrObjectNotFound, objectID)
		},
	}
	svc := newTestService(reader, &stubSubmitter{}, t)
	_, err := svc.GetBudget(context.Background(), "0xmissing")
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestGetBudgetRejectsWrongObjectType(t *testing.T) {
	reader := &stubChain{
		getObject: func(ctx context.Context, objectID string) (*sui.ObjectData, error) {
			return &sui.ObjectData{ObjectID: objectID, Type: "0x2::coin::Coin<0x2::sui::SUI>"}, nil
		},
	}
	svc := newTestService(reader, &stubSubmitter{}, t)
	_, err := svc.GetBudget(context.Background(), "0xcoin")
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeUnexpectedShape {
		t.Fatalf("expected UNEXPECTED_SHAPE, got %v", err)
	}
}

func TestGetProposalDerivesStatus(t *testing.T) {
	reader := &stubChain{
		getObject: func(ctx context.Context, objectID string) (*sui.ObjectData, error) {
			return &sui.ObjectData{
				ObjectID: objectID,
				Type:     "0xabc::governance::Proposal",
				Fields: map[string]any{
					"title":        "ads",
					"yesVotes":     "3",
					"no_votes":     "1",
					"votes_cast":   "4",
					"total_voters": "5",
					"status":       "1",
					"participants": []any{"0xa", "0xb"},
				},
			}, nil
		},
	}
	svc := newTestService(reader, &stubSubmitter{}, t)
	proposal, err := svc.GetProposal(context.Background(), "0xprop1")
	if err != nil {
		t.Fatalf("get proposal: %v", err)
	}
	if proposal.Status != StatusExecuted {
		t.Fatalf("status %q", proposal.Status)
	}
	if proposal.YesVotes != 3 || proposal.NoVotes != 1 || proposal.VotesCast != 4 || proposal.TotalVoters != 5 {
		t.Fatalf("counters %+v", proposal)
	}
	if len(proposal.Participants) != 2 {
		t.Fatalf("participants %v", proposal.Participants)
	}
}

func TestVotePassesVoterToAllowList(t *testing.T) {
	var gotOpts SubmitOptions
	submitter := &stubSubmitter{
		submit: func(ctx context.Context, call *sui.MoveCall, opts SubmitOptions) (*SubmitResult, error) {
			gotOpts = opts
			return &SubmitResult{TxDigest: "D2"}, nil
		},
	}
	svc := newTestService(&stubChain{}, submitter, t)
	result, err := svc.Vote(context.Background(), VoteInput{
		BudgetID:   "0xbudget1",
		ProposalID: "0xprop1",
		Choice:     true,
		Voter:      "0xvoter",
	})
	if err != nil {
		t.Fatalf("vote: %v", err)
	}
	if result.TxDigest != "D2" {
		t.Fatalf("result %+v", result)
	}
	if gotOpts.Operation != "vote" || gotOpts.ExpectedTypeSuffix != "" {
		t.Fatalf("submit options %+v", gotOpts)
	}
	if len(gotOpts.AllowedAddresses) != 1 || gotOpts.AllowedAddresses[0] != "0xvoter" {
		t.Fatalf("allowed addresses %v", gotOpts.AllowedAddresses)
	}
}

func TestListSpendingEventsNormalizes(t *testing.T) {
	reader := &stubChain{
		queryEvents: func(ctx context.Context, eventType string, limit int) ([]sui.Event, error) {
			if eventType != SpendingEventType(testPackageID) {
				t.Fatalf("event type %q", eventType)
			}
			if limit != 50 {
				t.Fatalf("limit %d", limit)
			}
			return []sui.Event{
				{TxDigest: "T1", TimestampMs: 1000, ParsedJSON: map[string]any{"budgetId": "0xb", "amount": "7"}},
				{TxDigest: "T2", ParsedJSON: map[string]any{}},
			}, nil
		},
	}
	svc := newTestService(reader, &stubSubmitter{}, t)
	events, err := svc.ListSpendingEvents(context.Background(), 50)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("event count %d", len(events))
	}
	if events[0].BudgetID != "0xb" || events[0].Amount != 7 {
		t.Fatalf("first event %+v", events[0])
	}
	if events[1].BudgetID != "unknown" || events[1].ProposalID != "unknown" {
		t.Fatalf("defaults not applied: %+v", events[1])
	}
}
