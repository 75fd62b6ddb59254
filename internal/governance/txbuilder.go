package governance

import (
	"fmt"
	"regexp"
	"strings"

	pkgerrors "github.com/communitydao/budget-backend/pkg/errors"
	"github.com/communitydao/budget-backend/pkg/sui"
)

const moduleName = "governance"

// Object type suffixes scanned for in post-submission object changes.
const (
	BudgetTypeSuffix   = "governance::CommunityBudget"
	ProposalTypeSuffix = "governance::Proposal"
)

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{1,64}$`)

// SpendingEventType is the fully qualified spend-audit event emitted when a
// proposal executes.
func SpendingEventType(packageID string) string {
	return packageID + "::" + moduleName + "::SpendingEvent"
}

// ProposalCreatedEventType is the fully qualified creation event used for
// proposal discovery.
func ProposalCreatedEventType(packageID string) string {
	return packageID + "::" + moduleName + "::ProposalCreated"
}

// Builder produces unsigned move-call descriptions for the governance
// contract. Pure: validation only, no I/O.
type Builder struct {
	packageID string
}

// NewBuilder validates the deployed package id once so every target the
// builder emits is well formed.
func NewBuilder(packageID string) (*Builder, error) {
	trimmed := strings.TrimSpace(packageID)
	if !addressPattern.MatchString(trimmed) {
		return nil, fmt.Errorf("package id %q is not a valid object address", packageID)
	}
	return &Builder{packageID: trimmed}, nil
}

func (b *Builder) target(function string) string {
	return b.packageID + "::" + moduleName + "::" + function
}

// CreateBudget builds the budget creation call. The contract's canonical
// entry point takes an admin capability and a coin to fund from; the older
// two-argument variant is still deployed on some networks, so both optional
// object ids may be empty together.
func (b *Builder) CreateBudget(adminCapID, name, coinObjectID string, amountMist uint64) (*sui.MoveCall, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "budget name is required")
	}
	if amountMist == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "budget amount must be greater than zero")
	}
	hasAdminCap := strings.TrimSpace(adminCapID) != ""
	hasCoin := strings.TrimSpace(coinObjectID) != ""
	if hasAdminCap != hasCoin {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "adminCapId and coinObjectId must be provided together")
	}
	if !hasAdminCap {
		return &sui.MoveCall{
			Target:    b.target("create_budget"),
			Arguments: []sui.CallArg{sui.PureString(name), sui.PureU64(amountMist)},
		}, nil
	}
	if err := validateObjectID("adminCapId", adminCapID); err != nil {
		return nil, err
	}
	if err := validateObjectID("coinObjectId", coinObjectID); err != nil {
		return nil, err
	}
	return &sui.MoveCall{
		Target: b.target("create_budget"),
		Arguments: []sui.CallArg{
			sui.ObjectArg(adminCapID),
			sui.PureString(name),
			sui.ObjectArg(coinObjectID),
			sui.PureU64(amountMist),
		},
	}, nil
}

// CreateProposal builds the proposal creation call. Participants are the
// addresses eligible to vote, encoded as a variable-length address list.
// The budget id is optional: the older standalone entry point takes no
// budget object, the canonical one charges a budget directly.
func (b *Builder) CreateProposal(budgetID, title, description string, amountMist uint64, receiver string, participants []string) (*sui.MoveCall, error) {
	budgetID = strings.TrimSpace(budgetID)
	if budgetID != "" {
		if err := validateObjectID("budgetId", budgetID); err != nil {
			return nil, err
		}
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "proposal title is required")
	}
	if amountMist == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "proposal amount must be greater than zero")
	}
	if err := validateAddress("receiver", receiver); err != nil {
		return nil, err
	}
	if len(participants) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one participant is required")
	}
	for _, participant := range participants {
		if err := validateAddress("participant", participant); err != nil {
			return nil, err
		}
	}
	args := make([]sui.CallArg, 0, 6)
	if budgetID != "" {
		args = append(args, sui.ObjectArg(budgetID))
	}
	args = append(args,
		sui.PureString(title),
		sui.PureString(description),
		sui.PureU64(amountMist),
		sui.PureAddress(receiver),
		sui.PureAddresses(participants),
	)
	return &sui.MoveCall{
		Target:    b.target("create_proposal"),
		Arguments: args,
	}, nil
}

// Vote builds the vote call for one participant's yes/no choice.
func (b *Builder) Vote(budgetID, proposalID string, choice bool) (*sui.MoveCall, error) {
	if err := validateObjectID("budgetId", budgetID); err != nil {
		return nil, err
	}
	if err := validateObjectID("proposalId", proposalID); err != nil {
		return nil, err
	}
	return &sui.MoveCall{
		Target: b.target("vote"),
		Arguments: []sui.CallArg{
			sui.ObjectArg(budgetID),
			sui.ObjectArg(proposalID),
			sui.PureBool(choice),
		},
	}, nil
}

func validateObjectID(field, value string) error {
	if !addressPattern.MatchString(strings.TrimSpace(value)) {
		return pkgerrors.New(pkgerrors.CodeValidation, field+" must be a 0x-prefixed object id")
	}
	return nil
}

func validateAddress(field, value string) error {
	if !addressPattern.MatchString(strings.TrimSpace(value)) {
		return pkgerrors.New(pkgerrors.CodeValidation, field+" must be a 0x-prefixed address")
	}
	return nil
}
