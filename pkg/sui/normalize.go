package sui

import (
	"encoding/json"
	"strconv"
)

// Contract versions have drifted between snake_case and camelCase field
// names. Each canonical field lists every accepted source spelling once,
// here, so call sites never probe alternates themselves.
var (
	budgetNameFields  = []string{"name"}
	budgetTotalFields = []string{"total", "total_amount", "totalAmount"}
	budgetSpentFields = []string{"spent", "spent_amount", "spentAmount"}

	proposalTitleFields        = []string{"title"}
	proposalDescriptionFields  = []string{"description"}
	proposalAmountFields       = []string{"amount"}
	proposalYesVotesFields     = []string{"yes_votes", "yesVotes"}
	proposalNoVotesFields      = []string{"no_votes", "noVotes"}
	proposalTotalVotersFields  = []string{"total_voters", "totalVoters"}
	proposalVotesCastFields    = []string{"votes_cast", "votesCast"}
	proposalStatusFields       = []string{"status", "status_raw", "statusRaw"}
	proposalReceiverFields     = []string{"receiver"}
	proposalParticipantsFields = []string{"participants"}
	proposalBudgetFields       = []string{"budget_id", "budget", "budgetId"}

	eventBudgetFields   = []string{"budget_id", "budget", "budgetId"}
	eventProposalFields = []string{"proposal_id", "proposal", "proposalId"}
	eventAmountFields   = []string{"amount"}
	eventReceiverFields = []string{"receiver"}

	createdProposalFields     = []string{"proposal_id", "id", "proposalId"}
	createdParticipantsFields = []string{"participants", "voters"}
)

// BudgetFields is the canonical shape of on-chain budget state.
type BudgetFields struct {
	Name  string
	Total uint64
	Spent uint64
}

// NormalizeBudget merges historical field spellings into the canonical shape.
func NormalizeBudget(fields map[string]any) BudgetFields {
	return BudgetFields{
		Name:  pickString(fields, "", budgetNameFields...),
		Total: pickUint(fields, budgetTotalFields...),
		Spent: pickUint(fields, budgetSpentFields...),
	}
}

// ProposalFields is the canonical shape of on-chain proposal state.
type ProposalFields struct {
	Title        string
	Description  string
	Amount       uint64
	YesVotes     uint64
	NoVotes      uint64
	TotalVoters  uint64
	VotesCast    uint64
	StatusRaw    any
	Receiver     string
	Participants []string
	BudgetID     string
}

// NormalizeProposal merges historical field spellings into the canonical shape.
func NormalizeProposal(fields map[string]any) ProposalFields {
	return ProposalFields{
		Title:        pickString(fields, "", proposalTitleFields...),
		Description:  pickString(fields, "", proposalDescriptionFields...),
		Amount:       pickUint(fields, proposalAmountFields...),
		YesVotes:     pickUint(fields, proposalYesVotesFields...),
		NoVotes:      pickUint(fields, proposalNoVotesFields...),
		TotalVoters:  pickUint(fields, proposalTotalVotersFields...),
		VotesCast:    pickUint(fields, proposalVotesCastFields...),
		StatusRaw:    pickAny(fields, proposalStatusFields...),
		Receiver:     pickString(fields, "", proposalReceiverFields...),
		Participants: pickStrings(fields, proposalParticipantsFields...),
		BudgetID:     pickString(fields, "", proposalBudgetFields...),
	}
}

// SpendingEvent is the canonical audit-log record of an executed proposal.
type SpendingEvent struct {
	TxDigest    string `json:"txDigest"`
	TimestampMs int64  `json:"timestampMs"`
	BudgetID    string `json:"budgetId"`
	ProposalID  string `json:"proposalId"`
	Amount      uint64 `json:"amount"`
	Receiver    string `json:"receiver"`
}

// NormalizeSpendingEvent maps a raw event into the canonical record,
// defaulting missing sub-fields.
func NormalizeSpendingEvent(evt Event) SpendingEvent {
	return SpendingEvent{
		TxDigest:    evt.TxDigest,
		TimestampMs: evt.TimestampMs,
		BudgetID:    pickString(evt.ParsedJSON, "unknown", eventBudgetFields...),
		ProposalID:  pickString(evt.ParsedJSON, "unknown", eventProposalFields...),
		Amount:      pickUint(evt.ParsedJSON, eventAmountFields...),
		Receiver:    pickString(evt.ParsedJSON, "", eventReceiverFields...),
	}
}

// ProposalCreated is the canonical creation-event payload used by discovery.
type ProposalCreated struct {
	ProposalID   string
	BudgetID     string
	Participants []string
}

// NormalizeProposalCreated maps a raw creation event for discovery.
func NormalizeProposalCreated(evt Event) ProposalCreated {
	return ProposalCreated{
		ProposalID:   pickString(evt.ParsedJSON, "", createdProposalFields...),
		BudgetID:     pickString(evt.ParsedJSON, "", eventBudgetFields...),
		Participants: pickStrings(evt.ParsedJSON, createdParticipantsFields...),
	}
}

func pickAny(fields map[string]any, names ...string) any {
	if fields == nil {
		return nil
	}
	for _, name := range names {
		if value, ok := fields[name]; ok && value != nil {
			return value
		}
	}
	return nil
}

func pickString(fields map[string]any, fallback string, names ...string) string {
	value := pickAny(fields, names...)
	if value == nil {
		return fallback
	}
	if s, ok := value.(string); ok && s != "" {
		return s
	}
	return fallback
}

func pickStrings(fields map[string]any, names ...string) []string {
	value := pickAny(fields, names...)
	out := []string{}
	switch typed := value.(type) {
	case []string:
		return append(out, typed...)
	case []any:
		for _, item := range typed {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

func pickUint(fields map[string]any, names ...string) uint64 {
	return coerceUint(pickAny(fields, names...))
}

// On-chain u64 values arrive as decimal strings; defensive coercion also
// accepts JSON numbers. Anything else defaults to 0.
func coerceUint(value any) uint64 {
	switch typed := value.(type) {
	case string:
		parsed, err := strconv.ParseUint(typed, 10, 64)
		if err != nil {
			return 0
		}
		return parsed
	case json.Number:
		parsed, err := strconv.ParseUint(typed.String(), 10, 64)
		if err != nil {
			return 0
		}
		return parsed
	case float64:
		if typed < 0 {
			return 0
		}
		return uint64(typed)
	case int:
		if typed < 0 {
			return 0
		}
		return uint64(typed)
	case int64:
		if typed < 0 {
			return 0
		}
		return uint64(typed)
	case uint64:
		return typed
	default:
		return 0
	}
}
