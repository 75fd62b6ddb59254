package governance

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ProposalStatus is the derived lifecycle tag. The contract decides the
// transition; we only label what we read back.
type ProposalStatus string

const (
	StatusVoting   ProposalStatus = "voting"
	StatusExecuted ProposalStatus = "executed"
	StatusRejected ProposalStatus = "rejected"
)

// DeriveStatus maps the raw on-chain status value, which has shipped as a
// bare integer, a decimal string, a variant name, and a variant wrapper
// object, onto the canonical tag. Unknown values stay in voting.
func DeriveStatus(raw any) ProposalStatus {
	switch typed := raw.(type) {
	case nil:
		return StatusVoting
	case string:
		return statusFromString(typed)
	case float64:
		return statusFromInt(int64(typed))
	case int:
		return statusFromInt(int64(typed))
	case int64:
		return statusFromInt(typed)
	case json.Number:
		if parsed, err := typed.Int64(); err == nil {
			return statusFromInt(parsed)
		}
	case map[string]any:
		for _, key := range []string{"variant", "name", "status"} {
			if inner, ok := typed[key]; ok {
				return DeriveStatus(inner)
			}
		}
	}
	return StatusVoting
}

func statusFromString(value string) ProposalStatus {
	if parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
		return statusFromInt(parsed)
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "executed":
		return StatusExecuted
	case "rejected":
		return StatusRejected
	default:
		return StatusVoting
	}
}

func statusFromInt(value int64) ProposalStatus {
	switch value {
	case 1:
		return StatusExecuted
	case 2:
		return StatusRejected
	default:
		return StatusVoting
	}
}

// Budget is the API view of on-chain budget state.
type Budget struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Total uint64 `json:"total"`
	Spent uint64 `json:"spent"`
}

// Proposal is the API view of on-chain proposal state. StatusRaw carries the
// contract's own status value untouched next to the derived tag.
type Proposal struct {
	ID           string         `json:"id"`
	BudgetID     string         `json:"budgetId,omitempty"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Amount       uint64         `json:"amount"`
	Receiver     string         `json:"receiver"`
	Participants []string       `json:"participants"`
	YesVotes     uint64         `json:"yesVotes"`
	NoVotes      uint64         `json:"noVotes"`
	VotesCast    uint64         `json:"votesCast"`
	TotalVoters  uint64         `json:"totalVoters"`
	Status       ProposalStatus `json:"status"`
	StatusRaw    any            `json:"statusRaw,omitempty"`
}

// CreateBudgetInput carries a validated budget creation request. AmountSui
// is in whole SUI; conversion to MIST happens inside the service.
type CreateBudgetInput struct {
	AdminCapID   string
	Name         string
	CoinObjectID string
	AmountSui    decimal.Decimal
}

// CreateBudgetResult reports the submitted transaction and the id the
// contract assigned to the new budget.
type CreateBudgetResult struct {
	TxDigest string          `json:"txDigest"`
	BudgetID string          `json:"budgetId"`
	Effects  json.RawMessage `json:"effects,omitempty"`
}

// CreateProposalInput carries a validated proposal creation request.
type CreateProposalInput struct {
	BudgetID     string
	Title        string
	Description  string
	AmountSui    decimal.Decimal
	Receiver     string
	Participants []string
}

// CreateProposalResult reports the submitted transaction and new proposal id.
type CreateProposalResult struct {
	TxDigest   string          `json:"txDigest"`
	ProposalID string          `json:"proposalId"`
	Effects    json.RawMessage `json:"effects,omitempty"`
}

// VoteInput carries a validated vote request. Voter is optional and only
// feeds the non-authoritative voted marker.
type VoteInput struct {
	BudgetID   string
	ProposalID string
	Choice     bool
	Voter      string
}

// VoteResult reports the submitted vote transaction.
type VoteResult struct {
	TxDigest string          `json:"txDigest"`
	Effects  json.RawMessage `json:"effects,omitempty"`
}
