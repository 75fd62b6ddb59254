package governance

import (
	"context"
	"encoding/json"

	"github.com/communitydao/budget-backend/pkg/sui"
)

// Signer produces chain-ready signatures with the process-held operator key.
// Implemented by *sui.Keypair.
type Signer interface {
	Address() string
	SignTransaction(txBytes []byte) (string, error)
}

// SubmitOptions tunes one submission without changing the result shape.
type SubmitOptions struct {
	// Operation labels metrics and logs: create_budget, create_proposal, vote.
	Operation string
	// ExpectedTypeSuffix, when set, requires the transaction to have created
	// an object of that type. Submission fails otherwise.
	ExpectedTypeSuffix string
	// AllowedAddresses extends the sponsor allow-list beyond the sender.
	// Ignored by the direct path.
	AllowedAddresses []string
}

// SubmitResult is identical for both submission strategies.
type SubmitResult struct {
	TxDigest        string
	Effects         json.RawMessage
	CreatedObjectID string
}

// Submitter executes an unsigned call description on chain. The direct
// variant pays gas with the operator key; the sponsored variant defers gas
// to the sponsor service.
type Submitter interface {
	Submit(ctx context.Context, call *sui.MoveCall, opts SubmitOptions) (*SubmitResult, error)
}
