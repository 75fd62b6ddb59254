package governance

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	pkgerrors "github.com/communitydao/budget-backend/pkg/errors"
	"github.com/communitydao/budget-backend/pkg/logger"
	"github.com/communitydao/budget-backend/pkg/metrics"
	"github.com/communitydao/budget-backend/pkg/sui"
)

const strategyDirect = "direct"

type directChain interface {
	MoveCallTxBytes(ctx context.Context, signer string, call *sui.MoveCall, gasBudget uint64) (string, error)
	ExecuteTransactionBlock(ctx context.Context, txBytesB64 string, signatures []string) (*sui.TransactionBlockResponse, error)
}

// DirectSubmitter signs with the operator key and pays gas itself.
type DirectSubmitter struct {
	chain     directChain
	signer    Signer
	gasBudget uint64
	metrics   *metrics.SubmissionMetrics
	logger    *logger.Logger
}

func NewDirectSubmitter(chain directChain, signer Signer, gasBudget uint64, m *metrics.SubmissionMetrics, logg *logger.Logger) *DirectSubmitter {
	return &DirectSubmitter{
		chain:     chain,
		signer:    signer,
		gasBudget: gasBudget,
		metrics:   m,
		logger:    logg,
	}
}

func (s *DirectSubmitter) Submit(ctx context.Context, call *sui.MoveCall, opts SubmitOptions) (*SubmitResult, error) {
	started := time.Now()
	result, err := s.submit(ctx, call, opts)
	s.metrics.ObserveDuration(strategyDirect, opts.Operation, time.Since(started))
	if err != nil {
		s.metrics.IncFailure(strategyDirect, opts.Operation)
		return nil, err
	}
	s.metrics.IncSuccess(strategyDirect, opts.Operation)
	return result, nil
}

func (s *DirectSubmitter) submit(ctx context.Context, call *sui.MoveCall, opts SubmitOptions) (*SubmitResult, error) {
	txBytesB64, err := s.chain.MoveCallTxBytes(ctx, s.signer.Address(), call, s.gasBudget)
	if err != nil {
		return nil, fmt.Errorf("build transaction bytes: %w", err)
	}
	raw, err := base64.StdEncoding.DecodeString(txBytesB64)
	if err != nil {
		return nil, fmt.Errorf("decode transaction bytes: %w", err)
	}
	signature, err := s.signer.SignTransaction(raw)
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}
	resp, err := s.chain.ExecuteTransactionBlock(ctx, txBytesB64, []string{signature})
	if err != nil {
		return nil, fmt.Errorf("execute transaction: %w", err)
	}

	ctx = s.logger.WithTxDigest(ctx, resp.Digest)
	result := &SubmitResult{TxDigest: resp.Digest, Effects: resp.Effects}
	if opts.ExpectedTypeSuffix != "" {
		result.CreatedObjectID = resp.CreatedObjectID(opts.ExpectedTypeSuffix)
		if result.CreatedObjectID == "" {
			s.logger.Warn(ctx, "transaction executed without creating expected object")
			return nil, pkgerrors.New(pkgerrors.CodeObjectNotCreated,
				"transaction did not create an object of type "+opts.ExpectedTypeSuffix)
		}
	}
	s.logger.Info(ctx, "transaction executed")
	return result, nil
}
