package governance

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	pkgerrors "github.com/communitydao/budget-backend/pkg/errors"
	"github.com/communitydao/budget-backend/pkg/logger"
	"github.com/communitydao/budget-backend/pkg/metrics"
	"github.com/communitydao/budget-backend/pkg/sponsor"
	"github.com/communitydao/budget-backend/pkg/sui"
	"github.com/communitydao/budget-backend/pkg/sui/txkind"
)

const strategySponsored = "sponsored"

type sponsoredChain interface {
	GetObject(ctx context.Context, objectID string) (*sui.ObjectData, error)
	GetTransactionBlock(ctx context.Context, digest string) (*sui.TransactionBlockResponse, error)
}

type sponsorAPI interface {
	CreateSponsoredTransaction(ctx context.Context, sender, kindBytesB64 string, allowedTargets, allowedAddresses []string) (*sponsor.SponsoredTransaction, error)
	ExecuteSponsoredTransaction(ctx context.Context, digest, signature string) (string, error)
}

// SponsoredSubmitter serializes the transaction kind, lets the sponsor
// service attach sender and gas, signs the sponsored bytes, and then polls
// the chain until the executed transaction is visible on the read path.
type SponsoredSubmitter struct {
	chain        sponsoredChain
	sponsor      sponsorAPI
	signer       Signer
	pollAttempts int
	pollDelay    time.Duration
	metrics      *metrics.SubmissionMetrics
	logger       *logger.Logger
}

func NewSponsoredSubmitter(chain sponsoredChain, sp sponsorAPI, signer Signer, pollAttempts int, pollDelay time.Duration, m *metrics.SubmissionMetrics, logg *logger.Logger) *SponsoredSubmitter {
	if pollAttempts < 1 {
		pollAttempts = 1
	}
	return &SponsoredSubmitter{
		chain:        chain,
		sponsor:      sp,
		signer:       signer,
		pollAttempts: pollAttempts,
		pollDelay:    pollDelay,
		metrics:      m,
		logger:       logg,
	}
}

func (s *SponsoredSubmitter) Submit(ctx context.Context, call *sui.MoveCall, opts SubmitOptions) (*SubmitResult, error) {
	started := time.Now()
	result, err := s.submit(ctx, call, opts)
	s.metrics.ObserveDuration(strategySponsored, opts.Operation, time.Since(started))
	if err != nil {
		s.metrics.IncFailure(strategySponsored, opts.Operation)
		return nil, err
	}
	s.metrics.IncSuccess(strategySponsored, opts.Operation)
	return result, nil
}

func (s *SponsoredSubmitter) submit(ctx context.Context, call *sui.MoveCall, opts SubmitOptions) (*SubmitResult, error) {
	kindB64, err := s.encodeKind(ctx, call)
	if err != nil {
		return nil, err
	}

	sender := s.signer.Address()
	allowedAddresses := append([]string{sender}, opts.AllowedAddresses...)
	sponsored, err := s.sponsor.CreateSponsoredTransaction(ctx, sender, kindB64, []string{call.Target}, allowedAddresses)
	if err != nil {
		return nil, fmt.Errorf("request sponsorship: %w", err)
	}

	sponsoredBytes, err := base64.StdEncoding.DecodeString(sponsored.Bytes)
	if err != nil {
		return nil, fmt.Errorf("decode sponsored bytes: %w", err)
	}
	signature, err := s.signer.SignTransaction(sponsoredBytes)
	if err != nil {
		return nil, fmt.Errorf("sign sponsored transaction: %w", err)
	}
	digest, err := s.sponsor.ExecuteSponsoredTransaction(ctx, sponsored.Digest, signature)
	if err != nil {
		return nil, fmt.Errorf("execute sponsored transaction: %w", err)
	}

	ctx = s.logger.WithTxDigest(ctx, digest)
	resp, err := s.awaitVisible(ctx, digest)
	if err != nil {
		return nil, err
	}

	result := &SubmitResult{TxDigest: resp.Digest, Effects: resp.Effects}
	if result.TxDigest == "" {
		result.TxDigest = digest
	}
	if opts.ExpectedTypeSuffix != "" {
		result.CreatedObjectID = resp.CreatedObjectID(opts.ExpectedTypeSuffix)
		if result.CreatedObjectID == "" {
			s.logger.Warn(ctx, "sponsored transaction executed without creating expected object")
			return nil, pkgerrors.New(pkgerrors.CodeObjectNotCreated,
				"transaction did not create an object of type "+opts.ExpectedTypeSuffix)
		}
	}
	s.logger.Info(ctx, "sponsored transaction executed")
	return result, nil
}

// awaitVisible polls the read path for the executed transaction. Sponsor-side
// execution can lag read visibility, so only the not-visible condition is
// retried; everything else propagates immediately.
func (s *SponsoredSubmitter) awaitVisible(ctx context.Context, digest string) (*sui.TransactionBlockResponse, error) {
	var resp *sui.TransactionBlockResponse
	backoff := retry.WithMaxRetries(uint64(s.pollAttempts-1), retry.NewConstant(s.pollDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		found, err := s.chain.GetTransactionBlock(ctx, digest)
		if err != nil {
			if errors.Is(err, sui.ErrTxNotVisible) {
				s.metrics.IncRetry(strategySponsored)
				s.logger.Warn(ctx, "transaction not yet visible, retrying")
				return retry.RetryableError(err)
			}
			return err
		}
		resp = found
		return nil
	})
	if err != nil {
		if errors.Is(err, sui.ErrTxNotVisible) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeTxNotVisible, err,
				fmt.Sprintf("transaction %s not visible after %d attempts", digest, s.pollAttempts))
		}
		return nil, fmt.Errorf("fetch executed transaction: %w", err)
	}
	return resp, nil
}

// encodeKind serializes the call as transaction-kind bytes, resolving each
// object argument to a shared or owned reference through the read client.
func (s *SponsoredSubmitter) encodeKind(ctx context.Context, call *sui.MoveCall) (string, error) {
	pkg, module, function, err := call.TargetParts()
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid move call target")
	}

	inputs := make([]txkind.Input, 0, len(call.Arguments))
	argIndexes := make([]uint16, 0, len(call.Arguments))
	for i, arg := range call.Arguments {
		input, err := s.resolveInput(ctx, arg)
		if err != nil {
			return "", fmt.Errorf("argument %d: %w", i, err)
		}
		inputs = append(inputs, input)
		argIndexes = append(argIndexes, uint16(i))
	}

	kind, err := txkind.Encode(inputs, []txkind.MoveCall{{
		Package:   pkg,
		Module:    module,
		Function:  function,
		Arguments: argIndexes,
	}})
	if err != nil {
		return "", fmt.Errorf("encode transaction kind: %w", err)
	}
	return base64.StdEncoding.EncodeToString(kind), nil
}

func (s *SponsoredSubmitter) resolveInput(ctx context.Context, arg sui.CallArg) (txkind.Input, error) {
	switch arg.Kind {
	case sui.ArgString:
		return txkind.PureString(arg.Str), nil
	case sui.ArgU64:
		return txkind.PureU64(arg.U64), nil
	case sui.ArgBool:
		return txkind.PureBool(arg.Bool), nil
	case sui.ArgAddress:
		return txkind.PureAddress(arg.Str)
	case sui.ArgAddressVector:
		return txkind.PureAddresses(arg.Addrs)
	case sui.ArgObject:
		obj, err := s.chain.GetObject(ctx, arg.Str)
		if err != nil {
			return nil, fmt.Errorf("resolve object %s: %w", arg.Str, err)
		}
		if obj.Owner.Shared != nil {
			return txkind.SharedObjectInput{
				ObjectID:             obj.ObjectID,
				InitialSharedVersion: obj.Owner.Shared.InitialSharedVersion,
				Mutable:              true,
			}, nil
		}
		return txkind.OwnedObjectInput{
			ObjectID: obj.ObjectID,
			Version:  obj.Version,
			Digest:   obj.Digest,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported argument kind %d", arg.Kind)
	}
}
