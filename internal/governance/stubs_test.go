package governance

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/communitydao/budget-backend/pkg/logger"
	"github.com/communitydao/budget-backend/pkg/metrics"
	"github.com/communitydao/budget-backend/pkg/sponsor"
	"github.com/communitydao/budget-backend/pkg/sui"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{Level: zerolog.Disabled})
}

func testMetrics() *metrics.SubmissionMetrics {
	return metrics.NewSubmissionMetrics(nil)
}

func testSigner(t *testing.T) *sui.Keypair {
	t.Helper()
	keypair, err := sui.NewKeypairFromSecret(bytes.Repeat([]byte{7}, 32))
	if err != nil {
		t.Fatalf("test keypair: %v", err)
	}
	return keypair
}

type stubChain struct {
	moveCallTxBytes func(ctx context.Context, signer string, call *sui.MoveCall, gasBudget uint64) (string, error)
	execute         func(ctx context.Context, txBytesB64 string, signatures []string) (*sui.TransactionBlockResponse, error)
	getObject       func(ctx context.Context, objectID string) (*sui.ObjectData, error)
	getTransaction  func(ctx context.Context, digest string) (*sui.TransactionBlockResponse, error)
	queryEvents     func(ctx context.Context, eventType string, limit int) ([]sui.Event, error)
}

func (s *stubChain) MoveCallTxBytes(ctx context.Context, signer string, call *sui.MoveCall, gasBudget uint64) (string, error) {
	return s.moveCallTxBytes(ctx, signer, call, gasBudget)
}

func (s *stubChain) ExecuteTransactionBlock(ctx context.Context, txBytesB64 string, signatures []string) (*sui.TransactionBlockResponse, error) {
	return s.execute(ctx, txBytesB64, signatures)
}

func (s *stubChain) GetObject(ctx context.Context, objectID string) (*sui.ObjectData, error) {
	return s.getObject(ctx, objectID)
}

func (s *stubChain) GetTransactionBlock(ctx context.Context, digest string) (*sui.TransactionBlockResponse, error) {
	return s.getTransaction(ctx, digest)
}

func (s *stubChain) QueryEvents(ctx context.Context, eventType string, limit int) ([]sui.Event, error) {
	return s.queryEvents(ctx, eventType, limit)
}

type stubSponsor struct {
	create  func(ctx context.Context, sender, kindBytesB64 string, allowedTargets, allowedAddresses []string) (*sponsor.SponsoredTransaction, error)
	execute func(ctx context.Context, digest, signature string) (string, error)
}

func (s *stubSponsor) CreateSponsoredTransaction(ctx context.Context, sender, kindBytesB64 string, allowedTargets, allowedAddresses []string) (*sponsor.SponsoredTransaction, error) {
	return s.create(ctx, sender, kindBytesB64, allowedTargets, allowedAddresses)
}

func (s *stubSponsor) ExecuteSponsoredTransaction(ctx context.Context, digest, signature string) (string, error) {
	return s.execute(ctx, digest, signature)
}

type stubSubmitter struct {
	submit func(ctx context.Context, call *sui.MoveCall, opts SubmitOptions) (*SubmitResult, error)
}

func (s *stubSubmitter) Submit(ctx context.Context, call *sui.MoveCall, opts SubmitOptions) (*SubmitResult, error) {
	return s.submit(ctx, call, opts)
}
