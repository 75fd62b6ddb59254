package governance

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"testing"
	"time"

	pkgerrors "github.com/communitydao/budget-backend/pkg/errors"
	"github.com/communitydao/budget-backend/pkg/sponsor"
	"github.com/communitydao/budget-backend/pkg/sui"
)

func sharedObject(id string, version uint64) *sui.ObjectData {
	return &sui.ObjectData{
		ObjectID: id,
		Version:  version,
		Digest:   "11111111111111111111111111111111",
		Owner:    sui.ObjectOwner{Shared: &sui.SharedOwner{InitialSharedVersion: version}},
	}
}

func newSponsoredSubmitter(t *testing.T, chain *stubChain, sp *stubSponsor, attempts int) *SponsoredSubmitter {
	t.Helper()
	return NewSponsoredSubmitter(chain, sp, testSigner(t), attempts, time.Millisecond, testMetrics(), testLogger())
}

func happySponsor(t *testing.T) *stubSponsor {
	t.Helper()
	return &stubSponsor{
		create: func(ctx context.Context, sender, kindBytesB64 string, allowedTargets, allowedAddresses []string) (*sponsor.SponsoredTransaction, error) {
			if _, err := base64.StdEncoding.DecodeString(kindBytesB64); err != nil {
				t.Fatalf("kind bytes are not base64: %v", err)
			}
			return &sponsor.SponsoredTransaction{
				Bytes:  base64.StdEncoding.EncodeToString([]byte("sponsored-tx")),
				Digest: "SponsoredDigest",
			}, nil
		},
		execute: func(ctx context.Context, digest, signature string) (string, error) {
			return digest, nil
		},
	}
}

func TestSponsoredSubmitHappyPath(t *testing.T) {
	voteCall := &sui.MoveCall{
		Target: "0xabc::governance::vote",
		Arguments: []sui.CallArg{
			sui.ObjectArg("0xbudget1"),
			sui.ObjectArg("0xprop1"),
			sui.PureBool(true),
		},
	}
	chain := &stubChain{
		getObject: func(ctx context.Context, objectID string) (*sui.ObjectData, error) {
			return sharedObject(objectID, 4), nil
		},
		getTransaction: func(ctx context.Context, digest string) (*sui.TransactionBlockResponse, error) {
			return &sui.TransactionBlockResponse{Digest: digest}, nil
		},
	}
	submitter := newSponsoredSubmitter(t, chain, happySponsor(t), 5)
	result, err := submitter.Submit(context.Background(), voteCall, SubmitOptions{Operation: "vote"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.TxDigest != "SponsoredDigest" {
		t.Fatalf("digest %q", result.TxDigest)
	}
}

func TestSponsoredSubmitAllowListsTargetAndSender(t *testing.T) {
	signer := testSigner(t)
	var gotTargets, gotAddresses []string
	sp := &stubSponsor{
		create: func(ctx context.Context, sender, kindBytesB64 string, allowedTargets, allowedAddresses []string) (*sponsor.SponsoredTransaction, error) {
			gotTargets = allowedTargets
			gotAddresses = allowedAddresses
			return &sponsor.SponsoredTransaction{
				Bytes:  base64.StdEncoding.EncodeToString([]byte("tx")),
				Digest: "D",
			}, nil
		},
		execute: func(ctx context.Context, digest, signature string) (string, error) { return digest, nil },
	}
	chain := &stubChain{
		getTransaction: func(ctx context.Context, digest string) (*sui.TransactionBlockResponse, error) {
			return &sui.TransactionBlockResponse{Digest: digest}, nil
		},
	}
	submitter := NewSponsoredSubmitter(chain, sp, signer, 1, time.Millisecond, testMetrics(), testLogger())
	call := &sui.MoveCall{Target: "0xabc::governance::vote", Arguments: []sui.CallArg{sui.PureBool(false)}}
	if _, err := submitter.Submit(context.Background(), call, SubmitOptions{AllowedAddresses: []string{"0xvoter"}}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(gotTargets) != 1 || gotTargets[0] != call.Target {
		t.Fatalf("allowed targets %v", gotTargets)
	}
	if len(gotAddresses) != 2 || gotAddresses[0] != signer.Address() || gotAddresses[1] != "0xvoter" {
		t.Fatalf("allowed addresses %v", gotAddresses)
	}
}

func TestSponsoredSubmitExhaustsVisibilityRetries(t *testing.T) {
	attempts := 0
	chain := &stubChain{
		getTransaction: func(ctx context.Context, digest string) (*sui.TransactionBlockResponse, error) {
			attempts++
			return nil, fmt.Errorf("%w: pending", sui.ErrTxNotVisible)
		},
	}
	submitter := newSponsoredSubmitter(t, chain, happySponsor(t), 5)
	_, err := submitter.Submit(context.Background(), &sui.MoveCall{Target: "0xabc::governance::vote"}, SubmitOptions{})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeTxNotVisible {
		t.Fatalf("expected TX_NOT_VISIBLE, got %v", err)
	}
	if attempts != 5 {
		t.Fatalf("poll attempts %d, want exactly 5", attempts)
	}
}

func TestSponsoredSubmitRecoversAfterTransientInvisibility(t *testing.T) {
	attempts := 0
	chain := &stubChain{
		getTransaction: func(ctx context.Context, digest string) (*sui.TransactionBlockResponse, error) {
			attempts++
			if attempts <= 2 {
				return nil, fmt.Errorf("%w: pending", sui.ErrTxNotVisible)
			}
			return &sui.TransactionBlockResponse{Digest: digest}, nil
		},
	}
	submitter := newSponsoredSubmitter(t, chain, happySponsor(t), 5)
	result, err := submitter.Submit(context.Background(), &sui.MoveCall{Target: "0xabc::governance::vote"}, SubmitOptions{})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("poll attempts %d, want exactly 3", attempts)
	}
	if result.TxDigest != "SponsoredDigest" {
		t.Fatalf("digest %q", result.TxDigest)
	}
}

func TestSponsoredSubmitDoesNotRetryOtherErrors(t *testing.T) {
	attempts := 0
	wantErr := errors.New("rpc exploded")
	chain := &stubChain{
		getTransaction: func(ctx context.Context, digest string) (*sui.TransactionBlockResponse, error) {
			attempts++
			return nil, wantErr
		},
	}
	submitter := newSponsoredSubmitter(t, chain, happySponsor(t), 5)
	_, err := submitter.Submit(context.Background(), &sui.MoveCall{Target: "0xabc::governance::vote"}, SubmitOptions{})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected underlying rpc error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("poll attempts %d, want exactly 1", attempts)
	}
}

func TestSponsoredEncodeKindResolvesOwnedObjects(t *testing.T) {
	resolved := map[string]bool{}
	chain := &stubChain{
		getObject: func(ctx context.Context, objectID string) (*sui.ObjectData, error) {
			resolved[objectID] = true
			return &sui.ObjectData{
				ObjectID: objectID,
				Version:  9,
				Digest:   "11111111111111111111111111111111",
				Owner:    sui.ObjectOwner{AddressOwner: "0xowner"},
			}, nil
		},
		getTransaction: func(ctx context.Context, digest string) (*sui.TransactionBlockResponse, error) {
			return &sui.TransactionBlockResponse{Digest: digest}, nil
		},
	}
	submitter := newSponsoredSubmitter(t, chain, happySponsor(t), 1)
	call := &sui.MoveCall{
		Target:    "0xabc::governance::create_budget",
		Arguments: []sui.CallArg{sui.ObjectArg("0xcap"), sui.PureString("n"), sui.ObjectArg("0xcoin"), sui.PureU64(1)},
	}
	if _, err := submitter.Submit(context.Background(), call, SubmitOptions{}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !resolved["0xcap"] || !resolved["0xcoin"] {
		t.Fatalf("object refs not resolved: %v", resolved)
	}
}
