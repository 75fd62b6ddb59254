// Package txkind serializes the transaction-kind portion of a programmable
// transaction, which is what a gas sponsor accepts: the sender's commands and
// inputs without any gas payment data attached.
package txkind

import (
	"fmt"
)

// BCS enum variants for the structures we emit.
const (
	kindProgrammable = 0

	callArgPure   = 0
	callArgObject = 1

	objectArgImmOrOwned = 0
	objectArgShared     = 1

	commandMoveCall = 0

	argumentInput = 1
)

const objectDigestLength = 32

// Input is one entry of a programmable transaction's input table.
type Input interface {
	encode(w *writer) error
}

// PureInput carries BCS-encoded plain data.
type PureInput struct {
	Bytes []byte
}

func (p PureInput) encode(w *writer) error {
	w.uleb(callArgPure)
	w.vecBytes(p.Bytes)
	return nil
}

// SharedObjectInput references a shared object by its initial shared version.
type SharedObjectInput struct {
	ObjectID             string
	InitialSharedVersion uint64
	Mutable              bool
}

func (s SharedObjectInput) encode(w *writer) error {
	w.uleb(callArgObject)
	w.uleb(objectArgShared)
	if err := w.address(s.ObjectID); err != nil {
		return err
	}
	w.u64(s.InitialSharedVersion)
	w.bool(s.Mutable)
	return nil
}

// OwnedObjectInput references an address-owned object by full object ref.
type OwnedObjectInput struct {
	ObjectID string
	Version  uint64
	Digest   string
}

func (o OwnedObjectInput) encode(w *writer) error {
	w.uleb(callArgObject)
	w.uleb(objectArgImmOrOwned)
	if err := w.address(o.ObjectID); err != nil {
		return err
	}
	w.u64(o.Version)
	digest, err := base58Decode(o.Digest)
	if err != nil {
		return fmt.Errorf("object digest: %w", err)
	}
	if len(digest) != objectDigestLength {
		return fmt.Errorf("object digest decodes to %d bytes, want %d", len(digest), objectDigestLength)
	}
	w.vecBytes(digest)
	return nil
}

// MoveCall is a single move-call command whose arguments index into the
// input table.
type MoveCall struct {
	Package   string
	Module    string
	Function  string
	Arguments []uint16
}

// Encode produces the BCS bytes of a programmable TransactionKind.
func Encode(inputs []Input, calls []MoveCall) ([]byte, error) {
	if len(calls) == 0 {
		return nil, fmt.Errorf("at least one command required")
	}
	w := &writer{}
	w.uleb(kindProgrammable)

	w.uleb(uint64(len(inputs)))
	for i, in := range inputs {
		if err := in.encode(w); err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
	}

	w.uleb(uint64(len(calls)))
	for i, call := range calls {
		if call.Module == "" || call.Function == "" {
			return nil, fmt.Errorf("command %d: module and function required", i)
		}
		w.uleb(commandMoveCall)
		if err := w.address(call.Package); err != nil {
			return nil, fmt.Errorf("command %d: package: %w", i, err)
		}
		w.str(call.Module)
		w.str(call.Function)
		w.uleb(0) // no type arguments
		w.uleb(uint64(len(call.Arguments)))
		for _, arg := range call.Arguments {
			w.uleb(argumentInput)
			w.u16(arg)
		}
	}
	return w.bytes(), nil
}

// PureString encodes a utf8 string input.
func PureString(value string) PureInput {
	w := &writer{}
	w.str(value)
	return PureInput{Bytes: w.bytes()}
}

// PureU64 encodes a u64 input.
func PureU64(value uint64) PureInput {
	w := &writer{}
	w.u64(value)
	return PureInput{Bytes: w.bytes()}
}

// PureBool encodes a bool input.
func PureBool(value bool) PureInput {
	w := &writer{}
	w.bool(value)
	return PureInput{Bytes: w.bytes()}
}

// PureAddress encodes a single address input.
func PureAddress(value string) (PureInput, error) {
	w := &writer{}
	if err := w.address(value); err != nil {
		return PureInput{}, err
	}
	return PureInput{Bytes: w.bytes()}, nil
}

// PureAddresses encodes a vector<address> input.
func PureAddresses(values []string) (PureInput, error) {
	w := &writer{}
	w.uleb(uint64(len(values)))
	for _, value := range values {
		if err := w.address(value); err != nil {
			return PureInput{}, err
		}
	}
	return PureInput{Bytes: w.bytes()}, nil
}
