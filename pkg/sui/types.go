package sui

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// flexUint decodes u64 values that arrive either as JSON numbers or as
// decimal strings, which the fullnode mixes freely.
type flexUint uint64

func (f *flexUint) UnmarshalJSON(data []byte) error {
	trimmed := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if trimmed == "" || trimmed == "null" {
		*f = 0
		return nil
	}
	value, err := strconv.ParseUint(trimmed, 10, 64)
	if err != nil {
		return fmt.Errorf("parse u64 %q: %w", trimmed, err)
	}
	*f = flexUint(value)
	return nil
}

// ObjectData is the decoded on-chain state of a single object.
type ObjectData struct {
	ObjectID string
	Version  uint64
	Digest   string
	Type     string
	Owner    ObjectOwner
	Fields   map[string]any
}

// ObjectOwner mirrors the fullnode's polymorphic owner field.
type ObjectOwner struct {
	AddressOwner string
	ObjectOwner  string
	Shared       *SharedOwner
	Immutable    bool
}

// SharedOwner carries the version a shared object was first shared at.
type SharedOwner struct {
	InitialSharedVersion uint64 `json:"initial_shared_version"`
}

func (o *ObjectOwner) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err == nil {
		o.Immutable = label == "Immutable"
		return nil
	}
	var wire struct {
		AddressOwner string `json:"AddressOwner"`
		ObjectOwner  string `json:"ObjectOwner"`
		Shared       *struct {
			InitialSharedVersion flexUint `json:"initial_shared_version"`
		} `json:"Shared"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	o.AddressOwner = wire.AddressOwner
	o.ObjectOwner = wire.ObjectOwner
	if wire.Shared != nil {
		o.Shared = &SharedOwner{InitialSharedVersion: uint64(wire.Shared.InitialSharedVersion)}
	}
	return nil
}

// Event is a single emitted move event.
type Event struct {
	TxDigest    string
	TimestampMs int64
	Type        string
	ParsedJSON  map[string]any
}

// TransactionBlockResponse is the submitted/fetched transaction view.
type TransactionBlockResponse struct {
	Digest        string          `json:"digest"`
	Effects       json.RawMessage `json:"effects"`
	ObjectChanges []ObjectChange  `json:"objectChanges"`
}

// ObjectChange records an entity created/mutated/deleted by a transaction.
type ObjectChange struct {
	Type       string `json:"type"`
	ObjectType string `json:"objectType"`
	ObjectID   string `json:"objectId"`
}

// CreatedObjectID returns the id of the first created object whose type
// contains the given suffix, or "" when none matches.
func (r *TransactionBlockResponse) CreatedObjectID(typeSuffix string) string {
	if r == nil || typeSuffix == "" {
		return ""
	}
	for _, change := range r.ObjectChanges {
		if change.Type == "created" && strings.Contains(change.ObjectType, typeSuffix) {
			return change.ObjectID
		}
	}
	return ""
}

// ArgKind tags the typed arguments a move call accepts.
type ArgKind int

const (
	ArgString ArgKind = iota
	ArgU64
	ArgBool
	ArgAddress
	ArgAddressVector
	ArgObject
)

// CallArg is one typed argument of an unsigned call description.
type CallArg struct {
	Kind  ArgKind
	Str   string
	U64   uint64
	Bool  bool
	Addrs []string
}

func PureString(value string) CallArg       { return CallArg{Kind: ArgString, Str: value} }
func PureU64(value uint64) CallArg          { return CallArg{Kind: ArgU64, U64: value} }
func PureBool(value bool) CallArg           { return CallArg{Kind: ArgBool, Bool: value} }
func PureAddress(value string) CallArg      { return CallArg{Kind: ArgAddress, Str: value} }
func PureAddresses(values []string) CallArg { return CallArg{Kind: ArgAddressVector, Addrs: values} }
func ObjectArg(objectID string) CallArg     { return CallArg{Kind: ArgObject, Str: objectID} }

// JSONValue renders the argument the way the fullnode's call-building RPC
// expects it (u64 as decimal string, addresses and object ids as strings).
func (a CallArg) JSONValue() any {
	switch a.Kind {
	case ArgU64:
		return strconv.FormatUint(a.U64, 10)
	case ArgBool:
		return a.Bool
	case ArgAddressVector:
		if a.Addrs == nil {
			return []string{}
		}
		return a.Addrs
	default:
		return a.Str
	}
}

// MoveCall is an unsigned call description: target entry point plus typed
// arguments. Building one never performs I/O.
type MoveCall struct {
	Target        string
	TypeArguments []string
	Arguments     []CallArg
}

// TargetParts splits "package::module::function".
func (m *MoveCall) TargetParts() (pkg, module, function string, err error) {
	parts := strings.Split(m.Target, "::")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", "", fmt.Errorf("invalid move call target %q", m.Target)
	}
	return parts[0], parts[1], parts[2], nil
}
