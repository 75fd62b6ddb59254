package txkind

import (
	"bytes"
	"strings"
	"testing"
)

func TestEncodeMinimalMoveCall(t *testing.T) {
	got, err := Encode(
		[]Input{PureBool(true)},
		[]MoveCall{{Package: "0x2", Module: "m", Function: "f", Arguments: []uint16{0}}},
	)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	want := []byte{
		0x00,             // ProgrammableTransaction
		0x01,             // one input
		0x00, 0x01, 0x01, // Pure, len 1, true
		0x01, // one command
		0x00, // MoveCall
	}
	pkg := make([]byte, 32)
	pkg[31] = 0x02
	want = append(want, pkg...)
	want = append(want,
		0x01, 'm', // module
		0x01, 'f', // function
		0x00,                   // no type args
		0x01, 0x01, 0x00, 0x00, // one argument: Input(0)
	)
	if !bytes.Equal(got, want) {
		t.Fatalf("encoded bytes mismatch\n got %x\nwant %x", got, want)
	}
}

func TestEncodeSharedObjectInput(t *testing.T) {
	got, err := Encode(
		[]Input{SharedObjectInput{ObjectID: "0xaa", InitialSharedVersion: 7, Mutable: true}},
		[]MoveCall{{Package: "0x2", Module: "m", Function: "f"}},
	)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	// input table slice: Object, Shared, 32-byte id, u64 version, mutable
	prefix := []byte{0x00, 0x01, 0x01, 0x01}
	id := make([]byte, 32)
	id[31] = 0xaa
	prefix = append(prefix, id...)
	prefix = append(prefix, 7, 0, 0, 0, 0, 0, 0, 0, 0x01)
	if !bytes.HasPrefix(got, prefix) {
		t.Fatalf("shared input prefix mismatch\n got %x\nwant prefix %x", got, prefix)
	}
}

func TestEncodeOwnedObjectInput(t *testing.T) {
	// 32 zero bytes base58-encode as 32 '1' characters
	digest := strings.Repeat("1", 32)
	got, err := Encode(
		[]Input{OwnedObjectInput{ObjectID: "0x1", Version: 3, Digest: digest}},
		[]MoveCall{{Package: "0x2", Module: "m", Function: "f"}},
	)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	// input encodes as Object, ImmOrOwned, id, version, then 32-byte digest vector
	idx := bytes.Index(got, []byte{3, 0, 0, 0, 0, 0, 0, 0, 32})
	if idx < 0 {
		t.Fatalf("version and digest length not found in %x", got)
	}

	_, err = Encode(
		[]Input{OwnedObjectInput{ObjectID: "0x1", Version: 3, Digest: "abc"}},
		[]MoveCall{{Package: "0x2", Module: "m", Function: "f"}},
	)
	if err == nil {
		t.Fatal("expected error for short digest")
	}
}

func TestEncodeRejectsEmptyCommands(t *testing.T) {
	if _, err := Encode(nil, nil); err == nil {
		t.Fatal("expected error for empty command list")
	}
	if _, err := Encode(nil, []MoveCall{{Package: "0x2"}}); err == nil {
		t.Fatal("expected error for missing module and function")
	}
}

func TestPureEncodings(t *testing.T) {
	if got := PureU64(1).Bytes; !bytes.Equal(got, []byte{1, 0, 0, 0, 0, 0, 0, 0}) {
		t.Fatalf("u64: %x", got)
	}
	if got := PureString("hi").Bytes; !bytes.Equal(got, []byte{2, 'h', 'i'}) {
		t.Fatalf("string: %x", got)
	}
	addrs, err := PureAddresses([]string{"0x1", "0x2"})
	if err != nil {
		t.Fatalf("addresses: %v", err)
	}
	if len(addrs.Bytes) != 1+64 {
		t.Fatalf("vector<address> length %d, want 65", len(addrs.Bytes))
	}
	if addrs.Bytes[0] != 2 {
		t.Fatalf("vector length prefix %d, want 2", addrs.Bytes[0])
	}
}

func TestUlebMultiByte(t *testing.T) {
	w := &writer{}
	w.uleb(300)
	if got := w.bytes(); !bytes.Equal(got, []byte{0xac, 0x02}) {
		t.Fatalf("uleb(300) = %x", got)
	}
}

func TestBase58Decode(t *testing.T) {
	got, err := base58Decode("2")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(got, []byte{0x01}) {
		t.Fatalf("decode(\"2\") = %x", got)
	}
	if _, err := base58Decode("0O"); err == nil {
		t.Fatal("expected error for invalid alphabet")
	}
}
