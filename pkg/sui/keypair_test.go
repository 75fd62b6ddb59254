package sui

import (
	"bytes"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"testing"

	"golang.org/x/crypto/blake2b"
)

func testSecret() []byte {
	secret := make([]byte, SecretKeyLength)
	for i := range secret {
		secret[i] = byte(i + 1)
	}
	return secret
}

func TestParseSecretKeyHex(t *testing.T) {
	secret := testSecret()
	parsed, err := ParseSecretKey("0x" + hex.EncodeToString(secret))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(parsed, secret) {
		t.Fatal("hex round-trip mismatch")
	}
}

func TestParseSecretKeyHexWrongLength(t *testing.T) {
	_, err := ParseSecretKey("0xabcd")
	if !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("expected ErrInvalidLength, got %v", err)
	}
}

func TestParseSecretKeyBase64(t *testing.T) {
	secret := testSecret()
	parsed, err := ParseSecretKey(base64.StdEncoding.EncodeToString(secret))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(parsed, secret) {
		t.Fatal("base64 round-trip mismatch")
	}
}

func TestParseSecretKeyKeystoreBlob(t *testing.T) {
	secret := testSecret()
	blob := append([]byte{ed25519SchemeFlag}, secret...)
	parsed, err := ParseSecretKey(base64.StdEncoding.EncodeToString(blob))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(parsed, secret) {
		t.Fatal("keystore blob round-trip mismatch")
	}
}

func TestParseSecretKeyCLIExportRoundTrip(t *testing.T) {
	secret := testSecret()
	encoded, err := EncodeSecretKey(secret)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	parsed, err := ParseSecretKey(encoded)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !bytes.Equal(parsed, secret) {
		t.Fatal("CLI export round-trip mismatch")
	}
}

func TestParseSecretKeyCorruptChecksum(t *testing.T) {
	encoded, err := EncodeSecretKey(testSecret())
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	corrupted := encoded[:len(encoded)-1] + "q"
	if corrupted == encoded {
		corrupted = encoded[:len(encoded)-1] + "p"
	}
	if _, err := ParseSecretKey(corrupted); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}
}

func TestParseSecretKeyGarbage(t *testing.T) {
	if _, err := ParseSecretKey("not-a-key!!!"); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}
}

func TestKeypairAddressShape(t *testing.T) {
	kp, err := NewKeypairFromSecret(testSecret())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	addr := kp.Address()
	if len(addr) != 2+2*32 {
		t.Fatalf("unexpected address length %d", len(addr))
	}
	if addr[:2] != "0x" {
		t.Fatalf("address should be 0x-prefixed, got %s", addr)
	}
}

func TestSignTransactionEnvelope(t *testing.T) {
	kp, err := NewKeypairFromSecret(testSecret())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	txBytes := []byte("transaction payload")
	serialized, err := kp.SignTransaction(txBytes)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	decoded, err := base64.StdEncoding.DecodeString(serialized)
	if err != nil {
		t.Fatalf("signature is not base64: %v", err)
	}
	if len(decoded) != 1+ed25519.SignatureSize+ed25519.PublicKeySize {
		t.Fatalf("unexpected envelope length %d", len(decoded))
	}
	if decoded[0] != ed25519SchemeFlag {
		t.Fatalf("expected ed25519 flag byte, got %x", decoded[0])
	}

	sig := decoded[1 : 1+ed25519.SignatureSize]
	pub := ed25519.PublicKey(decoded[1+ed25519.SignatureSize:])
	message := append([]byte{0, 0, 0}, txBytes...)
	digest := blake2b.Sum256(message)
	if !ed25519.Verify(pub, digest[:], sig) {
		t.Fatal("signature does not verify over the intent digest")
	}
}
