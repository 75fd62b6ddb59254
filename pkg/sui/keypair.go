package sui

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
)

const (
	// SecretKeyLength is the raw Ed25519 seed length.
	SecretKeyLength = 32

	// privateKeyPrefix marks the CLI's exported key encoding.
	privateKeyPrefix = "suiprivkey"

	// ed25519SchemeFlag is the signature-scheme flag byte for Ed25519.
	ed25519SchemeFlag = 0x00
)

// ParseSecretKey extracts 32 raw key bytes from any of the supported
// textual encodings, tried in order: CLI bech32 export, 0x-prefixed hex,
// 33-byte flag||key keystore blob, raw base64.
func ParseSecretKey(raw string) ([]byte, error) {
	secret := strings.TrimSpace(raw)
	if secret == "" {
		return nil, fmt.Errorf("%w: empty secret", ErrInvalidCredential)
	}

	if strings.HasPrefix(secret, privateKeyPrefix) {
		return decodePrivateKeyExport(secret)
	}

	if strings.HasPrefix(secret, "0x") {
		hexPart := secret[2:]
		if len(hexPart) != SecretKeyLength*2 {
			return nil, fmt.Errorf("%w: got %d hex chars", ErrInvalidLength, len(hexPart))
		}
		out, err := hex.DecodeString(hexPart)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
		}
		return out, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}
	switch len(decoded) {
	case SecretKeyLength + 1:
		// keystore blob: scheme flag byte followed by the key
		return decoded[1:], nil
	case SecretKeyLength:
		return decoded, nil
	default:
		return nil, fmt.Errorf("%w: decoded to %d bytes", ErrInvalidCredential, len(decoded))
	}
}

func decodePrivateKeyExport(encoded string) ([]byte, error) {
	hrp, data, err := bech32Decode(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}
	if hrp != privateKeyPrefix {
		return nil, fmt.Errorf("%w: unexpected prefix %q", ErrInvalidCredential, hrp)
	}
	decoded, err := convertBits(data, 5, 8, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}
	if len(decoded) != SecretKeyLength+1 {
		return nil, fmt.Errorf("%w: decoded to %d bytes", ErrInvalidCredential, len(decoded))
	}
	return decoded[1:], nil
}

// EncodeSecretKey renders 32 key bytes in the CLI's bech32 export format.
func EncodeSecretKey(secret []byte) (string, error) {
	if len(secret) != SecretKeyLength {
		return "", fmt.Errorf("%w: %d bytes", ErrInvalidLength, len(secret))
	}
	flagged := append([]byte{ed25519SchemeFlag}, secret...)
	grouped, err := convertBits(flagged, 8, 5, true)
	if err != nil {
		return "", err
	}
	return bech32Encode(privateKeyPrefix, grouped), nil
}

// Keypair holds the process-wide Ed25519 operator key. It is read-only
// after construction and safe for concurrent use.
type Keypair struct {
	priv    ed25519.PrivateKey
	pub     ed25519.PublicKey
	address string
}

// LoadKeypair parses the configured credential and derives the signer.
func LoadKeypair(raw string) (*Keypair, error) {
	secret, err := ParseSecretKey(raw)
	if err != nil {
		return nil, err
	}
	return NewKeypairFromSecret(secret)
}

// NewKeypairFromSecret builds a keypair from a 32-byte Ed25519 seed.
func NewKeypairFromSecret(secret []byte) (*Keypair, error) {
	if len(secret) != SecretKeyLength {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidLength, len(secret))
	}
	priv := ed25519.NewKeyFromSeed(secret)
	pub := priv.Public().(ed25519.PublicKey)

	flagged := append([]byte{ed25519SchemeFlag}, pub...)
	sum := blake2b.Sum256(flagged)

	return &Keypair{
		priv:    priv,
		pub:     pub,
		address: "0x" + hex.EncodeToString(sum[:]),
	}, nil
}

// Address returns the 0x-prefixed ledger address derived from the public key.
func (k *Keypair) Address() string {
	return k.address
}

// SignTransaction produces the serialized signature for transaction bytes:
// base64(flag || ed25519 signature || public key) over the blake2b-256
// digest of the transaction-data intent message.
func (k *Keypair) SignTransaction(txBytes []byte) (string, error) {
	if k == nil || len(k.priv) == 0 {
		return "", fmt.Errorf("%w: keypair not loaded", ErrInvalidCredential)
	}
	// intent scope TransactionData, version 0, app id Sui
	message := append([]byte{0, 0, 0}, txBytes...)
	digest := blake2b.Sum256(message)
	signature := ed25519.Sign(k.priv, digest[:])

	serialized := make([]byte, 0, 1+len(signature)+len(k.pub))
	serialized = append(serialized, ed25519SchemeFlag)
	serialized = append(serialized, signature...)
	serialized = append(serialized, k.pub...)
	return base64.StdEncoding.EncodeToString(serialized), nil
}
