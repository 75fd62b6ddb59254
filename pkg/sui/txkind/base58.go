package txkind

import (
	"fmt"
	"math/big"
	"strings"
)

// Object digests travel base58-encoded; no dependency in the stack ships a
// decoder, so a minimal one lives here.

const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

func base58Decode(encoded string) ([]byte, error) {
	if encoded == "" {
		return nil, fmt.Errorf("empty base58 string")
	}
	value := new(big.Int)
	radix := big.NewInt(58)
	for _, r := range encoded {
		idx := strings.IndexRune(base58Alphabet, r)
		if idx < 0 {
			return nil, fmt.Errorf("invalid base58 character %q", r)
		}
		value.Mul(value, radix)
		value.Add(value, big.NewInt(int64(idx)))
	}
	decoded := value.Bytes()

	// leading '1' characters encode leading zero bytes
	leading := 0
	for leading < len(encoded) && encoded[leading] == '1' {
		leading++
	}
	out := make([]byte, leading+len(decoded))
	copy(out[leading:], decoded)
	return out, nil
}
