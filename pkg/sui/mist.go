package sui

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// MistPerSui is the number of MIST in one SUI.
const MistPerSui = 1_000_000_000

var mistPerSuiDec = decimal.NewFromInt(MistPerSui)

var maxUint64 = new(big.Int).SetUint64(^uint64(0))

// ToMist converts a SUI amount to integer MIST with floor semantics:
// sub-MIST fractions truncate toward zero, never round up.
func ToMist(amount decimal.Decimal) (uint64, error) {
	if amount.IsNegative() {
		return 0, fmt.Errorf("amount must not be negative, got %s", amount)
	}
	floored := amount.Mul(mistPerSuiDec).Floor().BigInt()
	if floored.Cmp(maxUint64) > 0 {
		return 0, fmt.Errorf("amount %s overflows u64 MIST", amount)
	}
	return floored.Uint64(), nil
}
