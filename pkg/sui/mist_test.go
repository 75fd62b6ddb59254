package sui

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestToMistExactness(t *testing.T) {
	tests := []struct {
		in   string
		want uint64
	}{
		{in: "0.000000001", want: 1},
		{in: "1", want: 1_000_000_000},
		{in: "0.0000000005", want: 0}, // floor, not round
		{in: "1.999999999", want: 1_999_999_999},
		{in: "0", want: 0},
	}

	for _, tt := range tests {
		amount, err := decimal.NewFromString(tt.in)
		if err != nil {
			t.Fatalf("bad test input %q: %v", tt.in, err)
		}
		got, err := ToMist(amount)
		if err != nil {
			t.Fatalf("ToMist(%s): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ToMist(%s) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestToMistRejectsNegative(t *testing.T) {
	if _, err := ToMist(decimal.NewFromInt(-1)); err == nil {
		t.Fatal("expected error for negative amount")
	}
}
