package protocol

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"
)

func TestFee(t *testing.T) {
	tests := []struct {
		name   string
		price  uint64
		feeBps uint64
		want   uint64
	}{
		{"250 bps of one unit", 1_000_000_000, 250, 25_000_000},
		{"truncates toward zero", 1, 250, 0},
		{"just below one fee atom", 39, 250, 0},
		{"one fee atom", 40, 250, 1},
		{"zero fee rate", 1_000_000_000, 0, 0},
		{"full price fee", 1_000, 10_000, 1_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee, err := Fee(uint256.NewInt(tt.price), tt.feeBps)
			if err != nil {
				t.Fatalf("Fee failed: %v", err)
			}
			if !fee.Eq(uint256.NewInt(tt.want)) {
				t.Errorf("Fee = %s, want %d", fee.Dec(), tt.want)
			}
		})
	}
}

func TestTotalPayment(t *testing.T) {
	total, err := TotalPayment(uint256.NewInt(1_000_000_000), DefaultFeeBps)
	if err != nil {
		t.Fatalf("TotalPayment failed: %v", err)
	}
	if !total.Eq(uint256.NewInt(1_025_000_000)) {
		t.Errorf("TotalPayment = %s, want 1025000000", total.Dec())
	}
}

func TestFeeOverflow(t *testing.T) {
	max := new(uint256.Int).SetAllOne()
	if _, err := Fee(max, 250); !errors.Is(err, ErrOverflow) {
		t.Errorf("Fee error = %v, want %v", err, ErrOverflow)
	}

	// A 1 bps rate keeps the multiply in range, but adding the fee back to a
	// near-max price wraps.
	almostMax := new(uint256.Int).Sub(max, uint256.NewInt(1))
	if _, err := TotalPayment(almostMax, 1); !errors.Is(err, ErrOverflow) {
		t.Errorf("TotalPayment error = %v, want %v", err, ErrOverflow)
	}
}
