// Package units converts between smallest-unit integer amounts and display
// decimals, and provides timelock arithmetic. Display formatting is the only
// place decimals appear; settlement math stays on integers.
package units

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// FractionalDigits is the decimal precision of the asset: one display unit
// equals 10^9 smallest units.
const FractionalDigits = 9

// AtomsPerUnit is 10^FractionalDigits.
const AtomsPerUnit = 1_000_000_000

// FormatAmount renders a smallest-unit amount as a display decimal with
// trailing zeros trimmed, suffixed with the asset symbol:
// 500000000 -> "0.5 DLK".
func FormatAmount(atoms *uint256.Int, symbol string) string {
	d := decimal.NewFromBigInt(atoms.ToBig(), -FractionalDigits)
	s := d.String()
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s + " " + symbol
}

// ParseAmount converts a display decimal ("0.5") to smallest units. Negative
// values and more than 9 fractional digits are rejected.
func ParseAmount(display string) (*uint256.Int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(display))
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", display, err)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("amount %q must not be negative", display)
	}
	shifted := d.Shift(FractionalDigits)
	if !shifted.IsInteger() {
		return nil, fmt.Errorf("amount %q has more than %d fractional digits", display, FractionalDigits)
	}
	atoms, overflow := uint256.FromBig(shifted.BigInt())
	if overflow {
		return nil, fmt.Errorf("amount %q overflows 256 bits", display)
	}
	return atoms, nil
}

// ParseAtoms decodes a smallest-unit amount from its wire form, a
// non-negative decimal string.
func ParseAtoms(s string) (*uint256.Int, error) {
	atoms, err := uint256.FromDecimal(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("invalid atom amount %q: %w", s, err)
	}
	return atoms, nil
}

// Timelock returns an absolute deadline offset milliseconds after now.
func Timelock(now, offset int64) int64 { return now + offset }

// TimelockExpired reports whether the deadline has been reached at now.
func TimelockExpired(timelock, now int64) bool { return now >= timelock }

// TimelockRemaining returns max(0, timelock-now) in milliseconds.
func TimelockRemaining(timelock, now int64) int64 {
	if now >= timelock {
		return 0
	}
	return timelock - now
}
