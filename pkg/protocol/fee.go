package protocol

import "github.com/holiman/uint256"

// DefaultFeeBps is the protocol fee in basis points (2.5%).
const DefaultFeeBps = 250

const bpsDenominator = 10_000

// Fee computes floor(price * feeBps / 10000) with checked multiplication.
// Fails with ErrOverflow instead of wrapping.
func Fee(price *uint256.Int, feeBps uint64) (*uint256.Int, error) {
	fee := new(uint256.Int)
	if _, overflow := fee.MulOverflow(price, uint256.NewInt(feeBps)); overflow {
		return nil, ErrOverflow
	}
	return fee.Div(fee, uint256.NewInt(bpsDenominator)), nil
}

// TotalPayment returns price + Fee(price, feeBps), checked.
func TotalPayment(price *uint256.Int, feeBps uint64) (*uint256.Int, error) {
	fee, err := Fee(price, feeBps)
	if err != nil {
		return nil, err
	}
	total := new(uint256.Int)
	if _, overflow := total.AddOverflow(price, fee); overflow {
		return nil, ErrOverflow
	}
	return total, nil
}
