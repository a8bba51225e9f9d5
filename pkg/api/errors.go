package api

import (
	"errors"
	"fmt"

	"github.com/dutchlock/dutchlock/pkg/protocol"
)

// Error is the wire form of a failure. Code is stable and machine-readable
// so a caller can decide whether to retry or abandon without parsing the
// message.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Stable failure codes. The protocol sentinels map onto these one-to-one in
// both directions so a client observes the same failure kind the core
// produced.
const (
	CodeInvalidArgument     = "INVALID_ARGUMENT"
	CodeInvalidBeneficiary  = "INVALID_BENEFICIARY"
	CodeInvalidTimelock     = "INVALID_TIMELOCK"
	CodeInvalidAmount       = "INVALID_AMOUNT"
	CodeInvalidPriceRange   = "INVALID_PRICE_RANGE"
	CodeInvalidDuration     = "INVALID_DURATION"
	CodeInvalidState        = "INVALID_STATE"
	CodeAlreadyReleased     = "ALREADY_RELEASED"
	CodeTimelockNotExpired  = "TIMELOCK_NOT_EXPIRED"
	CodeTimelockExpired     = "TIMELOCK_EXPIRED"
	CodeSecretMismatch      = "SECRET_MISMATCH"
	CodeAuctionNotActive    = "AUCTION_NOT_ACTIVE"
	CodeAuctionExpired      = "AUCTION_EXPIRED"
	CodeAuctionNotEnded     = "AUCTION_NOT_ENDED"
	CodeNoWinner            = "NO_WINNER"
	CodeInsufficientPayment = "INSUFFICIENT_PAYMENT"
	CodeCommitmentMismatch  = "COMMITMENT_MISMATCH"
	CodeOverflow            = "OVERFLOW"
	CodeNotFound            = "NOT_FOUND"
	CodeConflict            = "CONFLICT"
	CodeUnauthenticated     = "UNAUTHENTICATED"
	CodeInternal            = "INTERNAL"
)

var codeByErr = map[error]string{
	protocol.ErrInvalidTimelock:     CodeInvalidTimelock,
	protocol.ErrInvalidAmount:       CodeInvalidAmount,
	protocol.ErrInvalidPriceRange:   CodeInvalidPriceRange,
	protocol.ErrInvalidDuration:     CodeInvalidDuration,
	protocol.ErrInvalidBeneficiary:  CodeInvalidBeneficiary,
	protocol.ErrInvalidState:        CodeInvalidState,
	protocol.ErrAlreadyReleased:     CodeAlreadyReleased,
	protocol.ErrTimelockNotExpired:  CodeTimelockNotExpired,
	protocol.ErrTimelockExpired:     CodeTimelockExpired,
	protocol.ErrSecretMismatch:      CodeSecretMismatch,
	protocol.ErrAuctionNotActive:    CodeAuctionNotActive,
	protocol.ErrAuctionExpired:      CodeAuctionExpired,
	protocol.ErrAuctionNotEnded:     CodeAuctionNotEnded,
	protocol.ErrNoWinner:            CodeNoWinner,
	protocol.ErrInsufficientPayment: CodeInsufficientPayment,
	protocol.ErrCommitmentMismatch:  CodeCommitmentMismatch,
	protocol.ErrOverflow:            CodeOverflow,
}

var errByCode = func() map[string]error {
	m := make(map[string]error, len(codeByErr))
	for err, code := range codeByErr {
		m[code] = err
	}
	return m
}()

// CodeFor maps a protocol failure to its wire code, or CodeInternal for
// anything unrecognized.
func CodeFor(err error) string {
	for sentinel, code := range codeByErr {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return CodeInternal
}

// ErrFor maps a wire code back to the protocol sentinel it came from, so
// client-side errors.Is checks behave exactly like server-side ones. Codes
// without a protocol counterpart come back as a plain *Error.
func ErrFor(code, message string) error {
	if sentinel, ok := errByCode[code]; ok {
		return fmt.Errorf("%w: %s", sentinel, message)
	}
	return &Error{Code: code, Message: message}
}
