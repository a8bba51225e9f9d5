package protocol

import "errors"

// Every failure a transition can return is a distinct sentinel so callers can
// decide between retrying (e.g. refund again after the timelock passes) and
// abandoning (e.g. a bid that was simply too low). All of them are
// recoverable; none are process-fatal.
var (
	ErrInvalidTimelock    = errors.New("timelock must be strictly in the future")
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrInvalidPriceRange  = errors.New("end price must not exceed start price")
	ErrInvalidDuration    = errors.New("duration must be greater than zero")
	ErrInvalidBeneficiary = errors.New("beneficiary must not be empty")

	ErrInvalidState       = errors.New("entity is in an incompatible state")
	ErrAlreadyReleased    = errors.New("escrow already released")
	ErrTimelockNotExpired = errors.New("timelock has not expired yet")
	ErrTimelockExpired    = errors.New("timelock has expired")
	ErrSecretMismatch     = errors.New("secret does not match commitment")

	ErrAuctionNotActive    = errors.New("auction is not active")
	ErrAuctionExpired      = errors.New("auction has expired")
	ErrAuctionNotEnded     = errors.New("auction has not ended")
	ErrNoWinner            = errors.New("auction ended without a winner")
	ErrInsufficientPayment = errors.New("payment below current price plus fee")

	// ErrCommitmentMismatch marks a settlement attempt against an escrow and
	// auction bound to different digests. It is deliberately distinct from
	// ErrInvalidState: it indicates a potential substitution attack rather
	// than an ordinary race.
	ErrCommitmentMismatch = errors.New("escrow and auction commitments differ")

	ErrOverflow = errors.New("integer overflow")
)
