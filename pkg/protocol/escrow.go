package protocol

import (
	"github.com/holiman/uint256"
)

// EscrowState tracks an escrow through its lifecycle. Locked is initial;
// Released and Refunded are terminal and mutually exclusive.
type EscrowState string

const (
	EscrowLocked   EscrowState = "LOCKED"
	EscrowRevealed EscrowState = "REVEALED"
	EscrowReleased EscrowState = "RELEASED"
	EscrowRefunded EscrowState = "REFUNDED"
)

// Escrow holds an asset amount behind a commitment digest and an absolute
// timelock. Amount, Commitment and Timelock are fixed at creation; only the
// transitions below may change State.
type Escrow struct {
	// ID is the unique identifier for the escrow (UUID format). Assigned by
	// the store, empty until persisted.
	ID string

	// Commitment is the digest the secret must hash to. A digest appears on
	// exactly one escrow and the auction bound to it.
	Commitment Commitment

	// Amount is the escrowed asset amount in smallest units.
	Amount *uint256.Int

	// Maker is the party that locked the asset and receives it back on
	// refund.
	Maker string

	// Timelock is the absolute deadline (ms since epoch). Release must happen
	// strictly before it; refund becomes possible at or after it.
	Timelock int64

	// Metadata is an opaque caller-supplied note.
	Metadata string

	State EscrowState

	// RevealedSecret is recorded on reveal for audit and idempotence.
	RevealedSecret *Secret

	// Beneficiary is the recipient recorded on release.
	Beneficiary string

	// CreatedAt is the ms timestamp the escrow was locked.
	CreatedAt int64
}

// NewEscrow validates creation parameters and returns a Locked escrow.
// Fails with ErrInvalidTimelock unless the timelock is strictly in the
// future, and ErrInvalidAmount unless the amount is positive.
func NewEscrow(amount *uint256.Int, commitment Commitment, timelock int64, maker, metadata string, now int64) (*Escrow, error) {
	if amount == nil || amount.IsZero() {
		return nil, ErrInvalidAmount
	}
	if timelock <= now {
		return nil, ErrInvalidTimelock
	}
	return &Escrow{
		Commitment: commitment,
		Amount:     amount.Clone(),
		Maker:      maker,
		Timelock:   timelock,
		Metadata:   metadata,
		State:      EscrowLocked,
		CreatedAt:  now,
	}, nil
}

// clone returns a deep copy so transitions never mutate the input snapshot.
func (e *Escrow) clone() *Escrow {
	out := *e
	out.Amount = e.Amount.Clone()
	if e.RevealedSecret != nil {
		s := *e.RevealedSecret
		out.RevealedSecret = &s
	}
	return &out
}

// lockedOrFail distinguishes the failure a caller sees when racing a
// transition that already fired: a repeat release attempt must observe
// ErrAlreadyReleased, anything else ErrInvalidState. Silent no-ops are
// forbidden; a caller must never believe a second transfer happened.
func (e *Escrow) lockedOrFail() error {
	switch e.State {
	case EscrowLocked:
		return nil
	case EscrowReleased:
		return ErrAlreadyReleased
	default:
		return ErrInvalidState
	}
}

// Reveal records the secret against a Locked escrow. The secret must hash to
// the escrow's commitment and the timelock must not have passed: a maker
// cannot stall past the deadline and still extract the asset.
func Reveal(e *Escrow, secret Secret, now int64) (*Escrow, error) {
	if err := e.lockedOrFail(); err != nil {
		return nil, err
	}
	if !VerifySecret(secret, e.Commitment) {
		return nil, ErrSecretMismatch
	}
	if now >= e.Timelock {
		return nil, ErrTimelockExpired
	}
	out := e.clone()
	out.State = EscrowRevealed
	out.RevealedSecret = &secret
	return out, nil
}

// Release transfers the escrowed amount to the beneficiary. Requires a
// Revealed escrow and must still beat the timelock.
func Release(e *Escrow, beneficiary string, now int64) (*Escrow, error) {
	switch e.State {
	case EscrowRevealed:
	case EscrowReleased:
		return nil, ErrAlreadyReleased
	default:
		return nil, ErrInvalidState
	}
	if beneficiary == "" {
		return nil, ErrInvalidBeneficiary
	}
	if now >= e.Timelock {
		return nil, ErrTimelockExpired
	}
	out := e.clone()
	out.State = EscrowReleased
	out.Beneficiary = beneficiary
	return out, nil
}

// RevealAndRelease performs reveal and release as one transition,
// Locked -> Released. Retrying after success fails with ErrAlreadyReleased
// rather than transferring twice.
func RevealAndRelease(e *Escrow, secret Secret, beneficiary string, now int64) (*Escrow, error) {
	revealed, err := Reveal(e, secret, now)
	if err != nil {
		return nil, err
	}
	return Release(revealed, beneficiary, now)
}

// RefundEscrow returns the amount to the maker once the timelock has
// expired. Refund before expiry fails with ErrTimelockNotExpired; refund
// after a release fails with ErrAlreadyReleased.
func RefundEscrow(e *Escrow, now int64) (*Escrow, error) {
	if err := e.lockedOrFail(); err != nil {
		return nil, err
	}
	if now < e.Timelock {
		return nil, ErrTimelockNotExpired
	}
	out := e.clone()
	out.State = EscrowRefunded
	return out, nil
}
