package protocol

import (
	"github.com/holiman/uint256"
)

// AuctionState tracks a Dutch auction. Active is initial; Won and Expired
// are terminal.
type AuctionState string

const (
	AuctionActive AuctionState = "ACTIVE"
	// AuctionWon means a bid cleared the falling price; winner and final
	// price are recorded.
	AuctionWon AuctionState = "WON"
	// AuctionExpired means the curve ran out without a clearing bid. This is
	// a valid terminal outcome; it does not by itself refund the escrow.
	AuctionExpired AuctionState = "EXPIRED"
)

// Auction is a strictly-decreasing price curve bound to an escrow through a
// shared commitment digest. The auction references the escrow; it does not
// own the escrowed funds.
type Auction struct {
	// ID is the unique identifier for the auction (UUID format). Assigned by
	// the store, empty until persisted.
	ID string

	// EscrowID references the escrow whose asset this auction prices.
	EscrowID string

	Seller string

	// StartPrice and EndPrice bound the curve, EndPrice <= StartPrice.
	StartPrice *uint256.Int
	EndPrice   *uint256.Int

	// StartTime (ms since epoch) and Duration (ms) define when the curve
	// falls.
	StartTime int64
	Duration  int64

	// Commitment equals the referenced escrow's commitment. Price discovery
	// is bound to one specific secret.
	Commitment Commitment

	Metadata string

	State AuctionState

	// Winner and FinalPrice are recorded by the winning bid. FinalPrice is
	// the clearing price at bid time, never the payment amount.
	Winner     string
	FinalPrice *uint256.Int

	CreatedAt int64
}

// NewAuction creates an Active auction bound to the given escrow's
// commitment. The escrow must still be Locked; the curve must be well formed.
func NewAuction(escrow *Escrow, seller string, startPrice, endPrice *uint256.Int, startTime, duration int64, metadata string, now int64) (*Auction, error) {
	if escrow.State != EscrowLocked {
		return nil, ErrInvalidState
	}
	if startPrice == nil || startPrice.IsZero() {
		return nil, ErrInvalidAmount
	}
	if endPrice == nil || endPrice.Gt(startPrice) {
		return nil, ErrInvalidPriceRange
	}
	if duration <= 0 {
		return nil, ErrInvalidDuration
	}
	if startTime == 0 {
		startTime = now
	}
	return &Auction{
		EscrowID:   escrow.ID,
		Seller:     seller,
		StartPrice: startPrice.Clone(),
		EndPrice:   endPrice.Clone(),
		StartTime:  startTime,
		Duration:   duration,
		Commitment: escrow.Commitment,
		Metadata:   metadata,
		State:      AuctionActive,
		CreatedAt:  now,
	}, nil
}

func (a *Auction) clone() *Auction {
	out := *a
	out.StartPrice = a.StartPrice.Clone()
	out.EndPrice = a.EndPrice.Clone()
	if a.FinalPrice != nil {
		out.FinalPrice = a.FinalPrice.Clone()
	}
	return &out
}

// endTime is the instant the curve reaches the floor and bids stop.
func (a *Auction) endTime() int64 { return a.StartTime + a.Duration }

// CurrentPrice evaluates the curve at now: StartPrice before the start,
// EndPrice at or after the end, linear interpolation in between. Integer
// arithmetic with truncation toward zero; the interpolation uses a
// full-precision multiply-divide so the intermediate product cannot wrap.
func CurrentPrice(a *Auction, now int64) *uint256.Int {
	if now <= a.StartTime {
		return a.StartPrice.Clone()
	}
	if now >= a.endTime() {
		return a.EndPrice.Clone()
	}
	span := new(uint256.Int).Sub(a.StartPrice, a.EndPrice)
	elapsed := uint256.NewInt(uint64(now - a.StartTime))
	duration := uint256.NewInt(uint64(a.Duration))
	drop, _ := new(uint256.Int).MulDivOverflow(span, elapsed, duration)
	return new(uint256.Int).Sub(a.StartPrice, drop)
}

// IsActive reports whether the auction can still accept a bid at now.
func IsActive(a *Auction, now int64) bool {
	return a.State == AuctionActive && now < a.endTime() && a.Winner == ""
}

// TimeRemaining returns max(0, start+duration-now) in milliseconds.
func TimeRemaining(a *Auction, now int64) int64 {
	if now >= a.endTime() {
		return 0
	}
	return a.endTime() - now
}

// PlaceBid resolves a bid against the current price. The first bid whose
// payment covers price plus fee wins; the auction ends immediately with the
// clearing price recorded. Overpayment is not refunded here; that is the
// ledger's concern.
func PlaceBid(a *Auction, bidder string, payment *uint256.Int, feeBps uint64, now int64) (*Auction, error) {
	if a.State != AuctionActive || a.Winner != "" {
		return nil, ErrAuctionNotActive
	}
	if now >= a.endTime() {
		return nil, ErrAuctionExpired
	}
	price := CurrentPrice(a, now)
	required, err := TotalPayment(price, feeBps)
	if err != nil {
		return nil, err
	}
	if payment == nil || payment.Lt(required) {
		return nil, ErrInsufficientPayment
	}
	out := a.clone()
	out.State = AuctionWon
	out.Winner = bidder
	out.FinalPrice = price
	return out, nil
}

// CloseExpired marks an Active auction that ran past its end without a
// winning bid as Expired. Closing before the end fails with
// ErrAuctionNotEnded.
func CloseExpired(a *Auction, now int64) (*Auction, error) {
	if a.State != AuctionActive {
		return nil, ErrAuctionNotActive
	}
	if now < a.endTime() {
		return nil, ErrAuctionNotEnded
	}
	out := a.clone()
	out.State = AuctionExpired
	return out, nil
}
