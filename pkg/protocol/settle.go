package protocol

// Settle coordinates an ended auction with its underlying escrow: it checks
// that the auction produced a winner, that both entities are bound to the
// same commitment digest, and then releases the escrow to the winner via
// RevealAndRelease.
//
// The binding check is the single point of cross-entity consistency. An
// escrow and an auction that each validate a secret on their own must still
// be rejected here if their digests differ; accepting them would allow a
// commitment-substitution attack. There is no retry logic: if the release
// fails (for example the timelock passed), the failure surfaces to the
// caller and recovery goes through RefundEscrow.
func Settle(escrow *Escrow, auction *Auction, secret Secret, now int64) (*Escrow, error) {
	switch auction.State {
	case AuctionWon:
	case AuctionActive:
		return nil, ErrAuctionNotEnded
	default:
		return nil, ErrNoWinner
	}
	if auction.Winner == "" {
		return nil, ErrNoWinner
	}
	if escrow.Commitment != auction.Commitment {
		return nil, ErrCommitmentMismatch
	}
	if auction.EscrowID != "" && escrow.ID != "" && auction.EscrowID != escrow.ID {
		return nil, ErrCommitmentMismatch
	}
	return RevealAndRelease(escrow, secret, auction.Winner, now)
}
