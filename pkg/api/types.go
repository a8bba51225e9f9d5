// Package api defines the JSON wire contract shared by the coordinator
// server and its clients. Amounts travel as decimal strings of smallest
// units, digests and secrets as hex, timestamps as milliseconds since epoch.
package api

// Escrow is the wire form of a hash-and-time-locked escrow.
type Escrow struct {
	ID             string `json:"id"`
	Commitment     string `json:"commitment"`
	Amount         string `json:"amount"`
	Maker          string `json:"maker"`
	Timelock       int64  `json:"timelock"`
	Metadata       string `json:"metadata,omitempty"`
	State          string `json:"state"`
	Beneficiary    string `json:"beneficiary,omitempty"`
	RevealedSecret string `json:"revealed_secret,omitempty"`
	CreatedAt      int64  `json:"created_at"`
}

// Auction is the wire form of a Dutch auction.
type Auction struct {
	ID         string `json:"id"`
	EscrowID   string `json:"escrow_id"`
	Seller     string `json:"seller"`
	StartPrice string `json:"start_price"`
	EndPrice   string `json:"end_price"`
	StartTime  int64  `json:"start_time"`
	Duration   int64  `json:"duration"`
	Commitment string `json:"commitment"`
	Metadata   string `json:"metadata,omitempty"`
	State      string `json:"state"`
	Winner     string `json:"winner,omitempty"`
	FinalPrice string `json:"final_price,omitempty"`
	CreatedAt  int64  `json:"created_at"`
}

type CreateEscrowRequest struct {
	Amount     string `json:"amount"`
	Commitment string `json:"commitment"`
	Timelock   int64  `json:"timelock"`
	Metadata   string `json:"metadata,omitempty"`
}

// CreateEscrowResponse confirms creation with the assigned id directly;
// callers never scan event logs for it.
type CreateEscrowResponse struct {
	EscrowID string `json:"escrow_id"`
	Escrow   Escrow `json:"escrow"`
}

type CreateAuctionRequest struct {
	EscrowID   string `json:"escrow_id"`
	StartPrice string `json:"start_price"`
	EndPrice   string `json:"end_price"`
	// StartTime of zero means "starts now".
	StartTime int64  `json:"start_time,omitempty"`
	Duration  int64  `json:"duration"`
	Metadata  string `json:"metadata,omitempty"`
}

type CreateAuctionResponse struct {
	AuctionID string  `json:"auction_id"`
	Auction   Auction `json:"auction"`
}

type PlaceBidRequest struct {
	Payment string `json:"payment"`
}

// BidAccepted is the structured notification emitted when a bid clears the
// price, carrying everything the settlement step needs.
type BidAccepted struct {
	AuctionID  string `json:"auction_id"`
	Bidder     string `json:"bidder"`
	FinalPrice string `json:"final_price"`
	At         int64  `json:"at"`
}

// PriceQuote is the read-only view of an auction's price at a point in time.
type PriceQuote struct {
	AuctionID     string `json:"auction_id"`
	Price         string `json:"price"`
	Active        bool   `json:"active"`
	TimeRemaining int64  `json:"time_remaining"`
	At            int64  `json:"at"`
}

type SettleRequest struct {
	EscrowID  string `json:"escrow_id"`
	AuctionID string `json:"auction_id"`
	Secret    string `json:"secret"`
}

type SettleResponse struct {
	Escrow Escrow `json:"escrow"`
}

type RefundResponse struct {
	Escrow Escrow `json:"escrow"`
}

type CloseAuctionResponse struct {
	Auction Auction `json:"auction"`
}

type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	CreatedAt   int64  `json:"created_at"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
