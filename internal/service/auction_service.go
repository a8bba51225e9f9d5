package service

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dutchlock/dutchlock/internal/middleware"
	"github.com/dutchlock/dutchlock/internal/storage"
	"github.com/dutchlock/dutchlock/pkg/api"
	"github.com/dutchlock/dutchlock/pkg/protocol"
	"github.com/dutchlock/dutchlock/pkg/units"
)

// AuctionService handles Dutch auction creation, price discovery and bidding.
type AuctionService struct {
	store  storage.Store
	feeBps uint64
	now    func() int64
}

// NewAuctionService creates a new AuctionService with the given storage
// backend and protocol fee in basis points.
func NewAuctionService(store storage.Store, feeBps uint64) *AuctionService {
	return &AuctionService{
		store:  store,
		feeBps: feeBps,
		now:    func() int64 { return time.Now().UnixMilli() },
	}
}

// Register mounts the auction routes on mux. Mutations require
// authentication; price discovery is open to anonymous callers.
func (s *AuctionService) Register(mux *http.ServeMux, requireAuth middleware.Middleware) {
	mux.Handle("POST /v1/auctions", requireAuth(http.HandlerFunc(s.Create)))
	mux.HandleFunc("GET /v1/auctions/{id}", s.Get)
	mux.HandleFunc("GET /v1/auctions/{id}/price", s.Price)
	mux.Handle("POST /v1/auctions/{id}/bids", requireAuth(http.HandlerFunc(s.PlaceBid)))
	mux.HandleFunc("POST /v1/auctions/{id}/close", s.Close)
}

// Create opens a descending-price auction over an existing escrow. The
// auction inherits the escrow's commitment digest; only the escrow's maker
// may auction it.
func (s *AuctionService) Create(w http.ResponseWriter, r *http.Request) {
	var req api.CreateAuctionRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err)
		return
	}

	startPrice, err := units.ParseAtoms(req.StartPrice)
	if err != nil {
		badRequest(w, err)
		return
	}
	endPrice, err := units.ParseAtoms(req.EndPrice)
	if err != nil {
		badRequest(w, err)
		return
	}

	escrow, err := s.store.GetEscrow(r.Context(), req.EscrowID)
	if err != nil {
		writeError(w, err)
		return
	}

	seller := middleware.GetUserID(r.Context())
	if seller != escrow.Maker {
		badRequest(w, fmt.Errorf("only the escrow maker may auction it"))
		return
	}

	auction, err := protocol.NewAuction(escrow, seller, startPrice, endPrice, req.StartTime, req.Duration, req.Metadata, s.now())
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.store.CreateAuction(r.Context(), auction); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, &api.CreateAuctionResponse{
		AuctionID: auction.ID,
		Auction:   auctionToAPI(auction),
	})
}

// Get returns an auction snapshot.
func (s *AuctionService) Get(w http.ResponseWriter, r *http.Request) {
	auction, err := s.store.GetAuction(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, auctionToAPI(auction))
}

// Price quotes the current clearing price. The quote carries the timestamp
// it was computed at; the price only ever moves down while the auction runs.
func (s *AuctionService) Price(w http.ResponseWriter, r *http.Request) {
	auction, err := s.store.GetAuction(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	now := s.now()
	writeJSON(w, http.StatusOK, &api.PriceQuote{
		AuctionID:     auction.ID,
		Price:         protocol.CurrentPrice(auction, now).Dec(),
		Active:        protocol.IsActive(auction, now),
		TimeRemaining: protocol.TimeRemaining(auction, now),
		At:            now,
	})
}

// PlaceBid accepts the first payment covering the current price plus fee.
// The recorded final price is the clearing price at acceptance time, not
// the payment.
func (s *AuctionService) PlaceBid(w http.ResponseWriter, r *http.Request) {
	var req api.PlaceBidRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	payment, err := units.ParseAtoms(req.Payment)
	if err != nil {
		badRequest(w, err)
		return
	}

	auction, err := s.store.GetAuction(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	now := s.now()
	bidder := middleware.GetUserID(r.Context())
	won, err := protocol.PlaceBid(auction, bidder, payment, s.feeBps, now)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.UpdateAuction(r.Context(), won, auction.State); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, &api.BidAccepted{
		AuctionID:  won.ID,
		Bidder:     won.Winner,
		FinalPrice: won.FinalPrice.Dec(),
		At:         now,
	})
}

// Close marks an ended auction without a winner as expired. Anyone may
// trigger it; closing does not touch the escrow.
func (s *AuctionService) Close(w http.ResponseWriter, r *http.Request) {
	auction, err := s.store.GetAuction(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	expired, err := protocol.CloseExpired(auction, s.now())
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.UpdateAuction(r.Context(), expired, auction.State); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, &api.CloseAuctionResponse{Auction: auctionToAPI(expired)})
}
