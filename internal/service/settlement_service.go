package service

import (
	"net/http"
	"time"

	"github.com/dutchlock/dutchlock/internal/storage"
	"github.com/dutchlock/dutchlock/pkg/api"
	"github.com/dutchlock/dutchlock/pkg/protocol"
)

// SettlementService atomically completes a swap: the revealed secret unlocks
// the escrow and the funds go to the auction winner in one step.
type SettlementService struct {
	store storage.Store
	now   func() int64
}

// NewSettlementService creates a new SettlementService with the given
// storage backend.
func NewSettlementService(store storage.Store) *SettlementService {
	return &SettlementService{
		store: store,
		now:   func() int64 { return time.Now().UnixMilli() },
	}
}

// Register mounts the settlement route on mux. Settlement needs no caller
// identity beyond the secret itself: knowing the preimage is the proof.
func (s *SettlementService) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/settlements", s.Settle)
}

// Settle verifies the secret against the escrow's commitment and, if the
// auction is won and bound to the same digest, releases the funds to the
// winner. On a lost persistence race the caller re-fetches; the escrow is
// either already settled or refunded.
func (s *SettlementService) Settle(w http.ResponseWriter, r *http.Request) {
	var req api.SettleRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	secret, err := protocol.ParseSecret(req.Secret)
	if err != nil {
		badRequest(w, err)
		return
	}

	escrow, err := s.store.GetEscrow(r.Context(), req.EscrowID)
	if err != nil {
		writeError(w, err)
		return
	}
	auction, err := s.store.GetAuction(r.Context(), req.AuctionID)
	if err != nil {
		writeError(w, err)
		return
	}

	released, err := protocol.Settle(escrow, auction, secret, s.now())
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.UpdateEscrow(r.Context(), released, escrow.State); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, &api.SettleResponse{Escrow: escrowToAPI(released)})
}
