package service

import (
	"net/http"
	"time"

	"github.com/dutchlock/dutchlock/internal/middleware"
	"github.com/dutchlock/dutchlock/internal/storage"
	"github.com/dutchlock/dutchlock/pkg/api"
	"github.com/dutchlock/dutchlock/pkg/protocol"
	"github.com/dutchlock/dutchlock/pkg/units"
)

// EscrowService handles escrow creation, lookup and refund.
type EscrowService struct {
	store storage.Store
	now   func() int64
}

// NewEscrowService creates a new EscrowService with the given storage backend.
func NewEscrowService(store storage.Store) *EscrowService {
	return &EscrowService{
		store: store,
		now:   func() int64 { return time.Now().UnixMilli() },
	}
}

// Register mounts the escrow routes on mux. Mutations require authentication.
func (s *EscrowService) Register(mux *http.ServeMux, requireAuth middleware.Middleware) {
	mux.Handle("POST /v1/escrows", requireAuth(http.HandlerFunc(s.Create)))
	mux.HandleFunc("GET /v1/escrows/{id}", s.Get)
	mux.Handle("POST /v1/escrows/{id}/refund", requireAuth(http.HandlerFunc(s.Refund)))
}

// Create locks funds under a commitment digest until a timelock.
func (s *EscrowService) Create(w http.ResponseWriter, r *http.Request) {
	var req api.CreateEscrowRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err)
		return
	}

	amount, err := units.ParseAtoms(req.Amount)
	if err != nil {
		badRequest(w, err)
		return
	}
	commitment, err := protocol.ParseCommitment(req.Commitment)
	if err != nil {
		badRequest(w, err)
		return
	}

	maker := middleware.GetUserID(r.Context())
	escrow, err := protocol.NewEscrow(amount, commitment, req.Timelock, maker, req.Metadata, s.now())
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.store.CreateEscrow(r.Context(), escrow); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, &api.CreateEscrowResponse{
		EscrowID: escrow.ID,
		Escrow:   escrowToAPI(escrow),
	})
}

// Get returns an escrow snapshot.
func (s *EscrowService) Get(w http.ResponseWriter, r *http.Request) {
	escrow, err := s.store.GetEscrow(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, escrowToAPI(escrow))
}

// Refund returns the locked funds to the maker once the timelock has passed.
// Anyone may trigger it; the funds always go back to the maker.
func (s *EscrowService) Refund(w http.ResponseWriter, r *http.Request) {
	escrow, err := s.store.GetEscrow(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	refunded, err := protocol.RefundEscrow(escrow, s.now())
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.UpdateEscrow(r.Context(), refunded, escrow.State); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, &api.RefundResponse{Escrow: escrowToAPI(refunded)})
}
