// Package service implements the coordinator's HTTP/JSON handlers. Each
// service loads a snapshot from storage, runs a pure protocol transition
// against it, and persists the result with a compare-and-swap on the
// snapshot's state. A lost swap surfaces as a 409 CONFLICT.
package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dutchlock/dutchlock/internal/storage"
	"github.com/dutchlock/dutchlock/pkg/api"
	"github.com/dutchlock/dutchlock/pkg/protocol"
)

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// badRequest reports a malformed or unparseable request.
func badRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, &api.Error{Code: api.CodeInvalidArgument, Message: err.Error()})
}

// writeError maps a failure to an HTTP status and a stable wire code. The
// split matters to callers: 4xx means the request can never succeed as
// written, 409 means re-fetch and decide again.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	code := api.CodeFor(err)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		code = api.CodeNotFound
	case errors.Is(err, storage.ErrStale), errors.Is(err, storage.ErrDuplicateCommitment):
		code = api.CodeConflict
	}
	if status >= http.StatusInternalServerError {
		slog.Error("Request failed", "error", err)
	}
	writeJSON(w, status, &api.Error{Code: code, Message: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrStale),
		errors.Is(err, storage.ErrDuplicateCommitment):
		return http.StatusConflict
	case errors.Is(err, protocol.ErrInsufficientPayment):
		return http.StatusPaymentRequired
	case errors.Is(err, protocol.ErrInvalidTimelock),
		errors.Is(err, protocol.ErrInvalidAmount),
		errors.Is(err, protocol.ErrInvalidPriceRange),
		errors.Is(err, protocol.ErrInvalidDuration),
		errors.Is(err, protocol.ErrInvalidBeneficiary),
		errors.Is(err, protocol.ErrOverflow):
		return http.StatusBadRequest
	case errors.Is(err, protocol.ErrInvalidState),
		errors.Is(err, protocol.ErrAlreadyReleased),
		errors.Is(err, protocol.ErrTimelockNotExpired),
		errors.Is(err, protocol.ErrTimelockExpired),
		errors.Is(err, protocol.ErrSecretMismatch),
		errors.Is(err, protocol.ErrAuctionNotActive),
		errors.Is(err, protocol.ErrAuctionExpired),
		errors.Is(err, protocol.ErrAuctionNotEnded),
		errors.Is(err, protocol.ErrNoWinner),
		errors.Is(err, protocol.ErrCommitmentMismatch):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func escrowToAPI(e *protocol.Escrow) api.Escrow {
	out := api.Escrow{
		ID:          e.ID,
		Commitment:  e.Commitment.Hex(),
		Amount:      e.Amount.Dec(),
		Maker:       e.Maker,
		Timelock:    e.Timelock,
		Metadata:    e.Metadata,
		State:       string(e.State),
		Beneficiary: e.Beneficiary,
		CreatedAt:   e.CreatedAt,
	}
	if e.RevealedSecret != nil {
		out.RevealedSecret = e.RevealedSecret.Hex()
	}
	return out
}

func auctionToAPI(a *protocol.Auction) api.Auction {
	out := api.Auction{
		ID:         a.ID,
		EscrowID:   a.EscrowID,
		Seller:     a.Seller,
		StartPrice: a.StartPrice.Dec(),
		EndPrice:   a.EndPrice.Dec(),
		StartTime:  a.StartTime,
		Duration:   a.Duration,
		Commitment: a.Commitment.Hex(),
		Metadata:   a.Metadata,
		State:      string(a.State),
		Winner:     a.Winner,
		CreatedAt:  a.CreatedAt,
	}
	if a.FinalPrice != nil {
		out.FinalPrice = a.FinalPrice.Dec()
	}
	return out
}
