// Package storage provides abstractions for persistent entity storage.
package storage

import (
	"context"
	"errors"

	"github.com/dutchlock/dutchlock/internal/models"
	"github.com/dutchlock/dutchlock/pkg/protocol"
)

var (
	// ErrNotFound means no entity with the given id exists.
	ErrNotFound = errors.New("entity not found")

	// ErrStale means a state transition lost the race: the entity's state no
	// longer matches the snapshot the transition was computed from. The
	// caller must re-fetch and decide again; it must not assume the
	// transition took effect.
	ErrStale = errors.New("entity state changed concurrently")

	// ErrDuplicateCommitment means the commitment digest is already bound to
	// another escrow, or the escrow already carries a live auction. A digest
	// is never reused across escrows, and never under more than one open
	// sale at a time.
	ErrDuplicateCommitment = errors.New("commitment already in use")
)

// Store defines the interface for entity storage operations. The store is
// the serialization point of the protocol: transitions persist with a
// compare-and-swap on the previous state, so at most one in-flight mutation
// per entity wins.
type Store interface {
	// CreateEscrow persists a new escrow. The escrow.ID field will be
	// populated by the store.
	CreateEscrow(ctx context.Context, e *protocol.Escrow) error

	// GetEscrow retrieves an escrow by id, or ErrNotFound.
	GetEscrow(ctx context.Context, id string) (*protocol.Escrow, error)

	// UpdateEscrow persists a transitioned escrow if its stored state still
	// equals prev; otherwise ErrStale.
	UpdateEscrow(ctx context.Context, e *protocol.Escrow, prev protocol.EscrowState) error

	// CreateAuction persists a new auction. The auction.ID field will be
	// populated by the store. If the escrow already has an active or won
	// auction the insert is rejected with ErrDuplicateCommitment.
	CreateAuction(ctx context.Context, a *protocol.Auction) error

	// GetAuction retrieves an auction by id, or ErrNotFound.
	GetAuction(ctx context.Context, id string) (*protocol.Auction, error)

	// UpdateAuction persists a transitioned auction if its stored state
	// still equals prev; otherwise ErrStale.
	UpdateAuction(ctx context.Context, a *protocol.Auction, prev protocol.AuctionState) error

	// ListAuctionsByState returns all auctions currently in the given state.
	ListAuctionsByState(ctx context.Context, state protocol.AuctionState) ([]*protocol.Auction, error)

	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email, nil if not registered.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// Close releases any resources held by the store.
	Close() error
}
