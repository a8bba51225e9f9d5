package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/holiman/uint256"

	"github.com/dutchlock/dutchlock/internal/storage"
	"github.com/dutchlock/dutchlock/pkg/protocol"
	"github.com/dutchlock/dutchlock/pkg/units"
)

// CreateAuction persists a new auction to the database.
func (s *SQLiteStore) CreateAuction(ctx context.Context, a *protocol.Auction) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt == 0 {
		a.CreatedAt = time.Now().UnixMilli()
	}

	// The guarded insert keeps the digest binding one-to-one: an escrow may
	// carry at most one live (active or won) auction at a time, so the same
	// asset is never under price discovery twice. Re-listing after an
	// expired auction stays possible.
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO auctions (id, escrow_id, seller, start_price, end_price, start_time, duration, commitment, metadata, state, winner, final_price, created_at)
		 SELECT ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
		 WHERE NOT EXISTS (SELECT 1 FROM auctions WHERE escrow_id = ? AND state IN (?, ?))`,
		a.ID, a.EscrowID, a.Seller, a.StartPrice.Dec(), a.EndPrice.Dec(), a.StartTime, a.Duration,
		a.Commitment.Hex(), a.Metadata, string(a.State), nullable(a.Winner), priceColumn(a.FinalPrice), a.CreatedAt,
		a.EscrowID, string(protocol.AuctionActive), string(protocol.AuctionWon),
	)
	if err != nil {
		return fmt.Errorf("failed to insert auction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return storage.ErrDuplicateCommitment
	}
	return nil
}

// GetAuction retrieves an auction by ID.
func (s *SQLiteStore) GetAuction(ctx context.Context, id string) (*protocol.Auction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, escrow_id, seller, start_price, end_price, start_time, duration, commitment, metadata, state, winner, final_price, created_at
		 FROM auctions WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get auction: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to get auction: %w", err)
		}
		return nil, storage.ErrNotFound
	}
	return scanAuction(rows)
}

// UpdateAuction persists a transitioned auction with the same
// compare-and-swap discipline as UpdateEscrow.
func (s *SQLiteStore) UpdateAuction(ctx context.Context, a *protocol.Auction, prev protocol.AuctionState) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE auctions SET state = ?, winner = ?, final_price = ? WHERE id = ? AND state = ?`,
		string(a.State), nullable(a.Winner), priceColumn(a.FinalPrice), a.ID, string(prev),
	)
	if err != nil {
		return fmt.Errorf("failed to update auction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		if _, err := s.GetAuction(ctx, a.ID); err != nil {
			return err
		}
		return storage.ErrStale
	}
	return nil
}

// ListAuctionsByState returns all auctions in the given state, oldest first.
func (s *SQLiteStore) ListAuctionsByState(ctx context.Context, state protocol.AuctionState) ([]*protocol.Auction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, escrow_id, seller, start_price, end_price, start_time, duration, commitment, metadata, state, winner, final_price, created_at
		 FROM auctions WHERE state = ? ORDER BY created_at`, string(state))
	if err != nil {
		return nil, fmt.Errorf("failed to list auctions: %w", err)
	}
	defer rows.Close()

	var auctions []*protocol.Auction
	for rows.Next() {
		a, err := scanAuction(rows)
		if err != nil {
			return nil, err
		}
		auctions = append(auctions, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate auctions: %w", err)
	}
	return auctions, nil
}

func scanAuction(rows *sql.Rows) (*protocol.Auction, error) {
	var (
		a                    protocol.Auction
		startPrice, endPrice string
		commitment, state    string
		winner, finalPrice   sql.NullString
	)
	err := rows.Scan(&a.ID, &a.EscrowID, &a.Seller, &startPrice, &endPrice, &a.StartTime,
		&a.Duration, &commitment, &a.Metadata, &state, &winner, &finalPrice, &a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan auction: %w", err)
	}

	if a.StartPrice, err = units.ParseAtoms(startPrice); err != nil {
		return nil, fmt.Errorf("failed to decode stored start price: %w", err)
	}
	if a.EndPrice, err = units.ParseAtoms(endPrice); err != nil {
		return nil, fmt.Errorf("failed to decode stored end price: %w", err)
	}
	if a.Commitment, err = protocol.ParseCommitment(commitment); err != nil {
		return nil, fmt.Errorf("failed to decode stored commitment: %w", err)
	}
	a.State = protocol.AuctionState(state)
	if winner.Valid {
		a.Winner = winner.String
	}
	if finalPrice.Valid {
		if a.FinalPrice, err = units.ParseAtoms(finalPrice.String); err != nil {
			return nil, fmt.Errorf("failed to decode stored final price: %w", err)
		}
	}
	return &a, nil
}

func priceColumn(p *uint256.Int) interface{} {
	if p == nil {
		return nil
	}
	return p.Dec()
}
