package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dutchlock/dutchlock/internal/storage"
	"github.com/dutchlock/dutchlock/pkg/protocol"
	"github.com/dutchlock/dutchlock/pkg/units"
)

// CreateEscrow persists a new escrow to the database.
func (s *SQLiteStore) CreateEscrow(ctx context.Context, e *protocol.Escrow) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().UnixMilli()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO escrows (id, commitment, amount, maker, timelock, metadata, state, revealed_secret, beneficiary, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Commitment.Hex(), e.Amount.Dec(), e.Maker, e.Timelock, e.Metadata,
		string(e.State), secretColumn(e.RevealedSecret), nullable(e.Beneficiary), e.CreatedAt,
	)
	if err != nil {
		// The unique index violation reads "UNIQUE constraint failed:
		// escrows.commitment"; the driver exposes no typed constraint error.
		if strings.Contains(err.Error(), "escrows.commitment") {
			return storage.ErrDuplicateCommitment
		}
		return fmt.Errorf("failed to insert escrow: %w", err)
	}
	return nil
}

// GetEscrow retrieves an escrow by ID.
func (s *SQLiteStore) GetEscrow(ctx context.Context, id string) (*protocol.Escrow, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, commitment, amount, maker, timelock, metadata, state, revealed_secret, beneficiary, created_at
		 FROM escrows WHERE id = ?`, id)
	return scanEscrow(row)
}

// UpdateEscrow persists a transitioned escrow. The WHERE clause compares the
// previous state so concurrent transitions cannot both win; a zero row count
// surfaces as ErrStale.
func (s *SQLiteStore) UpdateEscrow(ctx context.Context, e *protocol.Escrow, prev protocol.EscrowState) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE escrows SET state = ?, revealed_secret = ?, beneficiary = ? WHERE id = ? AND state = ?`,
		string(e.State), secretColumn(e.RevealedSecret), nullable(e.Beneficiary), e.ID, string(prev),
	)
	if err != nil {
		return fmt.Errorf("failed to update escrow: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		// Either the id is unknown or the transition raced another one.
		if _, err := s.GetEscrow(ctx, e.ID); err != nil {
			return err
		}
		return storage.ErrStale
	}
	return nil
}

func scanEscrow(row *sql.Row) (*protocol.Escrow, error) {
	var (
		e                   protocol.Escrow
		commitment, amount  string
		secret, beneficiary sql.NullString
		state               string
	)
	err := row.Scan(&e.ID, &commitment, &amount, &e.Maker, &e.Timelock, &e.Metadata,
		&state, &secret, &beneficiary, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get escrow: %w", err)
	}

	if e.Commitment, err = protocol.ParseCommitment(commitment); err != nil {
		return nil, fmt.Errorf("failed to decode stored commitment: %w", err)
	}
	if e.Amount, err = units.ParseAtoms(amount); err != nil {
		return nil, fmt.Errorf("failed to decode stored amount: %w", err)
	}
	e.State = protocol.EscrowState(state)
	if secret.Valid {
		sec, err := protocol.ParseSecret(secret.String)
		if err != nil {
			return nil, fmt.Errorf("failed to decode stored secret: %w", err)
		}
		e.RevealedSecret = &sec
	}
	if beneficiary.Valid {
		e.Beneficiary = beneficiary.String
	}
	return &e, nil
}

func secretColumn(s *protocol.Secret) interface{} {
	if s == nil {
		return nil
	}
	return s.Hex()
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
