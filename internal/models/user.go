// Package models defines the coordinator's account model. The protocol
// entities (Escrow, Auction) live in pkg/protocol; this package only covers
// the agents that authenticate against the coordinator API.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered agent (a maker's or taker's off-chain client).
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the login identifier (unique).
	Email string

	// DisplayName is shown wherever a human reads the id.
	DisplayName string

	// PasswordHash is the bcrypt hash of the login password.
	PasswordHash string

	// CreatedAt and UpdatedAt are milliseconds since epoch.
	CreatedAt int64
	UpdatedAt int64
}

// NewUser builds a user with a fresh id and timestamps.
func NewUser(email, displayName, passwordHash string) *User {
	now := time.Now().UnixMilli()
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
