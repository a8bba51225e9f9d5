package protocol

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// SecretSize is the byte length of a secret and of its digest.
const SecretSize = 32

// Secret is the preimage withheld by the maker until release time.
type Secret [SecretSize]byte

// Commitment is the SHA3-256 digest of a secret. The digest is published when
// the escrow is created; the same digest binds the escrow to its auction.
type Commitment [SecretSize]byte

// GenerateSecret draws a fresh 32-byte secret from a cryptographically secure
// source and returns it together with its commitment digest.
func GenerateSecret() (Secret, Commitment, error) {
	var s Secret
	if _, err := rand.Read(s[:]); err != nil {
		return Secret{}, Commitment{}, fmt.Errorf("failed to read random secret: %w", err)
	}
	return s, CommitmentOf(s), nil
}

// CommitmentOf computes the digest of a secret's canonical 32-byte encoding.
func CommitmentOf(s Secret) Commitment {
	return Commitment(sha3.Sum256(s[:]))
}

// VerifySecret recomputes the digest and compares for exact equality.
func VerifySecret(s Secret, c Commitment) bool {
	return CommitmentOf(s) == c
}

// Hex returns the lowercase hex encoding of the commitment.
func (c Commitment) Hex() string { return hex.EncodeToString(c[:]) }

func (c Commitment) String() string { return c.Hex() }

// ParseCommitment decodes a 64-character hex digest.
func ParseCommitment(s string) (Commitment, error) {
	var c Commitment
	b, err := hex.DecodeString(s)
	if err != nil {
		return c, fmt.Errorf("invalid commitment hex: %w", err)
	}
	if len(b) != SecretSize {
		return c, fmt.Errorf("commitment must be %d bytes, got %d", SecretSize, len(b))
	}
	copy(c[:], b)
	return c, nil
}

// Hex returns the lowercase hex encoding of the secret.
func (s Secret) Hex() string { return hex.EncodeToString(s[:]) }

// ParseSecret decodes a 64-character hex secret.
func ParseSecret(str string) (Secret, error) {
	var s Secret
	b, err := hex.DecodeString(str)
	if err != nil {
		return s, fmt.Errorf("invalid secret hex: %w", err)
	}
	if len(b) != SecretSize {
		return s, fmt.Errorf("secret must be %d bytes, got %d", SecretSize, len(b))
	}
	copy(s[:], b)
	return s, nil
}
