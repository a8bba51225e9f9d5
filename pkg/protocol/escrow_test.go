package protocol

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"
)

func mustSecret(t *testing.T) (Secret, Commitment) {
	t.Helper()
	s, c, err := GenerateSecret()
	if err != nil {
		t.Fatalf("GenerateSecret failed: %v", err)
	}
	return s, c
}

func lockedEscrow(t *testing.T, timelock, now int64) (*Escrow, Secret) {
	t.Helper()
	secret, commitment := mustSecret(t)
	e, err := NewEscrow(uint256.NewInt(1_000_000_000), commitment, timelock, "maker", "", now)
	if err != nil {
		t.Fatalf("NewEscrow failed: %v", err)
	}
	e.ID = "escrow-1"
	return e, secret
}

func TestNewEscrow(t *testing.T) {
	_, commitment := mustSecret(t)
	now := int64(1_000_000)

	tests := []struct {
		name     string
		amount   *uint256.Int
		timelock int64
		wantErr  error
	}{
		{"valid", uint256.NewInt(500), now + 60_000, nil},
		{"zero amount", uint256.NewInt(0), now + 60_000, ErrInvalidAmount},
		{"nil amount", nil, now + 60_000, ErrInvalidAmount},
		{"timelock in the past", uint256.NewInt(500), now - 1, ErrInvalidTimelock},
		{"timelock equal to now", uint256.NewInt(500), now, ErrInvalidTimelock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEscrow(tt.amount, commitment, tt.timelock, "maker", "", now)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewEscrow error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && e.State != EscrowLocked {
				t.Errorf("New escrow state = %s, want %s", e.State, EscrowLocked)
			}
		})
	}
}

func TestRevealAndRelease(t *testing.T) {
	now := int64(1_000_000)
	e, secret := lockedEscrow(t, now+60_000, now)

	released, err := RevealAndRelease(e, secret, "winner", now+1)
	if err != nil {
		t.Fatalf("RevealAndRelease failed: %v", err)
	}
	if released.State != EscrowReleased {
		t.Errorf("State = %s, want %s", released.State, EscrowReleased)
	}
	if released.Beneficiary != "winner" {
		t.Errorf("Beneficiary = %q, want %q", released.Beneficiary, "winner")
	}
	if released.RevealedSecret == nil || *released.RevealedSecret != secret {
		t.Error("Revealed secret not recorded")
	}
	if e.State != EscrowLocked {
		t.Error("Transition mutated the input snapshot")
	}

	// Retrying a release that already happened must fail loudly, never
	// pretend to transfer again.
	if _, err := RevealAndRelease(released, secret, "winner", now+2); !errors.Is(err, ErrAlreadyReleased) {
		t.Errorf("Repeat release error = %v, want %v", err, ErrAlreadyReleased)
	}
}

func TestRevealRejectsWrongSecret(t *testing.T) {
	now := int64(1_000_000)
	e, _ := lockedEscrow(t, now+60_000, now)
	wrong, _ := mustSecret(t)

	if _, err := Reveal(e, wrong, now+1); !errors.Is(err, ErrSecretMismatch) {
		t.Errorf("Reveal error = %v, want %v", err, ErrSecretMismatch)
	}
}

func TestRevealRejectsExpiredTimelock(t *testing.T) {
	now := int64(1_000_000)
	e, secret := lockedEscrow(t, now+1_000, now)

	tests := []struct {
		name string
		at   int64
		ok   bool
	}{
		{"just before expiry", now + 999, true},
		{"exactly at expiry", now + 1_000, false},
		{"after expiry", now + 1_001, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Reveal(e, secret, tt.at)
			if tt.ok && err != nil {
				t.Fatalf("Reveal failed: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrTimelockExpired) {
				t.Errorf("Reveal error = %v, want %v", err, ErrTimelockExpired)
			}
		})
	}
}

func TestReleaseRequiresReveal(t *testing.T) {
	now := int64(1_000_000)
	e, _ := lockedEscrow(t, now+60_000, now)

	if _, err := Release(e, "winner", now+1); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Release on Locked error = %v, want %v", err, ErrInvalidState)
	}
}

func TestReleaseRejectsEmptyBeneficiary(t *testing.T) {
	now := int64(1_000_000)
	e, secret := lockedEscrow(t, now+60_000, now)
	revealed, err := Reveal(e, secret, now+1)
	if err != nil {
		t.Fatalf("Reveal failed: %v", err)
	}
	if _, err := Release(revealed, "", now+2); !errors.Is(err, ErrInvalidBeneficiary) {
		t.Errorf("Release error = %v, want %v", err, ErrInvalidBeneficiary)
	}
}

func TestRefundEscrow(t *testing.T) {
	now := int64(1_000_000)
	e, secret := lockedEscrow(t, now+1_000, now)

	t.Run("before expiry fails", func(t *testing.T) {
		if _, err := RefundEscrow(e, now+500); !errors.Is(err, ErrTimelockNotExpired) {
			t.Errorf("RefundEscrow error = %v, want %v", err, ErrTimelockNotExpired)
		}
	})

	t.Run("at expiry succeeds", func(t *testing.T) {
		refunded, err := RefundEscrow(e, now+1_000)
		if err != nil {
			t.Fatalf("RefundEscrow failed: %v", err)
		}
		if refunded.State != EscrowRefunded {
			t.Errorf("State = %s, want %s", refunded.State, EscrowRefunded)
		}
	})

	t.Run("after expiry succeeds", func(t *testing.T) {
		if _, err := RefundEscrow(e, now+1_001); err != nil {
			t.Fatalf("RefundEscrow failed: %v", err)
		}
	})

	t.Run("refund after refund fails", func(t *testing.T) {
		refunded, err := RefundEscrow(e, now+1_001)
		if err != nil {
			t.Fatalf("RefundEscrow failed: %v", err)
		}
		if _, err := RefundEscrow(refunded, now+2_000); !errors.Is(err, ErrInvalidState) {
			t.Errorf("Repeat refund error = %v, want %v", err, ErrInvalidState)
		}
	})

	t.Run("refund after release fails", func(t *testing.T) {
		released, err := RevealAndRelease(e, secret, "winner", now+1)
		if err != nil {
			t.Fatalf("RevealAndRelease failed: %v", err)
		}
		if _, err := RefundEscrow(released, now+2_000); !errors.Is(err, ErrAlreadyReleased) {
			t.Errorf("Refund after release error = %v, want %v", err, ErrAlreadyReleased)
		}
	})

	t.Run("release after refund fails", func(t *testing.T) {
		refunded, err := RefundEscrow(e, now+1_000)
		if err != nil {
			t.Fatalf("RefundEscrow failed: %v", err)
		}
		if _, err := RevealAndRelease(refunded, secret, "winner", now+1_500); !errors.Is(err, ErrInvalidState) {
			t.Errorf("Release after refund error = %v, want %v", err, ErrInvalidState)
		}
	})
}
