package monitor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/holiman/uint256"

	"github.com/dutchlock/dutchlock/internal/storage/sqlite"
	"github.com/dutchlock/dutchlock/pkg/protocol"
)

func TestMonitorBroadcastsPriceUpdates(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "dutchlock-monitor-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	start := int64(1_000_000)

	_, commitment, err := protocol.GenerateSecret()
	if err != nil {
		t.Fatalf("GenerateSecret failed: %v", err)
	}
	escrow, err := protocol.NewEscrow(uint256.NewInt(1_000_000_000), commitment, start+7_200_000, "maker", "", start)
	if err != nil {
		t.Fatalf("NewEscrow failed: %v", err)
	}
	if err := store.CreateEscrow(ctx, escrow); err != nil {
		t.Fatalf("CreateEscrow failed: %v", err)
	}
	auction, err := protocol.NewAuction(escrow, "seller", uint256.NewInt(500_000_000), uint256.NewInt(100_000_000), start, 3_600_000, "", start)
	if err != nil {
		t.Fatalf("NewAuction failed: %v", err)
	}
	if err := store.CreateAuction(ctx, auction); err != nil {
		t.Fatalf("CreateAuction failed: %v", err)
	}

	now := start + 1_800_000
	m := New(store, time.Minute)
	m.now = func() int64 { return now }

	ch, unsub := m.Subscribe(auction.ID)
	defer unsub()

	m.pollOnce(ctx)
	select {
	case u := <-ch:
		if u.AuctionID != auction.ID {
			t.Errorf("AuctionID = %q, want %q", u.AuctionID, auction.ID)
		}
		if u.Price != "300000000" {
			t.Errorf("Price = %s, want 300000000", u.Price)
		}
		if !u.Active {
			t.Error("Update reports inactive auction halfway through")
		}
		if u.TimeRemaining != 1_800_000 {
			t.Errorf("TimeRemaining = %d, want 1800000", u.TimeRemaining)
		}
	default:
		t.Fatal("No update broadcast for subscribed auction")
	}

	// Once a bid wins, the next tick reports the terminal state so the
	// subscriber knows to stop.
	won, err := protocol.PlaceBid(auction, "bidder", uint256.NewInt(400_000_000), protocol.DefaultFeeBps, now)
	if err != nil {
		t.Fatalf("PlaceBid failed: %v", err)
	}
	if err := store.UpdateAuction(ctx, won, auction.State); err != nil {
		t.Fatalf("UpdateAuction failed: %v", err)
	}

	m.pollOnce(ctx)
	select {
	case u := <-ch:
		if u.Active {
			t.Error("Update reports a won auction as active")
		}
	default:
		t.Fatal("No update broadcast after the auction ended")
	}
}

func TestMonitorUnsubscribe(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "dutchlock-monitor-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	m := New(store, time.Minute)
	ch, unsub := m.Subscribe("auction-1")
	unsub()

	m.pollOnce(context.Background())
	select {
	case <-ch:
		t.Error("Update delivered after unsubscribe")
	default:
	}
}
