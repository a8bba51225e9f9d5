// Package monitor polls active auctions and pushes price updates to
// subscribers. It is strictly read-only: it never transitions an auction,
// it only observes the descending price so agents can time their bids.
package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dutchlock/dutchlock/internal/storage"
	"github.com/dutchlock/dutchlock/pkg/protocol"
)

// PriceUpdate is broadcast once per tick per subscribed auction.
type PriceUpdate struct {
	AuctionID     string
	Price         string
	Active        bool
	TimeRemaining int64
	At            int64
}

// Monitor is a minimal pusher: each tick it loads the auctions that
// currently have at least one subscriber, computes their clearing price,
// and broadcasts a PriceUpdate. No per-auction state is retained.
type Monitor struct {
	store    storage.Store
	interval time.Duration
	now      func() int64

	mu   sync.RWMutex
	subs map[string]map[chan PriceUpdate]struct{} // auctionID -> set(chan)

	quit chan struct{}
}

// New creates a Monitor polling at the given interval.
func New(store storage.Store, interval time.Duration) *Monitor {
	return &Monitor{
		store:    store,
		interval: interval,
		now:      func() int64 { return time.Now().UnixMilli() },
		subs:     make(map[string]map[chan PriceUpdate]struct{}),
		quit:     make(chan struct{}),
	}
}

// Stop terminates the poll loop.
func (m *Monitor) Stop() { close(m.quit) }

// Run polls until the context is cancelled or Stop is called.
func (m *Monitor) Run(ctx context.Context) {
	slog.Info("monitor: started", "interval", m.interval)
	t := time.NewTicker(m.interval)
	defer t.Stop()
	defer slog.Info("monitor: stopped")
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.quit:
			return
		case <-t.C:
			m.pollOnce(ctx)
		}
	}
}

func (m *Monitor) pollOnce(ctx context.Context) {
	m.mu.RLock()
	ids := make([]string, 0, len(m.subs))
	for id := range m.subs {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	active, err := m.store.ListAuctionsByState(ctx, protocol.AuctionActive)
	if err != nil {
		slog.Warn("monitor: listing active auctions failed", "error", err)
		return
	}
	activeByID := make(map[string]*protocol.Auction, len(active))
	for _, a := range active {
		activeByID[a.ID] = a
	}
	observeTick(len(active))

	now := m.now()
	for _, id := range ids {
		a, ok := activeByID[id]
		if !ok {
			// Ended or settled since the subscriber last looked. Fetch once
			// so the final state reaches listeners, then they can stop.
			a, err = m.store.GetAuction(ctx, id)
			if err != nil {
				slog.Debug("monitor: auction lookup failed", "auction_id", id, "error", err)
				continue
			}
		}
		price := protocol.CurrentPrice(a, now)
		isActive := protocol.IsActive(a, now)
		observePrice(a.ID, price, isActive)
		m.broadcast(id, PriceUpdate{
			AuctionID:     a.ID,
			Price:         price.Dec(),
			Active:        isActive,
			TimeRemaining: protocol.TimeRemaining(a, now),
			At:            now,
		})
	}
}

// Subscribe adds a listener for an auction and returns the channel plus an
// unsubscribe func. No initial snapshot is sent; first data arrives on the
// next tick.
func (m *Monitor) Subscribe(auctionID string) (<-chan PriceUpdate, func()) {
	ch := make(chan PriceUpdate, 8)

	m.mu.Lock()
	if _, ok := m.subs[auctionID]; !ok {
		m.subs[auctionID] = make(map[chan PriceUpdate]struct{})
	}
	m.subs[auctionID][ch] = struct{}{}
	n := len(m.subs[auctionID])
	m.mu.Unlock()
	slog.Info("monitor: subscribed", "auction_id", auctionID, "subs", n)

	unsub := func() {
		m.mu.Lock()
		if set, ok := m.subs[auctionID]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(m.subs, auctionID)
			}
		}
		m.mu.Unlock()
		// Do not close(ch): the producer may still try to send; the
		// receiver stops via context instead.
	}
	return ch, unsub
}

// broadcast snapshots subscribers for the auction, then best-effort sends.
func (m *Monitor) broadcast(auctionID string, u PriceUpdate) {
	m.mu.RLock()
	set := m.subs[auctionID]
	chs := make([]chan PriceUpdate, 0, len(set))
	for ch := range set {
		chs = append(chs, ch)
	}
	m.mu.RUnlock()

	for _, ch := range chs {
		select {
		case ch <- u:
		default:
			// Drop if the receiver is slow.
		}
	}
}
