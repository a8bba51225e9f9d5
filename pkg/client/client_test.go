package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dutchlock/dutchlock/pkg/api"
	"github.com/dutchlock/dutchlock/pkg/protocol"
)

func TestErrorsDecodeToSentinels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		json.NewEncoder(w).Encode(&api.Error{Code: api.CodeInsufficientPayment, Message: "payment below current price plus fee"})
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.PlaceBid(context.Background(), "auction-1", "1")
	if !errors.Is(err, protocol.ErrInsufficientPayment) {
		t.Fatalf("PlaceBid error = %v, want %v", err, protocol.ErrInsufficientPayment)
	}
}

func TestMonitorPriceStopsWhenInactive(t *testing.T) {
	var polls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := polls.Add(1)
		quote := &api.PriceQuote{AuctionID: "auction-1", Price: "300000000", Active: n < 3, TimeRemaining: 1000}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(quote)
	}))
	defer server.Close()

	c := New(server.URL)
	var seen int
	err := c.MonitorPrice(context.Background(), "auction-1", time.Millisecond, func(q *api.PriceQuote) {
		seen++
	})
	if err != nil {
		t.Fatalf("MonitorPrice failed: %v", err)
	}
	if seen != 3 {
		t.Errorf("Callback ran %d times, want 3", seen)
	}
}

func TestMonitorPriceHonorsCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		quote := &api.PriceQuote{AuctionID: "auction-1", Price: "300000000", Active: true}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(quote)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	c := New(server.URL)
	err := c.MonitorPrice(ctx, "auction-1", time.Millisecond, func(q *api.PriceQuote) {
		cancel()
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("MonitorPrice error = %v, want %v", err, context.Canceled)
	}
}
