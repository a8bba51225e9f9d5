// Package client is a typed HTTP client for the coordinator. Failures come
// back as the same sentinel errors the server's core produces, so callers
// use errors.Is exactly as they would in-process.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dutchlock/dutchlock/pkg/api"
)

// Client talks to a coordinator over HTTP/JSON.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// New creates a client for the coordinator at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken sets the bearer token used for authenticated calls.
func (c *Client) SetToken(token string) { c.token = token }

// do issues a request and decodes the response into out (unless nil). A
// non-2xx response decodes the wire error and maps it back to a sentinel.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body bytes.Buffer
	if in != nil {
		if err := json.NewEncoder(&body).Encode(in); err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr api.Error
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil {
			return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
		}
		return api.ErrFor(apiErr.Code, apiErr.Message)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Register creates an account and stores the returned token on the client.
func (c *Client) Register(ctx context.Context, email, displayName, password string) (*api.AuthResponse, error) {
	var resp api.AuthResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/register", &api.RegisterRequest{
		Email:       email,
		DisplayName: displayName,
		Password:    password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp, nil
}

// Login authenticates and stores the returned token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*api.AuthResponse, error) {
	var resp api.AuthResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/login", &api.LoginRequest{
		Email:    email,
		Password: password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp, nil
}

// CreateEscrow locks funds under a commitment digest until the timelock.
func (c *Client) CreateEscrow(ctx context.Context, req *api.CreateEscrowRequest) (*api.CreateEscrowResponse, error) {
	var resp api.CreateEscrowResponse
	if err := c.do(ctx, http.MethodPost, "/v1/escrows", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetEscrow fetches an escrow snapshot.
func (c *Client) GetEscrow(ctx context.Context, id string) (*api.Escrow, error) {
	var resp api.Escrow
	if err := c.do(ctx, http.MethodGet, "/v1/escrows/"+id, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RefundEscrow reclaims locked funds after the timelock has passed.
func (c *Client) RefundEscrow(ctx context.Context, id string) (*api.RefundResponse, error) {
	var resp api.RefundResponse
	if err := c.do(ctx, http.MethodPost, "/v1/escrows/"+id+"/refund", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateAuction opens a descending-price auction over an escrow.
func (c *Client) CreateAuction(ctx context.Context, req *api.CreateAuctionRequest) (*api.CreateAuctionResponse, error) {
	var resp api.CreateAuctionResponse
	if err := c.do(ctx, http.MethodPost, "/v1/auctions", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetAuction fetches an auction snapshot.
func (c *Client) GetAuction(ctx context.Context, id string) (*api.Auction, error) {
	var resp api.Auction
	if err := c.do(ctx, http.MethodGet, "/v1/auctions/"+id, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetPrice quotes the auction's current price.
func (c *Client) GetPrice(ctx context.Context, id string) (*api.PriceQuote, error) {
	var resp api.PriceQuote
	if err := c.do(ctx, http.MethodGet, "/v1/auctions/"+id+"/price", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PlaceBid offers a payment at the current price. The payment must cover
// the clearing price plus the protocol fee.
func (c *Client) PlaceBid(ctx context.Context, auctionID, payment string) (*api.BidAccepted, error) {
	var resp api.BidAccepted
	err := c.do(ctx, http.MethodPost, "/v1/auctions/"+auctionID+"/bids", &api.PlaceBidRequest{Payment: payment}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// CloseAuction marks an ended auction without a winner as expired.
func (c *Client) CloseAuction(ctx context.Context, id string) (*api.CloseAuctionResponse, error) {
	var resp api.CloseAuctionResponse
	if err := c.do(ctx, http.MethodPost, "/v1/auctions/"+id+"/close", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Settle reveals the secret and releases the escrow to the auction winner.
func (c *Client) Settle(ctx context.Context, req *api.SettleRequest) (*api.SettleResponse, error) {
	var resp api.SettleResponse
	if err := c.do(ctx, http.MethodPost, "/v1/settlements", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
