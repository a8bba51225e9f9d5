package client

import (
	"context"
	"errors"
	"time"

	"github.com/dutchlock/dutchlock/pkg/api"
)

// MonitorPrice polls an auction's price at the given interval and calls fn
// with each quote. It returns nil once the auction stops being active, or
// the context error on cancellation. Transient request failures are skipped;
// a quote for a vanished auction ends the loop with the error.
func (c *Client) MonitorPrice(ctx context.Context, auctionID string, interval time.Duration, fn func(*api.PriceQuote)) error {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			quote, err := c.GetPrice(ctx, auctionID)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				var apiErr *api.Error
				if errors.As(err, &apiErr) && apiErr.Code == api.CodeNotFound {
					return err
				}
				continue
			}
			fn(quote)
			if !quote.Active {
				return nil
			}
		}
	}
}
