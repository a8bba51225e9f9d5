package monitor

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pollTicks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "dutchlock",
		Subsystem: "monitor",
		Name:      "poll_ticks_total",
		Help:      "Number of completed monitor poll ticks.",
	})

	activeAuctions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "dutchlock",
		Subsystem: "monitor",
		Name:      "active_auctions",
		Help:      "Auctions currently in the ACTIVE state.",
	})

	auctionPrice = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "dutchlock",
		Subsystem: "monitor",
		Name:      "auction_price_atoms",
		Help:      "Current clearing price of a subscribed auction, in smallest units.",
	}, []string{"auction_id"})
)

func observeTick(active int) {
	pollTicks.Inc()
	activeAuctions.Set(float64(active))
}

// observePrice exports the price for dashboards. The float conversion is
// lossy above 2^53 but metrics are approximate anyway; the wire and the
// store always carry the exact decimal string.
func observePrice(auctionID string, price *uint256.Int, active bool) {
	if !active {
		auctionPrice.DeleteLabelValues(auctionID)
		return
	}
	f, _ := new(big.Float).SetInt(price.ToBig()).Float64()
	auctionPrice.WithLabelValues(auctionID).Set(f)
}
