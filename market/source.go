// Package market fetches current prices and exchange rates, and caches them.
package market

import (
	"context"
	"fmt"
	"time"

	"github.com/etnz/tracker"
)

// Quote is a price observed at a given time.
type Quote struct {
	Key   string        `json:"key"`
	Price tracker.Money `json:"price"`
	AsOf  time.Time     `json:"asOf"`
}

// Source provides the current unit price of a symbol in a currency.
type Source interface {
	Quote(ctx context.Context, info tracker.SymbolInfo, currency string) (Quote, error)
}

// RateSource provides the value of one unit of from expressed in to.
type RateSource interface {
	Rate(ctx context.Context, from, to string) (Quote, error)
}

func priceKey(s tracker.Symbol, currency string) string {
	return fmt.Sprintf("price/%s/%s", s, currency)
}

func rateKey(from, to string) string {
	return fmt.Sprintf("fx/%s/%s", from, to)
}
