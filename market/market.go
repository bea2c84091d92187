package market

import (
	"context"
	"errors"
	"slices"

	"github.com/etnz/tracker"
)

// Market values symbols: prices are quoted in Currency and rates are
// triangulated through it.
type Market struct {
	Prices   Source
	Rates    RateSource
	Catalog  *tracker.Catalog
	Currency string
}

// Value fetches the prices of symbols and the rates of currencies.
//
// Whatever could be fetched is returned even when err is not nil, missing
// prices value their symbol at zero and missing rates fail conversions.
func (m *Market) Value(ctx context.Context, symbols []tracker.Symbol, currencies []string) (tracker.Prices, *tracker.RateTable, error) {
	prices, perr := FetchPrices(ctx, m.Prices, m.Catalog, symbols, m.Currency)

	currencies = slices.Clone(currencies)
	slices.Sort(currencies)
	currencies = slices.Compact(currencies)
	rates, rerr := FetchRates(ctx, m.Rates, m.Currency, currencies)
	return prices, rates, errors.Join(perr, rerr)
}
