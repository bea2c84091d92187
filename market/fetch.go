package market

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/etnz/tracker"
	"golang.org/x/sync/errgroup"
)

// concurrency is the maximum number of requests in flight.
const concurrency = 4

// FetchPrices gets the current price of each symbol in currency.
//
// Symbols whose price cannot be fetched are missing from the result, and
// their errors are joined in the returned error. The prices are usable even
// if the error is not nil.
func FetchPrices(ctx context.Context, src Source, catalog *tracker.Catalog, symbols []tracker.Symbol, currency string) (tracker.Prices, error) {
	var (
		mu     sync.Mutex
		prices = make(tracker.Prices)
		errs   []error
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, s := range symbols {
		info, _ := catalog.Lookup(s)
		g.Go(func() error {
			q, err := src.Quote(ctx, info, currency)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				slog.Warn("no price", "symbol", s, "error", err)
				errs = append(errs, err)
				return nil
			}
			prices[s] = q.Price
			return nil
		})
	}
	_ = g.Wait()
	return prices, errors.Join(errs...)
}

// FetchRates gets the rate of each currency to pivot.
//
// Like FetchPrices, the returned table holds every rate that could be
// fetched, even when the error is not nil.
func FetchRates(ctx context.Context, src RateSource, pivot string, currencies []string) (*tracker.RateTable, error) {
	var (
		mu    sync.Mutex
		table = tracker.NewRateTable(pivot)
		errs  []error
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, cur := range currencies {
		if cur == pivot || cur == "" {
			continue
		}
		g.Go(func() error {
			q, err := src.Rate(ctx, cur, pivot)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				slog.Warn("no exchange rate", "from", cur, "to", pivot, "error", err)
				errs = append(errs, err)
				return nil
			}
			table.Set(cur, pivot, q.Price.Amount())
			return nil
		})
	}
	_ = g.Wait()
	return table, errors.Join(errs...)
}
