package market

import (
	"context"
	"log/slog"

	"github.com/etnz/tracker"
)

// CachedSource serves fresh quotes from a Cache and refreshes the stale ones.
// When a refresh fails the last known quote is served instead.
type CachedSource struct {
	Cache  *Cache
	Prices Source
	Rates  RateSource
}

// Quote implements Source.
func (s *CachedSource) Quote(ctx context.Context, info tracker.SymbolInfo, currency string) (Quote, error) {
	return s.lookup(priceKey(info.Symbol, currency), func() (Quote, error) {
		return s.Prices.Quote(ctx, info, currency)
	})
}

// Rate implements RateSource.
func (s *CachedSource) Rate(ctx context.Context, from, to string) (Quote, error) {
	return s.lookup(rateKey(from, to), func() (Quote, error) {
		return s.Rates.Rate(ctx, from, to)
	})
}

func (s *CachedSource) lookup(key string, fetch func() (Quote, error)) (Quote, error) {
	cached, fresh, ok := s.Cache.Get(key)
	if fresh {
		return cached, nil
	}
	q, err := fetch()
	if err != nil {
		if ok {
			slog.Warn("using last known quote", "key", key, "asOf", cached.AsOf, "error", err)
			return cached, nil
		}
		return Quote{}, err
	}
	s.Cache.Put(q)
	return q, nil
}
