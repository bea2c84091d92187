package market

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/etnz/tracker"
)

// Cache holds the last known quotes. A quote is fresh for TTL after it was
// observed.
type Cache struct {
	TTL time.Duration
	Now func() time.Time

	mu     sync.RWMutex
	quotes map[string]Quote
}

// NewCache returns an empty cache.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{TTL: ttl, Now: time.Now, quotes: make(map[string]Quote)}
}

// Get returns the last known quote for key, and whether it is still fresh.
func (c *Cache) Get(key string) (q Quote, fresh, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	q, ok = c.quotes[key]
	if !ok {
		return q, false, false
	}
	return q, c.Now().Sub(q.AsOf) < c.TTL, true
}

// Put records a quote, replacing any previous one with the same key.
func (c *Cache) Put(q Quote) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quotes[q.Key] = q
}

// SetPrice records a price observed now, like a price typed by the user for
// a symbol no source quotes.
func (c *Cache) SetPrice(s tracker.Symbol, price tracker.Money) {
	c.Put(Quote{Key: priceKey(s, price.Currency()), Price: price, AsOf: c.Now()})
}

// Len returns the number of quotes in the cache.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.quotes)
}

// Prices returns the last known price of each symbol in currency, fresh or not.
func (c *Cache) Prices(symbols []tracker.Symbol, currency string) tracker.Prices {
	prices := make(tracker.Prices)
	for _, s := range symbols {
		if q, _, ok := c.Get(priceKey(s, currency)); ok {
			prices[s] = q.Price
		}
	}
	return prices
}

// Rates returns a rate table built from every cached exchange rate.
func (c *Cache) Rates(pivot string) *tracker.RateTable {
	table := tracker.NewRateTable(pivot)
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, q := range c.quotes {
		parts := strings.Split(q.Key, "/")
		if len(parts) != 3 || parts[0] != "fx" {
			continue
		}
		table.Set(parts[1], parts[2], q.Price.Amount())
	}
	return table
}

// Encode writes the cache as a JSON array sorted by key.
func (c *Cache) Encode(w io.Writer) error {
	c.mu.RLock()
	quotes := make([]Quote, 0, len(c.quotes))
	for _, q := range c.quotes {
		quotes = append(quotes, q)
	}
	c.mu.RUnlock()
	sort.Slice(quotes, func(i, j int) bool { return quotes[i].Key < quotes[j].Key })

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(quotes)
}

// Decode adds the quotes read from r to the cache.
func (c *Cache) Decode(r io.Reader) error {
	var quotes []Quote
	if err := json.NewDecoder(r).Decode(&quotes); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid price cache: %w", err)
	}
	for _, q := range quotes {
		c.Put(q)
	}
	return nil
}

// LoadCache reads a cache file. A missing file is an empty cache.
func LoadCache(path string, ttl time.Duration) (*Cache, error) {
	c := NewCache(ttl)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := c.Decode(f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Save writes the cache to path.
func (c *Cache) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := c.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
