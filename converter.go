package tracker

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/shopspring/decimal"
)

// Converter converts an amount of money into another currency at the
// current rate.
//
// Implementations must return the amount unchanged when it is already in
// the target currency, and an error wrapping ErrMissingRate when no rate is
// known.
type Converter interface {
	Convert(amount Money, to string) (Money, error)
}

// ConverterFunc adapts a function to the Converter interface.
type ConverterFunc func(amount Money, to string) (Money, error)

func (f ConverterFunc) Convert(amount Money, to string) (Money, error) { return f(amount, to) }

// convert applies the identity and zero shortcuts before calling cv.
func convert(cv Converter, amount Money, to string) (Money, error) {
	if amount.cur == to {
		return amount, nil
	}
	if amount.IsZero() {
		return M(0, to), nil
	}
	if cv == nil {
		return Money{}, fmt.Errorf("%w: no converter for %s to %s", ErrMissingRate, amount.cur, to)
	}
	return cv.Convert(amount, to)
}

type pair struct{ from, to string }

// RateTable is an in-memory Converter.
//
// A rate is looked up directly, then as the inverse of the opposite pair,
// and finally through the pivot currency. It is safe for concurrent use.
type RateTable struct {
	pivot string
	mu    sync.RWMutex
	rates map[pair]decimal.Decimal
}

// NewRateTable creates an empty table triangulating through pivot.
func NewRateTable(pivot string) *RateTable {
	return &RateTable{pivot: pivot, rates: make(map[pair]decimal.Decimal)}
}

// Set records that one unit of from is worth rate units of to.
func (t *RateTable) Set(from, to string, rate decimal.Decimal) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rates[pair{from, to}] = rate
}

// Pivot returns the triangulation currency.
func (t *RateTable) Pivot() string { return t.pivot }

// Currencies returns every currency appearing in the table, sorted.
func (t *RateTable) Currencies() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	set := map[string]struct{}{t.pivot: {}}
	for p := range t.rates {
		set[p.from] = struct{}{}
		set[p.to] = struct{}{}
	}
	return slices.Sorted(maps.Keys(set))
}

// Rate returns the value of one unit of from expressed in to.
func (t *RateTable) Rate(from, to string) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	if r, ok := t.direct(from, to); ok {
		return r, nil
	}
	a, aok := t.direct(from, t.pivot)
	b, bok := t.direct(t.pivot, to)
	if aok && bok {
		return a.Mul(b), nil
	}
	return decimal.Zero, fmt.Errorf("%w: %s to %s", ErrMissingRate, from, to)
}

func (t *RateTable) direct(from, to string) (decimal.Decimal, bool) {
	if from == to {
		return decimal.NewFromInt(1), true
	}
	if r, ok := t.rates[pair{from, to}]; ok {
		return r, true
	}
	if r, ok := t.rates[pair{to, from}]; ok && !r.IsZero() {
		return decimal.NewFromInt(1).Div(r), true
	}
	return decimal.Zero, false
}

// Convert implements Converter.
func (t *RateTable) Convert(amount Money, to string) (Money, error) {
	if amount.cur == to {
		return amount, nil
	}
	r, err := t.Rate(amount.cur, to)
	if err != nil {
		return Money{}, err
	}
	return Money{value: amount.value.Mul(r), cur: to}, nil
}

// Prices holds the current price of one unit of each symbol.
type Prices map[Symbol]Money

// Price returns the current unit price of s.
func (p Prices) Price(s Symbol) (Money, bool) {
	m, ok := p[s]
	return m, ok
}
