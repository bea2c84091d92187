package tracker

import (
	"fmt"
	"slices"
	"sort"

	"github.com/shopspring/decimal"
)

// Unmatched records the part of a SELL that exceeded the quantity held.
// It contributes no cost basis and no proceeds.
type Unmatched struct {
	ID       string
	Date     Date
	Quantity Quantity
}

// GainLoss is the FIFO gain analysis of one symbol. All amounts are in
// Currency, the display currency.
type GainLoss struct {
	Symbol   Symbol
	Currency string
	// Realized is the sum of sale proceeds minus the cost of the lots consumed.
	Realized Money
	// Unrealized is CurrentValue minus CostBasis.
	Unrealized Money
	Total      Money
	// CostBasis is the cost of the lots still held.
	CostBasis    Money
	CurrentValue Money
	// Quantity is the quantity still held in lots.
	Quantity Quantity
	// BuyValue is the sum of all BUY prices.
	BuyValue Money
	// Percent is Total relative to CostBasis while units are held, and
	// relative to BuyValue once the position is closed.
	Percent   Percent
	Unmatched []Unmatched
}

// ComputeGainLoss computes realized and unrealized gains of the transactions
// of a single symbol, matching sales to acquisitions first in, first out.
//
// Transactions are processed by date, transactions on the same date keep
// their order in txs. price is the current unit price of the symbol, a zero
// price values the remaining lots at zero. Every amount is converted into
// display with cv, conversion errors are returned as is.
func ComputeGainLoss(txs []Transaction, price Money, display string, cv Converter) (GainLoss, error) {
	g := GainLoss{
		Currency:   display,
		Realized:   M(0, display),
		Unrealized: M(0, display),
		Total:      M(0, display),
		CostBasis:  M(0, display),
		BuyValue:   M(0, display),
	}

	sorted := slices.Clone(txs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	var queue lots
	for _, tx := range sorted {
		if g.Symbol == "" {
			g.Symbol = tx.Symbol
		} else if tx.Symbol != g.Symbol {
			return GainLoss{}, fmt.Errorf("cannot compute gains of %s and %s together", g.Symbol, tx.Symbol)
		}

		switch tx.Type {
		case Buy, Earn:
			queue = append(queue, lot{Date: tx.Date, Quantity: tx.Quantity, Cost: tx.Price})
			if tx.Type == Buy {
				value, err := convert(cv, tx.Price, display)
				if err != nil {
					return GainLoss{}, fmt.Errorf("could not convert %s buy of %s: %w", tx.Symbol, tx.Date, err)
				}
				g.BuyValue = g.BuyValue.Add(value)
			}

		case Sell:
			portions, rest, missing := queue.take(tx.Quantity)
			queue = rest
			for _, p := range portions {
				cost, err := convert(cv, p.Cost, display)
				if err != nil {
					return GainLoss{}, fmt.Errorf("could not convert %s cost basis: %w", tx.Symbol, err)
				}
				proceeds, err := convert(cv, tx.UnitPrice().Mul(p.Quantity), display)
				if err != nil {
					return GainLoss{}, fmt.Errorf("could not convert %s sale of %s: %w", tx.Symbol, tx.Date, err)
				}
				g.Realized = g.Realized.Add(proceeds.Sub(cost))
			}
			if missing.IsPositive() {
				g.Unmatched = append(g.Unmatched, Unmatched{ID: tx.ID, Date: tx.Date, Quantity: missing})
			}

		default:
			return GainLoss{}, fmt.Errorf("%w: unknown transaction type %q", ErrInvalid, tx.Type)
		}
	}

	for _, l := range queue {
		cost, err := convert(cv, l.Cost, display)
		if err != nil {
			return GainLoss{}, fmt.Errorf("could not convert %s cost basis: %w", g.Symbol, err)
		}
		g.CostBasis = g.CostBasis.Add(cost)
	}
	g.Quantity = queue.Quantity()

	value, err := convert(cv, price.Mul(g.Quantity), display)
	if err != nil {
		return GainLoss{}, fmt.Errorf("could not convert %s current value: %w", g.Symbol, err)
	}
	g.CurrentValue = value
	g.Unrealized = g.CurrentValue.Sub(g.CostBasis)
	g.Total = g.Realized.Add(g.Unrealized)

	base := g.BuyValue
	if g.Quantity.IsPositive() {
		base = g.CostBasis
	}
	g.Percent = Percent(g.Total.Ratio(base).Mul(decimal.NewFromInt(100)).InexactFloat64())
	return g, nil
}
