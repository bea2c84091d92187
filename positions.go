package tracker

import (
	"fmt"
	"slices"
	"strings"
)

// Position is the aggregated holding of one symbol. It is derived from the
// transactions and never stored.
type Position struct {
	Symbol Symbol
	// Quantity is the net quantity: BUY and EARN add, SELL subtracts.
	Quantity Quantity
	// Earned is the quantity acquired through EARN transactions.
	Earned Quantity
	// BuyValue is the sum of all BUY prices in Currency. SELL never reduces it.
	BuyValue Money
	// Currency is the reference currency of the position, the currency of
	// its first BUY.
	Currency string
	// Price is the current unit price, zero when unknown.
	Price    Money
	LastDate Date
}

// MarketValue returns the current value of the position in the price currency.
func (p Position) MarketValue() Money { return p.Price.Mul(p.Quantity) }

// AverageBuyPrice returns BuyValue per unit currently held, zero for an
// empty position.
func (p Position) AverageBuyPrice() Money { return p.BuyValue.Div(p.Quantity) }

// AggregatePositions groups transactions by symbol into positions, ordered
// by symbol.
//
// BUY prices are converted to the currency of the first BUY of each symbol.
// Current prices come from prices, a symbol without price gets a zero price.
func AggregatePositions(txs []Transaction, prices Prices, cv Converter) ([]Position, error) {
	bySymbol := make(map[Symbol]*Position)
	for _, tx := range txs {
		p, ok := bySymbol[tx.Symbol]
		if !ok {
			p = &Position{Symbol: tx.Symbol}
			bySymbol[tx.Symbol] = p
		}

		switch tx.Type {
		case Buy:
			p.Quantity = p.Quantity.Add(tx.Quantity)
			if p.Currency == "" {
				p.Currency = tx.Price.Currency()
			}
			value, err := convert(cv, tx.Price, p.Currency)
			if err != nil {
				return nil, fmt.Errorf("could not convert %s buy of %s: %w", tx.Symbol, tx.Date, err)
			}
			p.BuyValue = p.BuyValue.Add(value)
		case Earn:
			p.Quantity = p.Quantity.Add(tx.Quantity)
			p.Earned = p.Earned.Add(tx.Quantity)
		case Sell:
			p.Quantity = p.Quantity.Sub(tx.Quantity)
		default:
			return nil, fmt.Errorf("%w: unknown transaction type %q", ErrInvalid, tx.Type)
		}

		if tx.Date.After(p.LastDate) {
			p.LastDate = tx.Date
		}
	}

	positions := make([]Position, 0, len(bySymbol))
	for s, p := range bySymbol {
		if price, ok := prices.Price(s); ok {
			p.Price = price
		}
		if p.Currency == "" {
			p.Currency = p.Price.Currency()
		}
		if p.BuyValue.Currency() == "" {
			p.BuyValue = M(0, p.Currency)
		}
		positions = append(positions, *p)
	}
	slices.SortFunc(positions, func(a, b Position) int { return strings.Compare(string(a.Symbol), string(b.Symbol)) })
	return positions, nil
}
