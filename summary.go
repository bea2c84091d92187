package tracker

import "fmt"

// Summary holds the portfolio totals in Currency.
type Summary struct {
	Currency string
	// BuyValue is the sum of all BUY prices.
	BuyValue     Money
	CurrentValue Money
	// Profit is the sum of realized and unrealized gains.
	Profit Money
	// Earnings is the current value of everything acquired through EARN.
	Earnings Money
}

// Percent returns Profit relative to BuyValue.
func (s Summary) Percent() Percent {
	return Percent(s.Profit.Ratio(s.BuyValue).InexactFloat64() * 100)
}

// SummarizePortfolio totals positions and their gains in display.
//
// Every position must have a matching GainLoss.
func SummarizePortfolio(positions []Position, gains []GainLoss, display string, cv Converter) (Summary, error) {
	s := Summary{
		Currency:     display,
		BuyValue:     M(0, display),
		CurrentValue: M(0, display),
		Profit:       M(0, display),
		Earnings:     M(0, display),
	}

	bySymbol := make(map[Symbol]GainLoss, len(gains))
	for _, g := range gains {
		if g.Currency != display {
			return Summary{}, fmt.Errorf("gains of %s are in %s, want %s", g.Symbol, g.Currency, display)
		}
		bySymbol[g.Symbol] = g
	}

	for _, p := range positions {
		g, ok := bySymbol[p.Symbol]
		if !ok {
			return Summary{}, fmt.Errorf("missing gains of %s", p.Symbol)
		}

		buy, err := convert(cv, p.BuyValue, display)
		if err != nil {
			return Summary{}, fmt.Errorf("could not convert %s buy value: %w", p.Symbol, err)
		}
		earned, err := convert(cv, p.Price.Mul(p.Earned), display)
		if err != nil {
			return Summary{}, fmt.Errorf("could not convert %s earnings: %w", p.Symbol, err)
		}

		s.BuyValue = s.BuyValue.Add(buy)
		s.CurrentValue = s.CurrentValue.Add(g.CurrentValue)
		s.Profit = s.Profit.Add(g.Total)
		s.Earnings = s.Earnings.Add(earned)
	}
	return s, nil
}
