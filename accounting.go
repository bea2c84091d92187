package tracker

import (
	"fmt"
	"log/slog"
	"slices"
)

// Book brings together everything needed to value the portfolio: the
// ledger, the current prices and a converter for the display currency.
type Book struct {
	Ledger    *Ledger
	Prices    Prices
	Converter Converter
	// Currency is the display currency of reports.
	Currency string
}

// NewBook creates a Book reporting in currency.
func NewBook(ledger *Ledger, prices Prices, cv Converter, currency string) (*Book, error) {
	if !ValidCurrency(currency) {
		return nil, fmt.Errorf("invalid display currency %q", currency)
	}
	if prices == nil {
		prices = Prices{}
	}
	return &Book{Ledger: ledger, Prices: prices, Converter: cv, Currency: currency}, nil
}

// Anomaly is an inconsistency found while computing a report. It does not
// prevent the report, but the numbers of the symbol should be double checked.
type Anomaly struct {
	Symbol  Symbol
	Message string
}

// Report is the state of the portfolio at the end of a day.
type Report struct {
	On        Date
	Currency  string
	Positions []Position
	Gains     []GainLoss
	Summary   Summary
	Anomalies []Anomaly
}

// Gain returns the gains of s.
func (r *Report) Gain(s Symbol) (GainLoss, bool) {
	i := slices.IndexFunc(r.Gains, func(g GainLoss) bool { return g.Symbol == s })
	if i < 0 {
		return GainLoss{}, false
	}
	return r.Gains[i], true
}

// Report computes positions, gains and summary using only the transactions
// dated on or before on. Anomalies are logged at warning level.
func (b *Book) Report(on Date) (*Report, error) {
	txs := slices.Collect(b.Ledger.Transactions(OnOrBefore(on)))

	positions, err := AggregatePositions(txs, b.Prices, b.Converter)
	if err != nil {
		return nil, err
	}

	r := &Report{On: on, Currency: b.Currency, Positions: positions}
	for _, p := range positions {
		var symbolTxs []Transaction
		for _, tx := range txs {
			if tx.Symbol == p.Symbol {
				symbolTxs = append(symbolTxs, tx)
			}
		}
		g, err := ComputeGainLoss(symbolTxs, p.Price, b.Currency, b.Converter)
		if err != nil {
			return nil, err
		}
		r.Gains = append(r.Gains, g)

		for _, u := range g.Unmatched {
			r.Anomalies = append(r.Anomalies, Anomaly{
				Symbol:  p.Symbol,
				Message: fmt.Sprintf("sell %s on %s exceeds holdings by %s", u.ID, u.Date, u.Quantity),
			})
		}
		if !g.Quantity.Equal(p.Quantity) {
			r.Anomalies = append(r.Anomalies, Anomaly{
				Symbol:  p.Symbol,
				Message: fmt.Sprintf("net quantity %s differs from quantity in lots %s", p.Quantity, g.Quantity),
			})
		}
	}

	r.Summary, err = SummarizePortfolio(r.Positions, r.Gains, b.Currency, b.Converter)
	if err != nil {
		return nil, err
	}

	for _, a := range r.Anomalies {
		slog.Warn("inconsistent history", "symbol", a.Symbol, "on", on, "detail", a.Message)
	}
	return r, nil
}
