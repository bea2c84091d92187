package renderer

import (
	"github.com/etnz/tracker"
)

// Holding is the holdings report. Numbers keep their exact types, so they
// come with their own renderers (String, SignedString).
type Holding struct {
	Date      tracker.Date      `json:"date"`
	Currency  string            `json:"currency"`
	Positions []HoldingPosition `json:"positions"`
	// Total is the value of all positions in Currency.
	Total     tracker.Money     `json:"total"`
	Anomalies []tracker.Anomaly `json:"anomalies,omitempty"`
}

// HoldingPosition is a single open position.
type HoldingPosition struct {
	Symbol tracker.Symbol `json:"symbol"`
	Label  string         `json:"label"`
	// Quantity is formatted with the symbol's decimals.
	Quantity string        `json:"quantity"`
	Price    tracker.Money `json:"price"`
	// Value is the current value in the report currency.
	Value           tracker.Money `json:"value"`
	AverageBuyPrice tracker.Money `json:"averageBuyPrice"`
	LastDate        tracker.Date  `json:"lastDate"`
}

// NewHolding creates the holdings report from r, skipping closed positions.
func NewHolding(r *tracker.Report, catalog *tracker.Catalog) *Holding {
	h := &Holding{
		Date:      r.On,
		Currency:  r.Currency,
		Positions: make([]HoldingPosition, 0, len(r.Positions)),
		Total:     r.Summary.CurrentValue,
		Anomalies: r.Anomalies,
	}
	for _, p := range r.Positions {
		if p.Quantity.IsZero() {
			continue
		}
		g, _ := r.Gain(p.Symbol)
		h.Positions = append(h.Positions, HoldingPosition{
			Symbol:          p.Symbol,
			Label:           catalog.Label(p.Symbol),
			Quantity:        p.Quantity.StringFixed(catalog.Decimals(p.Symbol)),
			Price:           p.Price,
			Value:           g.CurrentValue,
			AverageBuyPrice: p.AverageBuyPrice(),
			LastDate:        p.LastDate,
		})
	}
	return h
}

// Gains is the gains report, one row per symbol.
type Gains struct {
	Date       tracker.Date      `json:"date"`
	Currency   string            `json:"currency"`
	Rows       []GainRow         `json:"rows"`
	Realized   tracker.Money     `json:"realized"`
	Unrealized tracker.Money     `json:"unrealized"`
	Total      tracker.Money     `json:"total"`
	Anomalies  []tracker.Anomaly `json:"anomalies,omitempty"`
}

// GainRow holds the FIFO gains of one symbol.
type GainRow struct {
	Symbol       tracker.Symbol  `json:"symbol"`
	Label        string          `json:"label"`
	Quantity     string          `json:"quantity"`
	CostBasis    tracker.Money   `json:"costBasis"`
	CurrentValue tracker.Money   `json:"currentValue"`
	Realized     tracker.Money   `json:"realized"`
	Unrealized   tracker.Money   `json:"unrealized"`
	Total        tracker.Money   `json:"total"`
	Percent      tracker.Percent `json:"percent"`
}

// NewGains creates the gains report from r. Symbols with neither gains nor
// holdings are skipped.
func NewGains(r *tracker.Report, catalog *tracker.Catalog) *Gains {
	g := &Gains{
		Date:       r.On,
		Currency:   r.Currency,
		Rows:       make([]GainRow, 0, len(r.Gains)),
		Realized:   tracker.M(0, r.Currency),
		Unrealized: tracker.M(0, r.Currency),
		Total:      tracker.M(0, r.Currency),
		Anomalies:  r.Anomalies,
	}
	for _, gl := range r.Gains {
		g.Realized = g.Realized.Add(gl.Realized)
		g.Unrealized = g.Unrealized.Add(gl.Unrealized)
		g.Total = g.Total.Add(gl.Total)
		if gl.Total.IsZero() && gl.Quantity.IsZero() {
			continue
		}
		g.Rows = append(g.Rows, GainRow{
			Symbol:       gl.Symbol,
			Label:        catalog.Label(gl.Symbol),
			Quantity:     gl.Quantity.StringFixed(catalog.Decimals(gl.Symbol)),
			CostBasis:    gl.CostBasis,
			CurrentValue: gl.CurrentValue,
			Realized:     gl.Realized,
			Unrealized:   gl.Unrealized,
			Total:        gl.Total,
			Percent:      gl.Percent,
		})
	}
	return g
}

// Summary is the portfolio totals report.
type Summary struct {
	tracker.Summary
	Date tracker.Date `json:"date"`
	// Assets is the number of open positions.
	Assets int `json:"assets"`
}

// NewSummary creates the summary report from r.
func NewSummary(r *tracker.Report) *Summary {
	s := &Summary{Summary: r.Summary, Date: r.On}
	for _, p := range r.Positions {
		if !p.Quantity.IsZero() {
			s.Assets++
		}
	}
	return s
}
