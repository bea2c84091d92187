package server

import (
	"github.com/etnz/tracker"
)

// transactionResponse is a transaction in the browser app shape.
type transactionResponse struct {
	tracker.TransactionInput
}

func toTransactionResponse(tx tracker.Transaction) transactionResponse {
	return transactionResponse{TransactionInput: tx.Input()}
}

func toTransactionResponses(txs []tracker.Transaction) []transactionResponse {
	resp := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		resp = append(resp, toTransactionResponse(tx))
	}
	return resp
}

type positionResponse struct {
	Symbol          tracker.Symbol   `json:"symbol"`
	Name            string           `json:"name"`
	Unit            string           `json:"unit,omitempty"`
	Quantity        tracker.Quantity `json:"quantity"`
	Earned          tracker.Quantity `json:"earned"`
	BuyValue        tracker.Money    `json:"buyValue"`
	AverageBuyPrice tracker.Money    `json:"averageBuyPrice"`
	Price           tracker.Money    `json:"price"`
	Value           tracker.Money    `json:"value"`
	LastDate        tracker.Date     `json:"lastDate"`
}

type gainResponse struct {
	Symbol       tracker.Symbol   `json:"symbol"`
	Quantity     tracker.Quantity `json:"quantity"`
	CostBasis    tracker.Money    `json:"costBasis"`
	CurrentValue tracker.Money    `json:"currentValue"`
	BuyValue     tracker.Money    `json:"buyValue"`
	Realized     tracker.Money    `json:"realized"`
	Unrealized   tracker.Money    `json:"unrealized"`
	Total        tracker.Money    `json:"total"`
	Percent      tracker.Percent  `json:"percent"`
	Unmatched    []unmatched      `json:"unmatched,omitempty"`
}

type unmatched struct {
	ID       string           `json:"id"`
	Date     tracker.Date     `json:"date"`
	Quantity tracker.Quantity `json:"quantity"`
}

type anomaly struct {
	Symbol  tracker.Symbol `json:"symbol"`
	Message string         `json:"message"`
}

type summaryResponse struct {
	On           tracker.Date    `json:"on"`
	Currency     string          `json:"currency"`
	BuyValue     tracker.Money   `json:"buyValue"`
	CurrentValue tracker.Money   `json:"currentValue"`
	Profit       tracker.Money   `json:"profit"`
	Percent      tracker.Percent `json:"percent"`
	Earnings     tracker.Money   `json:"earnings"`
	Anomalies    []anomaly       `json:"anomalies,omitempty"`
}

func toPositionResponses(r *tracker.Report, catalog *tracker.Catalog) []positionResponse {
	resp := make([]positionResponse, 0, len(r.Positions))
	for _, p := range r.Positions {
		info, _ := catalog.Lookup(p.Symbol)
		g, _ := r.Gain(p.Symbol)
		resp = append(resp, positionResponse{
			Symbol:          p.Symbol,
			Name:            info.Name,
			Unit:            info.Unit,
			Quantity:        p.Quantity,
			Earned:          p.Earned,
			BuyValue:        p.BuyValue,
			AverageBuyPrice: p.AverageBuyPrice(),
			Price:           p.Price,
			Value:           g.CurrentValue,
			LastDate:        p.LastDate,
		})
	}
	return resp
}

func toGainResponses(r *tracker.Report) []gainResponse {
	resp := make([]gainResponse, 0, len(r.Gains))
	for _, g := range r.Gains {
		gr := gainResponse{
			Symbol:       g.Symbol,
			Quantity:     g.Quantity,
			CostBasis:    g.CostBasis,
			CurrentValue: g.CurrentValue,
			BuyValue:     g.BuyValue,
			Realized:     g.Realized,
			Unrealized:   g.Unrealized,
			Total:        g.Total,
			Percent:      g.Percent,
		}
		for _, u := range g.Unmatched {
			gr.Unmatched = append(gr.Unmatched, unmatched{ID: u.ID, Date: u.Date, Quantity: u.Quantity})
		}
		resp = append(resp, gr)
	}
	return resp
}

func toSummaryResponse(r *tracker.Report) summaryResponse {
	resp := summaryResponse{
		On:           r.On,
		Currency:     r.Currency,
		BuyValue:     r.Summary.BuyValue,
		CurrentValue: r.Summary.CurrentValue,
		Profit:       r.Summary.Profit,
		Percent:      r.Summary.Percent(),
		Earnings:     r.Summary.Earnings,
	}
	for _, a := range r.Anomalies {
		resp.Anomalies = append(resp.Anomalies, anomaly{Symbol: a.Symbol, Message: a.Message})
	}
	return resp
}
