package agent

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/etnz/tracker"
	"github.com/etnz/tracker/docs"
	"github.com/etnz/tracker/renderer"
	"google.golang.org/genai"
)

// Portfolio is what the Accountant can read.
type Portfolio interface {
	Ledger() *tracker.Ledger
	Catalog() *tracker.Catalog
	// Report values the ledger on a day with current market data.
	Report(ctx context.Context, on tracker.Date) (*tracker.Report, error)
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

var dateParameter = &genai.Schema{
	Type: genai.TypeString,
	Description: `The day of the report, today by default. Otherwise a YYYY-MM-DD date:

	` + must(docs.GetTopic("dates")),
}

func accountantFunctions(p Portfolio) []Function {
	return []Function{
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "portfolio_report",
				Description: "Reports the holdings, the FIFO gains and the portfolio totals at the end of a day.",
				Parameters: &genai.Schema{
					Type:       genai.TypeObject,
					Properties: map[string]*genai.Schema{"date": dateParameter},
				},
				Response: &genai.Schema{Type: genai.TypeString, Description: "The markdown report."},
			},
			Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
				const name = "portfolio_report"
				on, err := parseDate(args)
				if err != nil {
					return failure(id, name, err)
				}
				r, err := p.Report(ctx, on)
				if err != nil {
					return failure(id, name, err)
				}
				var b strings.Builder
				b.WriteString(renderer.RenderSummary(renderer.NewSummary(r)))
				b.WriteString("\n")
				b.WriteString(renderer.RenderHolding(renderer.NewHolding(r, p.Catalog())))
				b.WriteString("\n")
				b.WriteString(renderer.RenderGains(renderer.NewGains(r, p.Catalog())))
				return success(id, name, b.String())
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "list_transactions",
				Description: "Lists the transactions of the ledger in date order, optionally for a single symbol.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"symbol": {Type: genai.TypeString, Description: "Only list the transactions of this symbol, e.g. BTC."},
					},
				},
				Response: &genai.Schema{Type: genai.TypeString, Description: "A markdown table of transactions."},
			},
			Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
				const name = "list_transactions"
				var filters []func(tracker.Transaction) bool
				if v, ok := args["symbol"]; ok {
					s, ok := v.(string)
					if !ok {
						return failure(id, name, fmt.Errorf("argument 'symbol' must be a string, got %T", v))
					}
					if s != "" {
						filters = append(filters, tracker.BySymbol(tracker.NewSymbol(s)))
					}
				}
				txs := slices.Collect(p.Ledger().Transactions(filters...))
				return success(id, name, renderer.TransactionsMarkdown(txs, p.Catalog()))
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "list_symbols",
				Description: "Lists the known symbols with their names, and whether the ledger holds some.",
				Response:    &genai.Schema{Type: genai.TypeString, Description: "A markdown list of symbols."},
			},
			Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
				return success(id, "list_symbols", renderer.CatalogMarkdown(p.Catalog(), p.Ledger().Symbols()))
			},
		},
	}
}

func parseDate(args map[string]any) (tracker.Date, error) {
	v, ok := args["date"]
	if !ok {
		return tracker.Today(), nil
	}
	s, ok := v.(string)
	if !ok {
		return tracker.Date{}, fmt.Errorf("argument 'date' must be a string, got %T", v)
	}
	if s == "" {
		return tracker.Today(), nil
	}
	on, err := tracker.ParseDate(s)
	if err != nil {
		return tracker.Date{}, fmt.Errorf("argument 'date' must be a valid date, got %q: %w", s, err)
	}
	return on, nil
}
