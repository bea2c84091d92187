package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/tracker"
)

// PricesMarkdown renders the current price of each symbol, in the given order.
func PricesMarkdown(symbols []tracker.Symbol, prices tracker.Prices, catalog *tracker.Catalog) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Prices\n\n")
	fmt.Fprintln(&b, "| Symbol | Asset | Price |")
	fmt.Fprintln(&b, "|:---|:---|---:|")
	for _, s := range symbols {
		price := "n/a"
		if p, ok := prices.Price(s); ok {
			price = p.String()
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", s, catalog.Label(s), price)
	}
	return b.String()
}
