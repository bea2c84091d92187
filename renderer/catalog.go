package renderer

import (
	"fmt"
	"slices"
	"strings"

	"github.com/etnz/tracker"
)

// CatalogMarkdown renders the known symbols, marking the ones in held.
func CatalogMarkdown(c *tracker.Catalog, held []tracker.Symbol) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Symbols\n\n")
	fmt.Fprintln(&b, "| Symbol | Held | Name | Kind | Unit | Decimals | Provider ID |")
	fmt.Fprintln(&b, "|:---|:---:|:---|:---|:---|---:|:---|")

	symbols := c.Symbols()
	// held symbols missing from the catalog are listed too
	for _, s := range held {
		if !slices.Contains(symbols, s) {
			symbols = append(symbols, s)
		}
	}
	for _, s := range symbols {
		info, _ := c.Lookup(s)
		mark := " "
		if slices.Contains(held, s) {
			mark = "X"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %d | %s |\n",
			info.Symbol,
			mark,
			info.Name,
			info.Kind,
			info.Unit,
			info.Decimals,
			info.Provider,
		)
	}
	return b.String()
}
