package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/tracker"
)

// TransactionsMarkdown renders transactions as a table, in the given order.
func TransactionsMarkdown(txs []tracker.Transaction, catalog *tracker.Catalog) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Transactions\n\n")
	if len(txs) == 0 {
		fmt.Fprint(&b, "No transactions.\n")
		return b.String()
	}

	fmt.Fprintln(&b, "| Date | Type | Asset | Quantity | Price | Unit Price | ID |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|---:|:---|")
	for _, tx := range txs {
		price, unit := "", ""
		if !tx.Price.IsZero() {
			price = tx.Price.String()
			unit = tx.UnitPrice().String()
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			tx.Date,
			typeLabel(tx),
			catalog.Label(tx.Symbol),
			tx.Quantity.StringFixed(catalog.Decimals(tx.Symbol)),
			price,
			unit,
			shortID(tx.ID),
		)
	}
	return b.String()
}

// typeLabel marks the halves of a conversion.
func typeLabel(tx tracker.Transaction) string {
	if tx.Link == "" {
		return string(tx.Type)
	}
	if tx.Type == tracker.Sell {
		return "CONVERT from"
	}
	return "CONVERT to"
}

// shortID keeps the first block of a uuid, enough to address it in commands.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
