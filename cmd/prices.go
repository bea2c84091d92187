package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/tracker"
	"github.com/etnz/tracker/renderer"
	"github.com/google/subcommands"
)

type pricesCmd struct {
	set     string
	offline bool
}

func (*pricesCmd) Name() string     { return "prices" }
func (*pricesCmd) Synopsis() string { return "show or set the current prices of the held assets" }
func (*pricesCmd) Usage() string {
	return `trk prices [-offline] [-set <symbol>=<price>]

  Fetches and displays the current price of every asset in the ledger.
  -set records a price by hand, for assets no source quotes. The price is in
  the quote currency.
`
}

func (c *pricesCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.offline, "offline", false, "Only show the cached prices.")
	f.StringVar(&c.set, "set", "", "Record a price, e.g. GOLD=95.2")
}

func (c *pricesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	currency := a.cfg.QuoteCurrency

	if c.set != "" {
		sym, value, ok := strings.Cut(c.set, "=")
		q, err := tracker.ParseQuantity(value)
		if !ok || sym == "" || err != nil || q.IsNegative() {
			fmt.Fprintf(os.Stderr, "Error: invalid price %q, want <symbol>=<price>\n", c.set)
			return subcommands.ExitUsageError
		}
		a.cache.SetPrice(tracker.NewSymbol(sym), tracker.M(q.Decimal(), currency))
		a.saveCache()
		return subcommands.ExitSuccess
	}

	symbols := a.ledger.Symbols()
	var prices tracker.Prices
	if c.offline {
		prices = a.cache.Prices(symbols, currency)
	} else {
		prices, _, err = a.market.Value(ctx, symbols, nil)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Warning:", err)
		}
		a.saveCache()
	}
	printMarkdown(renderer.PricesMarkdown(symbols, prices, a.catalog))
	return subcommands.ExitSuccess
}
