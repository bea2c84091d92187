package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"

	"github.com/etnz/tracker"
	"github.com/etnz/tracker/renderer"
	"github.com/google/subcommands"
)

type txCmd struct {
	symbol string
	start  string
	end    string
	head   int
	tail   int
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list the transactions of the ledger" }
func (*txCmd) Usage() string {
	return `trk tx [-s <symbol>] [-from <date>] [-to <date>] [-head <n> | -tail <n>]

  Lists transactions in date order, with options for filtering and limiting the output.
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Only list transactions of this symbol.")
	f.StringVar(&c.start, "from", "", "The first day of the range.")
	f.StringVar(&c.end, "to", "", "The last day of the range, today by default.")
	f.IntVar(&c.head, "head", 0, "Show only the first N transactions.")
	f.IntVar(&c.tail, "tail", 0, "Show only the last N transactions.")
}

func (c *txCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.head > 0 && c.tail > 0 {
		fmt.Fprintln(os.Stderr, "Error: -head and -tail flags cannot be used together.")
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	var filters []func(tracker.Transaction) bool
	if c.symbol != "" {
		filters = append(filters, tracker.BySymbol(tracker.NewSymbol(c.symbol)))
	}
	if c.start != "" || c.end != "" {
		from, to := tracker.Date{}, tracker.Today()
		if c.start != "" {
			if from, err = tracker.ParseDate(c.start); err != nil {
				fmt.Fprintln(os.Stderr, "Error parsing start date:", err)
				return subcommands.ExitUsageError
			}
		}
		if c.end != "" {
			if to, err = tracker.ParseDate(c.end); err != nil {
				fmt.Fprintln(os.Stderr, "Error parsing end date:", err)
				return subcommands.ExitUsageError
			}
		}
		filters = append(filters, tracker.Between(from, to))
	}

	txs := slices.Collect(a.ledger.Transactions(filters...))
	if c.head > 0 && len(txs) > c.head {
		txs = txs[:c.head]
	}
	if c.tail > 0 && len(txs) > c.tail {
		txs = txs[len(txs)-c.tail:]
	}
	printMarkdown(renderer.TransactionsMarkdown(txs, a.catalog))
	return subcommands.ExitSuccess
}
