package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// --- Edit Command ---

type editCmd struct {
	id       string
	date     string
	symbol   string
	quantity float64
	price    float64
	currency string
	memo     string
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "change a recorded transaction" }
func (*editCmd) Usage() string {
	return `trk edit -id <id> [-d <date>] [-s <symbol>] [-q <quantity>] [-p <price>] [-c <currency>] [-m <memo>]

  Changes the given fields of a transaction. Any unique prefix of the ID is
  accepted.
`
}

func (c *editCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Transaction ID or a unique prefix of it")
	f.StringVar(&c.date, "d", "", "New date")
	f.StringVar(&c.symbol, "s", "", "New symbol")
	f.Float64Var(&c.quantity, "q", 0, "New quantity")
	f.Float64Var(&c.price, "p", -1, "New total price")
	f.StringVar(&c.currency, "c", "", "New currency")
	f.StringVar(&c.memo, "m", "", "New memo")
}

func (c *editCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	old, err := a.ledger.Find(c.id)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	in := old.Input()
	if c.date != "" {
		in.Date = c.date
	}
	if c.symbol != "" {
		in.Symbol = c.symbol
	}
	if c.quantity > 0 {
		in.Quantity = c.quantity
	}
	if c.price >= 0 {
		in.Price = c.price
	}
	if c.currency != "" {
		in.PriceCurrency = c.currency
	}
	if c.memo != "" {
		in.Memo = c.memo
	}
	tx, err := in.Transaction(a.catalog)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	if err := a.ledger.Replace(tx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	if err := a.saveLedger(); err != nil {
		fmt.Fprintln(os.Stderr, "Error saving ledger:", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Updated %s\n", tx.ID)
	return subcommands.ExitSuccess
}

// --- Remove Command ---

type rmCmd struct {
	id string
}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "delete a transaction" }
func (*rmCmd) Usage() string {
	return `trk rm -id <id>

  Deletes a transaction, and the other half of a conversion.
`
}

func (c *rmCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Transaction ID or a unique prefix of it")
}

func (c *rmCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	tx, err := a.ledger.Find(c.id)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	removed, err := a.ledger.Delete(tx.ID)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	if err := a.saveLedger(); err != nil {
		fmt.Fprintln(os.Stderr, "Error saving ledger:", err)
		return subcommands.ExitFailure
	}
	for _, tx := range removed {
		fmt.Fprintf(stdout, "Deleted %s\n", tx.ID)
	}
	return subcommands.ExitSuccess
}
