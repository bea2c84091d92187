package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/tracker"
	"github.com/google/subcommands"
)

// --- Import Command ---

type importCmd struct{}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "add the transactions of an exported JSON file" }
func (*importCmd) Usage() string {
	return `trk import <file>

  Adds the transactions of a JSON array, as written by 'trk export' or the
  browser app, to the ledger. Transactions already in the ledger are skipped.
  Reads stdin when the file is "-".
`
}
func (*importCmd) SetFlags(_ *flag.FlagSet) {}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	var r io.Reader = os.Stdin
	if name := f.Arg(0); name != "-" {
		file, err := os.Open(name)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		r = file
	}
	txs, err := tracker.ImportTransactions(r, a.catalog)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	var fresh []tracker.Transaction
	for _, tx := range txs {
		if tx.ID != "" {
			if _, err := a.ledger.Get(tx.ID); err == nil {
				continue
			}
		}
		fresh = append(fresh, tx)
	}
	if _, err := a.ledger.Append(fresh...); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	if err := a.saveLedger(); err != nil {
		fmt.Fprintln(os.Stderr, "Error saving ledger:", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Imported %d transactions, %d already known\n", len(fresh), len(txs)-len(fresh))
	return subcommands.ExitSuccess
}

// --- Export Command ---

type exportCmd struct {
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write the ledger as a JSON array" }
func (*exportCmd) Usage() string {
	return `trk export [-o <file>]

  Writes every transaction as a JSON array, in creation order, most recent first.
`
}
func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output file. Defaults to stdout.")
}

func (c *exportCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	w := stdout
	if c.output != "" {
		file, err := os.Create(c.output)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		w = file
	}
	if err := tracker.ExportTransactions(w, a.ledger); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
