package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type fmtCmd struct {
	check bool
}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the ledger file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `trk fmt [-check]

  Validates the ledger file, sorts the transactions by date and writes them
  back in a canonical JSONL format. A hand edited ledger selling more than
  it holds is reported but still formatted.
`
}

func (c *fmtCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.check, "check", false, "Only validate, do not rewrite the file.")
}

func (c *fmtCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	status := subcommands.ExitSuccess
	if err := a.ledger.Check(); err != nil {
		fmt.Fprintln(os.Stderr, "Warning:", err)
		status = subcommands.ExitFailure
	}
	if c.check {
		return status
	}
	if err := a.saveLedger(); err != nil {
		fmt.Fprintln(os.Stderr, "Error saving ledger:", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Formatted %d transactions in %s\n", a.ledger.Len(), a.cfg.LedgerFile)
	return status
}
