package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tracker"
	"github.com/etnz/tracker/renderer"
	"github.com/google/subcommands"
)

type symbolsCmd struct {
	add      string
	name     string
	kind     string
	unit     string
	decimals int
	provider string
}

func (*symbolsCmd) Name() string     { return "symbols" }
func (*symbolsCmd) Synopsis() string { return "list or add the known asset symbols" }
func (*symbolsCmd) Usage() string {
	return `trk symbols [-add <symbol> -name <name> [-kind crypto|commodity] [-unit <unit>] [-decimals <n>] [-provider <id>]]

  Lists the known symbols, marking the ones in the ledger. -add records a new
  symbol, or replaces one, in the catalog file.
`
}

func (c *symbolsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.add, "add", "", "Symbol to add to the catalog")
	f.StringVar(&c.name, "name", "", "Display name")
	f.StringVar(&c.kind, "kind", string(tracker.Crypto), "Asset kind: crypto or commodity")
	f.StringVar(&c.unit, "unit", "", "Unit of the quantities, e.g. g or oz")
	f.IntVar(&c.decimals, "decimals", 8, "Decimals kept on quantities")
	f.StringVar(&c.provider, "provider", "", "ID of the asset at the price source")
}

func (c *symbolsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	if c.add == "" {
		printMarkdown(renderer.CatalogMarkdown(a.catalog, a.ledger.Symbols()))
		return subcommands.ExitSuccess
	}

	kind := tracker.Kind(c.kind)
	if c.name == "" || (kind != tracker.Crypto && kind != tracker.Commodity) || c.decimals < 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	a.catalog.Add(tracker.SymbolInfo{
		Symbol:   tracker.NewSymbol(c.add),
		Name:     c.name,
		Kind:     kind,
		Unit:     c.unit,
		Decimals: int32(c.decimals),
		Provider: c.provider,
	})
	if err := a.saveCatalog(); err != nil {
		fmt.Fprintln(os.Stderr, "Error saving catalog:", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Added %s to %s\n", tracker.NewSymbol(c.add), a.cfg.CatalogFile)
	return subcommands.ExitSuccess
}
