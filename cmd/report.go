package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/tracker"
	"github.com/etnz/tracker/renderer"
	"github.com/google/subcommands"
)

// reportFlags are the flags shared by the report commands.
type reportFlags struct {
	date     string
	currency string
	offline  bool
	json     bool
}

func (c *reportFlags) setFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", tracker.Today().String(), "Day of the report. See 'trk topic dates' for the supported formats.")
	f.StringVar(&c.currency, "c", "", "Display currency. Defaults to the configured one.")
	f.BoolVar(&c.offline, "offline", false, "Only use the cached prices and exchange rates.")
	f.BoolVar(&c.json, "json", false, "Print the report as JSON.")
}

// run computes the report and prints it with render, or as JSON.
func (c *reportFlags) run(ctx context.Context, render func(*tracker.Report, *tracker.Catalog) any, markdown func(any) string) subcommands.ExitStatus {
	on, err := tracker.ParseDate(c.date)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error parsing date:", err)
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	currency := a.cfg.DisplayCurrency
	if c.currency != "" {
		currency = strings.ToUpper(c.currency)
	}
	r, err := a.report(ctx, on, currency, c.offline)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error computing report:", err)
		return subcommands.ExitFailure
	}

	view := render(r, a.catalog)
	if c.json {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(view); err != nil {
			fmt.Fprintln(os.Stderr, "Error encoding report:", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(markdown(view))
	return subcommands.ExitSuccess
}

// --- Holding Command ---

type holdingCmd struct{ reportFlags }

func (*holdingCmd) Name() string     { return "holding" }
func (*holdingCmd) Synopsis() string { return "display the assets held on a day and their value" }
func (*holdingCmd) Usage() string {
	return `trk holding [-d <date>] [-c <currency>] [-offline] [-json]

  Displays the quantity, price and value of every asset held at the end of a day.
`
}
func (c *holdingCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f) }
func (c *holdingCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx,
		func(r *tracker.Report, cat *tracker.Catalog) any { return renderer.NewHolding(r, cat) },
		func(v any) string { return renderer.RenderHolding(v.(*renderer.Holding)) })
}

// --- Gains Command ---

type gainsCmd struct{ reportFlags }

func (*gainsCmd) Name() string     { return "gains" }
func (*gainsCmd) Synopsis() string { return "display realized and unrealized gains per asset" }
func (*gainsCmd) Usage() string {
	return `trk gains [-d <date>] [-c <currency>] [-offline] [-json]

  Displays the FIFO realized and unrealized gains of every asset. See 'trk topic fifo'.
`
}
func (c *gainsCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f) }
func (c *gainsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx,
		func(r *tracker.Report, cat *tracker.Catalog) any { return renderer.NewGains(r, cat) },
		func(v any) string { return renderer.RenderGains(v.(*renderer.Gains)) })
}

// --- Summary Command ---

type summaryCmd struct{ reportFlags }

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the portfolio totals" }
func (*summaryCmd) Usage() string {
	return `trk summary [-d <date>] [-c <currency>] [-offline] [-json]

  Displays the total buy value, current value, profit and earnings.
`
}
func (c *summaryCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f) }
func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx,
		func(r *tracker.Report, _ *tracker.Catalog) any { return renderer.NewSummary(r) },
		func(v any) string { return renderer.RenderSummary(v.(*renderer.Summary)) })
}
