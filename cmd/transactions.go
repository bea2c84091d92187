package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tracker"
	"github.com/google/subcommands"
)

// txFlags are the flags shared by buy, sell and earn.
type txFlags struct {
	date     string
	symbol   string
	quantity float64
	price    float64
	currency string
	memo     string
}

func (c *txFlags) setFlags(f *flag.FlagSet, withPrice bool) {
	f.StringVar(&c.date, "d", tracker.Today().String(), "Transaction date. See 'trk topic dates' for the supported formats.")
	f.StringVar(&c.symbol, "s", "", "Asset symbol, e.g. BTC or GOLD")
	f.Float64Var(&c.quantity, "q", 0, "Quantity")
	if withPrice {
		f.Float64Var(&c.price, "p", 0, "Total price, not the unit price")
	} else {
		f.Float64Var(&c.price, "p", 0, "Total value when acquired, optional")
	}
	f.StringVar(&c.currency, "c", "", "Currency of the price. Defaults to the display currency.")
	f.StringVar(&c.memo, "m", "", "An optional note")
}

// record appends the transaction described by the flags to the ledger.
func (c *txFlags) record(f *flag.FlagSet, typ tracker.TransactionType) subcommands.ExitStatus {
	if c.symbol == "" || c.quantity <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	currency := c.currency
	if currency == "" && (typ != tracker.Earn || c.price != 0) {
		currency = a.cfg.DisplayCurrency
	}
	in := tracker.TransactionInput{
		Symbol:        c.symbol,
		Type:          string(typ),
		Quantity:      c.quantity,
		Price:         c.price,
		PriceCurrency: currency,
		Date:          c.date,
		Memo:          c.memo,
	}
	tx, err := in.Transaction(a.catalog)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	return a.append(tx)
}

// append adds txs to the ledger and saves it.
func (a *app) append(txs ...tracker.Transaction) subcommands.ExitStatus {
	added, err := a.ledger.Append(txs...)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	if err := a.saveLedger(); err != nil {
		fmt.Fprintln(os.Stderr, "Error saving ledger:", err)
		return subcommands.ExitFailure
	}
	for _, tx := range added {
		fmt.Fprintf(stdout, "Recorded %s %s %s %s on %s (%s)\n", tx.Type, tx.Quantity, tx.Symbol, tx.Price, tx.Date, tx.ID)
	}
	return subcommands.ExitSuccess
}

// --- Buy Command ---

type buyCmd struct{ txFlags }

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record the purchase of an asset" }
func (*buyCmd) Usage() string {
	return `trk buy -s <symbol> -q <quantity> -p <total price> [-c <currency>] [-d <date>] [-m <memo>]

  Records the purchase of a quantity of an asset for a total price.
`
}
func (c *buyCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f, true) }
func (c *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.record(f, tracker.Buy)
}

// --- Sell Command ---

type sellCmd struct{ txFlags }

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "record the sale of an asset" }
func (*sellCmd) Usage() string {
	return `trk sell -s <symbol> -q <quantity> -p <total price> [-c <currency>] [-d <date>] [-m <memo>]

  Records the sale of a quantity of an asset for a total price. The quantity
  cannot exceed the quantity held on that date.
`
}
func (c *sellCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f, true) }
func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.record(f, tracker.Sell)
}

// --- Earn Command ---

type earnCmd struct{ txFlags }

func (*earnCmd) Name() string     { return "earn" }
func (*earnCmd) Synopsis() string { return "record an asset received for free, like staking rewards" }
func (*earnCmd) Usage() string {
	return `trk earn -s <symbol> -q <quantity> [-p <value> -c <currency>] [-d <date>] [-m <memo>]

  Records a quantity received at no cost, like staking rewards or airdrops.
`
}
func (c *earnCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f, false) }
func (c *earnCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.record(f, tracker.Earn)
}

// --- Convert Command ---

type convertCmd struct {
	date         string
	from, to     string
	fromQuantity float64
	toQuantity   float64
	value        float64
	currency     string
	memo         string
}

func (*convertCmd) Name() string     { return "convert" }
func (*convertCmd) Synopsis() string { return "record the swap of an asset for another" }
func (*convertCmd) Usage() string {
	return `trk convert -from <symbol> -fq <quantity> -to <symbol> -tq <quantity> -v <value> [-c <currency>] [-d <date>] [-m <memo>]

  Records a conversion as a sale of the first asset and a purchase of the
  second one, both for the same value.
`
}

func (c *convertCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", tracker.Today().String(), "Conversion date")
	f.StringVar(&c.from, "from", "", "Symbol given away")
	f.Float64Var(&c.fromQuantity, "fq", 0, "Quantity given away")
	f.StringVar(&c.to, "to", "", "Symbol received")
	f.Float64Var(&c.toQuantity, "tq", 0, "Quantity received")
	f.Float64Var(&c.value, "v", 0, "Value of the conversion")
	f.StringVar(&c.currency, "c", "", "Currency of the value. Defaults to the display currency.")
	f.StringVar(&c.memo, "m", "", "An optional note")
}

func (c *convertCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.from == "" || c.to == "" || c.fromQuantity <= 0 || c.toQuantity <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	if c.currency == "" {
		c.currency = a.cfg.DisplayCurrency
	}
	sell, buy, err := tracker.ConversionInput{
		From:         c.from,
		FromQuantity: c.fromQuantity,
		To:           c.to,
		ToQuantity:   c.toQuantity,
		Value:        c.value,
		Currency:     c.currency,
		Date:         c.date,
		Memo:         c.memo,
	}.Transactions(a.catalog)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	return a.append(sell, buy)
}
