// Package cmd implements the trk command line.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/tracker"
	"github.com/etnz/tracker/config"
	"github.com/etnz/tracker/market"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile = flag.String("config", "", "Path to the config file. Defaults to trk.yaml in the user config directory.")
	plain      = flag.Bool("plain", false, "Print raw markdown instead of rendering it for the terminal.")
	verbose    = flag.Bool("v", false, "Log debug messages.")
)

// stdout receives the command outputs.
var stdout io.Writer = os.Stdout

// loadConfig loads the settings and installs the default logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	level := cfg.LogLevel
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return cfg, nil
}

// app holds what commands work on.
type app struct {
	cfg     *config.Config
	ledger  *tracker.Ledger
	catalog *tracker.Catalog
	cache   *market.Cache
	market  *market.Market
}

// openApp loads the config, the ledger, the catalog and the price cache.
func openApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	ledger, err := tracker.LoadLedger(cfg.LedgerFile)
	if err != nil {
		return nil, err
	}
	catalog, err := loadCatalog(cfg.CatalogFile)
	if err != nil {
		return nil, err
	}
	cache, err := market.LoadCache(cfg.PriceCacheFile, cfg.PriceTTL)
	if err != nil {
		return nil, err
	}
	slog.Debug("ledger loaded", "file", cfg.LedgerFile, "transactions", ledger.Len())

	cached := &market.CachedSource{
		Cache: cache,
		Prices: &market.HTTPSource{
			Client:  &http.Client{Timeout: 30 * time.Second},
			Prices:  market.Endpoint{URL: cfg.PriceURL, Path: cfg.PricePath, Header: cfg.PriceAPIKeyHeader, Key: cfg.PriceAPIKey},
			Retries: 2,
		},
		Rates: &market.HTTPSource{
			Client:  market.DailyClient(cfg.FXCacheDir),
			Rates:   market.Endpoint{URL: cfg.FXURL, Path: cfg.FXPath},
			Retries: 2,
		},
	}
	return &app{
		cfg:     cfg,
		ledger:  ledger,
		catalog: catalog,
		cache:   cache,
		market:  &market.Market{Prices: cached, Rates: cached, Catalog: catalog, Currency: cfg.QuoteCurrency},
	}, nil
}

// loadCatalog reads the catalog file. A missing file is the default catalog.
func loadCatalog(path string) (*tracker.Catalog, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return tracker.DefaultCatalog(), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := tracker.DecodeCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func (a *app) saveLedger() error { return tracker.SaveLedger(a.cfg.LedgerFile, a.ledger) }

func (a *app) saveCatalog() error {
	if err := os.MkdirAll(filepath.Dir(a.cfg.CatalogFile), 0o755); err != nil {
		return err
	}
	f, err := os.Create(a.cfg.CatalogFile)
	if err != nil {
		return err
	}
	if err := tracker.EncodeCatalog(f, a.catalog); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (a *app) saveCache() {
	if err := a.cache.Save(a.cfg.PriceCacheFile); err != nil {
		slog.Warn("could not save price cache", "file", a.cfg.PriceCacheFile, "error", err)
	}
}

// Ledger, Catalog and Report let the assistant read the portfolio.
func (a *app) Ledger() *tracker.Ledger   { return a.ledger }
func (a *app) Catalog() *tracker.Catalog { return a.catalog }
func (a *app) Report(ctx context.Context, on tracker.Date) (*tracker.Report, error) {
	return a.report(ctx, on, a.cfg.DisplayCurrency, false)
}

// report values the ledger on day on. Offline reports only use the cached
// prices and rates.
func (a *app) report(ctx context.Context, on tracker.Date, currency string, offline bool) (*tracker.Report, error) {
	symbols := a.ledger.Symbols()
	var (
		prices tracker.Prices
		rates  *tracker.RateTable
	)
	if offline {
		prices = a.cache.Prices(symbols, a.cfg.QuoteCurrency)
		rates = a.cache.Rates(a.cfg.QuoteCurrency)
	} else {
		var err error
		prices, rates, err = a.market.Value(ctx, symbols, append(a.ledger.Currencies(), currency))
		if err != nil {
			slog.Warn("incomplete market data", "error", err)
		}
		a.saveCache()
	}

	book, err := tracker.NewBook(a.ledger, prices, rates, currency)
	if err != nil {
		return nil, err
	}
	return book.Report(on)
}

// printMarkdown renders md for the terminal, or prints it as is with -plain.
func printMarkdown(md string) {
	if *plain {
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, renderMarkdown(md))
}

// renderMarkdown styles md for the terminal. md is returned as is when it
// cannot be rendered.
func renderMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
