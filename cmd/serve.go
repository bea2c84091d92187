package cmd

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/etnz/tracker/server"
	"github.com/gin-gonic/gin"
	"github.com/google/subcommands"
)

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the JSON API of the browser app" }
func (*serveCmd) Usage() string {
	return `trk serve [-addr <host:port>]

  Serves the ledger and its reports as a JSON API until interrupted.
  See 'trk topic server'.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Listen address. Defaults to the configured one.")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	level := a.cfg.LogLevel
	if *verbose {
		level = slog.LevelDebug
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	addr := a.cfg.ListenAddr
	if c.addr != "" {
		addr = c.addr
	}
	store := server.NewStore(a.ledger, a.catalog, a.cfg.LedgerFile)
	srv, err := server.New(store, a.market, server.Options{
		Currency:       a.cfg.DisplayCurrency,
		AllowedOrigins: a.cfg.AllowedOrigins,
		RateLimit:      a.cfg.RateLimit,
		Logger:         logger,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = srv.Run(ctx, addr)
	a.saveCache()
	if err != nil {
		logger.Error("server failed", slog.String("error", err.Error()))
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
