// Package server exposes the ledger and its reports as a local JSON API for
// the browser front-end.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/etnz/tracker"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Valuer provides current prices and exchange rates.
type Valuer interface {
	Value(ctx context.Context, symbols []tracker.Symbol, currencies []string) (tracker.Prices, *tracker.RateTable, error)
}

// Options configures a Server.
type Options struct {
	// Currency is the default display currency.
	Currency string
	// AllowedOrigins are the browser origins allowed by CORS, "*" allows all.
	AllowedOrigins []string
	// RateLimit is a ulule/limiter formatted rate, e.g. "300-M". Empty disables it.
	RateLimit string
	Logger    *slog.Logger
}

// Server is the HTTP API.
type Server struct {
	store    *Store
	valuer   Valuer
	currency string
	origins  []string
	logger   *slog.Logger
	router   *gin.Engine
	hub      *hub
	upgrader websocket.Upgrader
}

// New creates the server and its routes.
func New(store *Store, valuer Valuer, opts Options) (*Server, error) {
	if !tracker.ValidCurrency(opts.Currency) {
		return nil, fmt.Errorf("invalid display currency %q", opts.Currency)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		store:    store,
		valuer:   valuer,
		currency: opts.Currency,
		origins:  opts.AllowedOrigins,
		logger:   logger,
		hub:      newHub(),
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}

	r := gin.New()
	r.Use(requestLogger(logger), gin.Recovery())
	if err := r.SetTrustedProxies(nil); err != nil {
		return nil, err
	}
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.New(corsConfig(opts.AllowedOrigins)))
	}
	if opts.RateLimit != "" {
		l, err := newLimiter(opts.RateLimit)
		if err != nil {
			return nil, fmt.Errorf("invalid rate limit %q: %w", opts.RateLimit, err)
		}
		r.Use(rateLimit(l))
	}
	s.router = r
	s.routes()
	return s, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return origin == "" || slices.Contains(s.origins, "*") || slices.Contains(s.origins, origin)
}

func (s *Server) routes() {
	api := s.router.Group("/api")
	api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	txs := api.Group("/transactions")
	{
		txs.GET("", s.listTransactions)
		txs.POST("", s.createTransaction)
		txs.GET("/:id", s.getTransaction)
		txs.PUT("/:id", s.updateTransaction)
		txs.DELETE("/:id", s.deleteTransaction)
	}
	api.POST("/conversions", s.createConversion)

	api.GET("/positions", s.positions)
	api.GET("/gains", s.gains)
	api.GET("/summary", s.summary)
	api.GET("/ws", s.watch)
}

// Handler returns the http handler of the API.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("server started", slog.String("addr", addr))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	s.hub.closeAll()
	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdown); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// report computes the report of the current ledger on day in currency.
func (s *Server) report(ctx context.Context, logger *slog.Logger, on tracker.Date, currency string) (*tracker.Report, error) {
	ledger := s.store.Snapshot()
	prices, rates, err := s.valuer.Value(ctx, ledger.Symbols(), append(ledger.Currencies(), currency))
	if err != nil {
		logger.Warn("incomplete market data", slog.String("error", err.Error()))
	}
	var cv tracker.Converter
	if rates != nil {
		cv = rates
	}
	book, err := tracker.NewBook(ledger, prices, cv, currency)
	if err != nil {
		return nil, err
	}
	return book.Report(on)
}
