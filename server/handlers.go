package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/etnz/tracker"
	"github.com/gin-gonic/gin"
)

// abort writes err as a JSON error with the status matching its kind.
func abort(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, tracker.ErrInvalid):
		status = http.StatusBadRequest
	case errors.Is(err, tracker.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, tracker.ErrMissingRate):
		status = http.StatusBadGateway
	}
	logger := loggerFrom(c)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", slog.String("error", err.Error()))
	} else {
		logger.Warn("request rejected", slog.Int("status", status), slog.String("error", err.Error()))
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func (s *Server) listTransactions(c *gin.Context) {
	txs := s.store.Snapshot().ByCreation()
	if sym := c.Query("symbol"); sym != "" {
		want := tracker.NewSymbol(sym)
		filtered := txs[:0]
		for _, tx := range txs {
			if tx.Symbol == want {
				filtered = append(filtered, tx)
			}
		}
		txs = filtered
	}
	c.JSON(http.StatusOK, toTransactionResponses(txs))
}

func (s *Server) getTransaction(c *gin.Context) {
	tx, err := s.store.Get(c.Param("id"))
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, toTransactionResponse(tx))
}

func (s *Server) createTransaction(c *gin.Context) {
	var in tracker.TransactionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		abort(c, fmt.Errorf("%w: %v", tracker.ErrInvalid, err))
		return
	}
	// conversions are created together through /api/conversions
	in.Link = ""
	tx, err := in.Transaction(s.store.Catalog())
	if err != nil {
		abort(c, err)
		return
	}
	added, err := s.store.Add(tx)
	if err != nil {
		abort(c, err)
		return
	}
	loggerFrom(c).Info("transaction added", slog.String("id", added[0].ID), slog.String("symbol", string(tx.Symbol)))
	s.changed()
	c.JSON(http.StatusCreated, toTransactionResponse(added[0]))
}

func (s *Server) updateTransaction(c *gin.Context) {
	old, err := s.store.Get(c.Param("id"))
	if err != nil {
		abort(c, err)
		return
	}
	var in tracker.TransactionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		abort(c, fmt.Errorf("%w: %v", tracker.ErrInvalid, err))
		return
	}
	if in.ID != "" && in.ID != old.ID {
		abort(c, fmt.Errorf("%w: id %s does not match the url", tracker.ErrInvalid, in.ID))
		return
	}
	in.ID = old.ID
	tx, err := in.Transaction(s.store.Catalog())
	if err != nil {
		abort(c, err)
		return
	}
	replaced, err := s.store.Replace(tx)
	if err != nil {
		abort(c, err)
		return
	}
	loggerFrom(c).Info("transaction replaced", slog.String("id", replaced.ID))
	s.changed()
	c.JSON(http.StatusOK, toTransactionResponse(replaced))
}

func (s *Server) deleteTransaction(c *gin.Context) {
	tx, err := s.store.Get(c.Param("id"))
	if err != nil {
		abort(c, err)
		return
	}
	removed, err := s.store.Delete(tx.ID)
	if err != nil {
		abort(c, err)
		return
	}
	ids := make([]string, 0, len(removed))
	for _, tx := range removed {
		ids = append(ids, tx.ID)
	}
	loggerFrom(c).Info("transactions deleted", slog.String("ids", strings.Join(ids, ",")))
	s.changed()
	c.JSON(http.StatusOK, gin.H{"deleted": ids})
}

func (s *Server) createConversion(c *gin.Context) {
	var in tracker.ConversionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		abort(c, fmt.Errorf("%w: %v", tracker.ErrInvalid, err))
		return
	}
	sell, buy, err := in.Transactions(s.store.Catalog())
	if err != nil {
		abort(c, err)
		return
	}
	added, err := s.store.Add(sell, buy)
	if err != nil {
		abort(c, err)
		return
	}
	loggerFrom(c).Info("conversion added", slog.String("link", sell.Link))
	s.changed()
	c.JSON(http.StatusCreated, toTransactionResponses(added))
}

// reportQuery reads the "on" and "currency" query parameters.
func (s *Server) reportQuery(c *gin.Context) (tracker.Date, string, error) {
	on := tracker.Today()
	if v := c.Query("on"); v != "" {
		d, err := tracker.ParseDate(v)
		if err != nil {
			return on, "", fmt.Errorf("%w: %v", tracker.ErrInvalid, err)
		}
		on = d
	}
	currency := s.currency
	if v := c.Query("currency"); v != "" {
		currency = strings.ToUpper(v)
		if !tracker.ValidCurrency(currency) {
			return on, "", fmt.Errorf("%w: unknown currency %q", tracker.ErrInvalid, v)
		}
	}
	return on, currency, nil
}

func (s *Server) requestReport(c *gin.Context) (*tracker.Report, bool) {
	on, currency, err := s.reportQuery(c)
	if err != nil {
		abort(c, err)
		return nil, false
	}
	r, err := s.report(c.Request.Context(), loggerFrom(c), on, currency)
	if err != nil {
		abort(c, err)
		return nil, false
	}
	return r, true
}

func (s *Server) positions(c *gin.Context) {
	if r, ok := s.requestReport(c); ok {
		c.JSON(http.StatusOK, toPositionResponses(r, s.store.Catalog()))
	}
}

func (s *Server) gains(c *gin.Context) {
	if r, ok := s.requestReport(c); ok {
		c.JSON(http.StatusOK, toGainResponses(r))
	}
}

func (s *Server) summary(c *gin.Context) {
	if r, ok := s.requestReport(c); ok {
		c.JSON(http.StatusOK, toSummaryResponse(r))
	}
}

// changed pushes the new summaries to the watchers.
func (s *Server) changed() {
	go s.publish(context.Background())
}
