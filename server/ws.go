package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/etnz/tracker"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const writeTimeout = 10 * time.Second

// hub tracks the websocket watchers and the currency each one watches in.
type hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]string
}

func newHub() *hub {
	return &hub{conns: make(map[*websocket.Conn]string)}
}

func (h *hub) add(conn *websocket.Conn, currency string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = currency
}

func (h *hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[conn]; ok {
		delete(h.conns, conn)
		conn.Close()
	}
}

// currencies returns the currencies watched.
func (h *hub) currencies() map[string]bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := make(map[string]bool)
	for _, cur := range h.conns {
		set[cur] = true
	}
	return set
}

// send writes msg to every watcher of currency, dropping the failing ones.
func (h *hub) send(currency string, msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, cur := range h.conns {
		if cur != currency {
			continue
		}
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			slog.Debug("dropping websocket watcher", slog.String("error", err.Error()))
			delete(h.conns, conn)
			conn.Close()
		}
	}
}

func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"),
			time.Now().Add(time.Second))
		conn.Close()
		delete(h.conns, conn)
	}
}

// watch upgrades to a websocket that receives the summary now and after every
// change of the ledger.
func (s *Server) watch(c *gin.Context) {
	currency := s.currency
	if v := c.Query("currency"); v != "" {
		currency = strings.ToUpper(v)
		if !tracker.ValidCurrency(currency) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unknown currency " + v})
			return
		}
	}
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader already replied
		loggerFrom(c).Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	s.hub.add(conn, currency)
	s.publishTo(c.Request.Context(), currency)

	// watchers only listen, reading detects when they leave
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	s.hub.remove(conn)
}

// publish sends the current summary to every watcher.
func (s *Server) publish(ctx context.Context) {
	for currency := range s.hub.currencies() {
		s.publishTo(ctx, currency)
	}
}

func (s *Server) publishTo(ctx context.Context, currency string) {
	r, err := s.report(ctx, s.logger, tracker.Today(), currency)
	if err != nil {
		s.logger.Warn("could not compute summary", slog.String("currency", currency), slog.String("error", err.Error()))
		return
	}
	msg, err := json.Marshal(toSummaryResponse(r))
	if err != nil {
		s.logger.Error("could not encode summary", slog.String("error", err.Error()))
		return
	}
	s.hub.send(currency, msg)
}
