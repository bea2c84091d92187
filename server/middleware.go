package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

type contextKey string

const loggerKey = contextKey("logger")

// requestLogger injects a request scoped logger into the gin context and
// logs every completed request.
func requestLogger(base *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()

		logger := base.With(
			slog.String("request_id", requestID),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
		)
		c.Header("X-Request-ID", requestID)
		c.Set(string(loggerKey), logger)

		c.Next()

		logger.Info("request completed",
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
		)
	}
}

// loggerFrom returns the request logger, or the default one outside of a request.
func loggerFrom(c *gin.Context) *slog.Logger {
	if v, ok := c.Get(string(loggerKey)); ok {
		if logger, ok := v.(*slog.Logger); ok {
			return logger
		}
	}
	return slog.Default()
}

// newLimiter parses a rate like "300-M" into an in-memory limiter.
func newLimiter(rate string) (*limiter.Limiter, error) {
	r, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, err
	}
	return limiter.New(memory.NewStore(), r), nil
}

// rateLimit rejects clients going over the limiter rate.
func rateLimit(l *limiter.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		ctx, err := l.Get(c.Request.Context(), ip)
		if err != nil {
			loggerFrom(c).Error("rate limit check failed", slog.String("ip", ip), slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "rate limit check failed"})
			return
		}
		if ctx.Reached {
			loggerFrom(c).Warn("rate limit exceeded", slog.String("ip", ip), slog.Int64("limit", ctx.Limit))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, try again later"})
			return
		}
		c.Next()
	}
}
