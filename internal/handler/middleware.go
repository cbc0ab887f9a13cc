package handler

import (
	"strconv"
	"time"

	"github.com/BloggingApp/post-service/internal/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()

	c.Next()

	h.logger.Info("request",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", c.Writer.Status()),
		zap.Duration("latency", time.Since(start)),
		zap.String("ip", c.ClientIP()),
	)
}

func (h *Handler) metricsMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next()

	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}

	metrics.HTTPRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
	metrics.HTTPDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
}
