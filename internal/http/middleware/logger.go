package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rcrowley/go-metrics"
	"github.com/rs/zerolog"
)

func Logger(l zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		status := c.Writer.Status()
		method := c.Request.Method
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		rid := c.GetString(RequestIDHeader)
		event := l.Info()
		if status >= 500 {
			event = l.Error()
		}
		event.
			Str("request_id", rid).
			Str("method", method).
			Str("path", path).
			Int("status", status).
			Dur("latency", latency).
			Msg("request")
	}
}

// Metrics times every request under http.requests and counts 5xx answers.
func Metrics(registry metrics.Registry) gin.HandlerFunc {
	timer := metrics.GetOrRegisterTimer("http.requests", registry)
	failures := metrics.GetOrRegisterCounter("http.errors", registry)
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		timer.UpdateSince(start)
		if c.Writer.Status() >= 500 {
			failures.Inc(1)
		}
	}
}
