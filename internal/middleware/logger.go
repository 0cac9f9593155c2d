package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinicdesk/pkg/logger"
	"github.com/jwalitptl/clinicdesk/pkg/metrics"
)

// Logger logs every request once it has been served and records it in the
// HTTP metrics. Bodies are never logged: they carry passwords and patient
// details.
func Logger(log *logger.Logger, m *metrics.Metrics) gin.HandlerFunc {
	log = log.Component("http")
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		method := c.Request.Method

		// Route template keeps the label set bounded; unmatched paths share one.
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		m.RequestDuration.WithLabelValues(method, route).Observe(latency.Seconds())

		event := log.ZL.Info()
		msg := "request processed"
		switch {
		case status >= 500:
			event, msg = log.ZL.Error(), "server error"
		case status >= 400:
			event, msg = log.ZL.Warn(), "client error"
		}

		event.
			Str("request_id", c.GetString(ContextRequestID)).
			Str("client_ip", c.ClientIP()).
			Str("method", method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latency).
			Str("user_agent", c.Request.UserAgent()).
			Msg(msg)
	}
}
