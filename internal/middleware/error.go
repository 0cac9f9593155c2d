package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinicdesk/internal/handler"
	"github.com/jwalitptl/clinicdesk/pkg/logger"
)

// ErrorHandler logs the errors handlers attached to the context. Server
// failures are logged at error level with their cause; client mistakes at
// debug. When nothing was written yet the last error is rendered.
func ErrorHandler(log *logger.Logger) gin.HandlerFunc {
	log = log.Component("http")
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		requestID := c.GetString(ContextRequestID)
		for _, e := range c.Errors {
			status := handler.StatusCode(e.Err)
			event := log.ZL.Debug()
			if status >= http.StatusInternalServerError {
				event = log.ZL.Error()
			}
			event.
				Err(e.Err).
				Str("request_id", requestID).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Int("status", status).
				Msg("request error")
		}

		if !c.Writer.Written() {
			last := c.Errors.Last().Err
			c.JSON(handler.StatusCode(last), handler.NewErrorResponse(handler.ErrorMessage(last)))
		}
	}
}
