package calendar

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinicdesk/internal/calendar"
	"github.com/jwalitptl/clinicdesk/internal/handler"
	apperrors "github.com/jwalitptl/clinicdesk/pkg/errors"
)

const dateLayout = "2006-01-02"

type Handler struct {
	loc *time.Location
	now func() time.Time
}

func NewHandler(loc *time.Location) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{loc: loc, now: time.Now}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	cal := r.Group("/calendar")
	{
		cal.GET("/lunar", h.Lunar)
		cal.GET("/clock", h.Clock)
	}
}

// Lunar converts ?date=YYYY-MM-DD, or today when date is absent.
func (h *Handler) Lunar(c *gin.Context) {
	day := h.now().In(h.loc)
	if raw := strings.TrimSpace(c.Query("date")); raw != "" {
		parsed, err := time.ParseInLocation(dateLayout, raw, h.loc)
		if err != nil {
			handler.Fail(c, apperrors.BadRequest("date must be YYYY-MM-DD", err))
			return
		}
		day = parsed
	}

	lunar := calendar.ToLunar(day)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"gregorian": day.Format(dateLayout),
		"hijri":     lunar.String(),
		"year":      lunar.Year,
		"month":     lunar.Month,
		"day":       lunar.Day,
	}))
}

func (h *Handler) Clock(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(calendar.Clock(h.now().In(h.loc))))
}
