package reminder

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinicdesk/internal/handler"
	"github.com/jwalitptl/clinicdesk/internal/model"
)

// Inbox is drained by every read.
type Inbox interface {
	Take() []model.Reminder
}

type Handler struct {
	inbox Inbox
}

func NewHandler(inbox Inbox) *Handler {
	return &Handler{inbox: inbox}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/reminders", h.Pending)
}

type reminderView struct {
	model.Reminder
	Text string `json:"text"`
}

// Pending returns the reminders fired since the last call and forgets them.
func (h *Handler) Pending(c *gin.Context) {
	fired := h.inbox.Take()
	views := make([]reminderView, 0, len(fired))
	for _, r := range fired {
		views = append(views, reminderView{Reminder: r, Text: r.Text()})
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(views))
}
