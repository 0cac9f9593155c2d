package preference

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinicdesk/internal/handler"
	"github.com/jwalitptl/clinicdesk/internal/service/preference"
)

type Handler struct {
	service *preference.Service
}

func NewHandler(service *preference.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	prefs := r.Group("/preferences")
	{
		prefs.GET("/language", h.GetLanguage)
		prefs.PUT("/language", h.SetLanguage)
	}
}

type languageRequest struct {
	Language string `json:"language" binding:"required"`
}

func (h *Handler) GetLanguage(c *gin.Context) {
	lang, err := h.service.Language(c.Request.Context())
	if err != nil {
		handler.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"language": lang}))
}

func (h *Handler) SetLanguage(c *gin.Context) {
	var req languageRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.Fail(c, err)
		return
	}

	lang, err := h.service.SetLanguage(c.Request.Context(), req.Language)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"language": lang}))
}
