package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinicdesk/internal/handler"
	"github.com/jwalitptl/clinicdesk/internal/model"
	"github.com/jwalitptl/clinicdesk/internal/service/auth"
)

type Handler struct {
	svc *auth.Service
}

func NewHandler(svc *auth.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes puts login and signup on public behind limit, and the
// session-bound endpoints on protected.
func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup, limit gin.HandlerFunc) {
	open := public.Group("/auth")
	{
		open.POST("/login", limit, h.Login)
		open.POST("/signup", limit, h.SignUp)
	}

	session := protected.Group("/auth")
	{
		session.POST("/logout", h.Logout)
		session.GET("/session", h.Session)
		session.PUT("/password", h.ChangePassword)
	}
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.Fail(c, err)
		return
	}

	sess, err := h.svc.Login(c.Request.Context(), req.Name, req.Pass)
	if err != nil {
		handler.Fail(c, err)
		return
	}

	tokens, err := h.svc.IssueToken(sess)
	if err != nil {
		handler.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(tokens))
}

func (h *Handler) SignUp(c *gin.Context) {
	var req model.SignUpRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.Fail(c, err)
		return
	}

	user, err := h.svc.SignUp(c.Request.Context(), req)
	if err != nil {
		handler.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(user))
}

func (h *Handler) Logout(c *gin.Context) {
	h.svc.Logout(c.Request.Context())
	c.JSON(http.StatusOK, handler.NewSuccessResponse("logged out successfully"))
}

func (h *Handler) Session(c *gin.Context) {
	sess := handler.CurrentSession(c)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"user":       sess.User.View(),
		"started_at": sess.StartedAt,
	}))
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var req model.ChangePasswordRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.Fail(c, err)
		return
	}

	if err := h.svc.ChangePassword(c.Request.Context(), handler.CurrentSession(c), req); err != nil {
		handler.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse("password changed"))
}
