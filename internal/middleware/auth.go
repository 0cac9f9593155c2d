package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinicdesk/internal/handler"
	"github.com/jwalitptl/clinicdesk/internal/model"
	"github.com/jwalitptl/clinicdesk/internal/service/auth"
	apperrors "github.com/jwalitptl/clinicdesk/pkg/errors"
)

// Authenticator resolves a bearer token to the live session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.Session, error)
}

type AuthMiddleware struct {
	authService Authenticator
}

func NewAuthMiddleware(authService Authenticator) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

// Authenticate verifies the bearer token and sets the session in context
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			handler.Fail(c, apperrors.Unauthorized(apperrors.New("missing authorization header")))
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			handler.Fail(c, apperrors.Unauthorized(apperrors.New("invalid authorization format")))
			return
		}

		sess, err := m.authService.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			handler.Fail(c, err)
			return
		}

		c.Set(handler.SessionKey, sess)
		c.Next()
	}
}

// RequireRole lets the request through only for sessions holding one of roles.
func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := auth.RequireRole(handler.CurrentSession(c), roles...); err != nil {
			handler.Fail(c, err)
			return
		}
		c.Next()
	}
}
