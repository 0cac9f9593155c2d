package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinicdesk/internal/model"
	apperrors "github.com/jwalitptl/clinicdesk/pkg/errors"
)

// SessionKey is where the auth middleware leaves the resolved session.
const SessionKey = "session"

// CurrentSession returns the session set by the auth middleware, or nil.
func CurrentSession(c *gin.Context) *model.Session {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*model.Session)
	return sess
}

// BindJSON decodes the request body into dst, reporting failures as bad
// requests.
func BindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apperrors.BadRequest(err.Error(), err)
	}
	return nil
}
