package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/jwalitptl/clinicdesk/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// StatusCode maps an application error to the HTTP status it is reported with.
func StatusCode(err error) int {
	switch apperrors.CodeOf(err) {
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeBadRequest, apperrors.CodeValidation:
		return http.StatusBadRequest
	case apperrors.CodeUnauthorized, apperrors.CodeInvalidCredentials:
		return http.StatusUnauthorized
	case apperrors.CodeForbidden, apperrors.CodeWrongOldPassword:
		return http.StatusForbidden
	case apperrors.CodeDuplicateName, apperrors.CodeDuplicatePatient:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ErrorMessage is the client-facing text for err. Internal failures never
// leak their cause.
func ErrorMessage(err error) string {
	var appErr *apperrors.AppError
	if !apperrors.As(err, &appErr) || appErr.Code == apperrors.CodeInternal || appErr.Code == apperrors.CodeStorageCorrupt {
		return "internal error"
	}
	return appErr.Message
}

// Fail records err on the context for the error middleware and aborts with
// the mapped status.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(StatusCode(err), NewErrorResponse(ErrorMessage(err)))
}
