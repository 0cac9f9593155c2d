package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/jwalitptl/clinicdesk/pkg/errors"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperrors.NotFound("patient", nil), http.StatusNotFound},
		{fmt.Errorf("failed to get patient: %w", apperrors.NotFound("patient", nil)), http.StatusNotFound},
		{apperrors.Validation("name is required", nil), http.StatusBadRequest},
		{apperrors.BadRequest("bad json", nil), http.StatusBadRequest},
		{apperrors.InvalidCredentials(), http.StatusUnauthorized},
		{apperrors.Unauthorized(nil), http.StatusUnauthorized},
		{apperrors.Forbidden("admin only"), http.StatusForbidden},
		{apperrors.WrongOldPassword(), http.StatusForbidden},
		{apperrors.DuplicateName("admin"), http.StatusConflict},
		{apperrors.DuplicatePatient("Omar", "0790"), http.StatusConflict},
		{apperrors.Internal(errors.New("disk")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusCode(tt.err), tt.err.Error())
	}
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "patient not found", ErrorMessage(fmt.Errorf("wrapped: %w", apperrors.NotFound("patient", nil))))
	assert.Equal(t, "internal error", ErrorMessage(apperrors.Internal(errors.New("connection refused"))))
	assert.Equal(t, "internal error", ErrorMessage(errors.New("connection refused")))
}
