package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinicdesk/internal/model"
	"github.com/jwalitptl/clinicdesk/internal/repository/collection"
	"github.com/jwalitptl/clinicdesk/internal/storage"
	apperrors "github.com/jwalitptl/clinicdesk/pkg/errors"
	"github.com/jwalitptl/clinicdesk/pkg/logger"
	"github.com/jwalitptl/clinicdesk/pkg/metrics"
	"github.com/jwalitptl/clinicdesk/pkg/security"
	"github.com/jwalitptl/clinicdesk/pkg/validator"
)

var (
	adminSession  = &model.Session{User: model.User{ID: "u_admin", Name: "admin", Role: model.UserTypeAdmin}}
	doctorSession = &model.Session{User: model.User{ID: "u_doc", Name: "doctor", Role: model.UserTypeDoctor}}
)

func newService(t *testing.T) *Service {
	t.Helper()
	store := storage.NewStore(storage.NewMemoryBackend(), logger.Nop(), metrics.NewNop())
	repo := collection.NewUserRepository(store, security.PlaintextChecker{})
	return NewService(repo, security.PlaintextChecker{}, validator.New(), logger.Nop())
}

func TestListUsers_HidesPasswords(t *testing.T) {
	svc := newService(t)

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, model.UserView{ID: "u_admin", Name: "admin", Role: model.UserTypeAdmin}, users[0])
}

func TestAddUser(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	view, err := svc.AddUser(ctx, adminSession, &model.CreateUserRequest{Name: " reception ", Pass: "pw", Role: model.UserTypeDoctor})
	require.NoError(t, err)
	assert.Equal(t, "reception", view.Name)

	_, err = svc.AddUser(ctx, adminSession, &model.CreateUserRequest{Name: "reception", Pass: "pw", Role: model.UserTypeDoctor})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateName)

	_, err = svc.AddUser(ctx, adminSession, &model.CreateUserRequest{Name: "x", Pass: "pw", Role: "janitor"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestAddUser_RequiresAdmin(t *testing.T) {
	svc := newService(t)

	_, err := svc.AddUser(context.Background(), doctorSession, &model.CreateUserRequest{Name: "x", Pass: "pw", Role: model.UserTypeDoctor})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = svc.AddUser(context.Background(), nil, &model.CreateUserRequest{Name: "x", Pass: "pw", Role: model.UserTypeDoctor})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	assert.ErrorIs(t, svc.DeleteUser(ctx, doctorSession, "u_doc"), apperrors.ErrForbidden)
	require.NoError(t, svc.DeleteUser(ctx, adminSession, "u_doc"))
	assert.ErrorIs(t, svc.DeleteUser(ctx, adminSession, "u_doc"), apperrors.ErrNotFound)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
