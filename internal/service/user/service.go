package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/jwalitptl/clinicdesk/internal/model"
	"github.com/jwalitptl/clinicdesk/internal/repository"
	"github.com/jwalitptl/clinicdesk/internal/service/auth"
	"github.com/jwalitptl/clinicdesk/pkg/logger"
	"github.com/jwalitptl/clinicdesk/pkg/security"
	"github.com/jwalitptl/clinicdesk/pkg/validator"
)

type UserServicer interface {
	ListUsers(ctx context.Context) ([]model.UserView, error)
	AddUser(ctx context.Context, sess *model.Session, req *model.CreateUserRequest) (*model.UserView, error)
	DeleteUser(ctx context.Context, sess *model.Session, id string) error
}

type Service struct {
	repo      repository.UserRepository
	checker   security.CredentialChecker
	validator validator.Validator
	logger    *logger.Logger
}

func NewService(repo repository.UserRepository, checker security.CredentialChecker, v validator.Validator, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		checker:   checker,
		validator: v,
		logger:    log.Component("users"),
	}
}

func (s *Service) ListUsers(ctx context.Context) ([]model.UserView, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]model.UserView, 0, len(users))
	for _, u := range users {
		views = append(views, u.View())
	}
	return views, nil
}

// AddUser is restricted to administrators.
func (s *Service) AddUser(ctx context.Context, sess *model.Session, req *model.CreateUserRequest) (*model.UserView, error) {
	if err := auth.RequireRole(sess, model.UserTypeAdmin); err != nil {
		return nil, err
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	sealed, err := s.checker.Seal(req.Pass)
	if err != nil {
		return nil, fmt.Errorf("failed to seal password: %w", err)
	}

	user := &model.User{Name: req.Name, Pass: sealed, Role: req.Role}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.ZL.Info().Str("user_id", user.ID).Str("role", user.Role).Str("by", sess.User.ID).Msg("user added")
	view := user.View()
	return &view, nil
}

// DeleteUser is restricted to administrators.
func (s *Service) DeleteUser(ctx context.Context, sess *model.Session, id string) error {
	if err := auth.RequireRole(sess, model.UserTypeAdmin); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.ZL.Info().Str("user_id", id).Str("by", sess.User.ID).Msg("user deleted")
	return nil
}
