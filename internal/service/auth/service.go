package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinicdesk/internal/model"
	"github.com/jwalitptl/clinicdesk/internal/repository"
	"github.com/jwalitptl/clinicdesk/internal/session"
	"github.com/jwalitptl/clinicdesk/pkg/auth"
	apperrors "github.com/jwalitptl/clinicdesk/pkg/errors"
	"github.com/jwalitptl/clinicdesk/pkg/logger"
	"github.com/jwalitptl/clinicdesk/pkg/metrics"
	"github.com/jwalitptl/clinicdesk/pkg/security"
)

type Service struct {
	userRepo    repository.UserRepository
	patientRepo repository.PatientRepository
	sessions    *session.Store
	checker     security.CredentialChecker
	tokens      auth.TokenService
	logger      *logger.Logger
	metrics     *metrics.Metrics
	now         func() time.Time
}

func NewService(userRepo repository.UserRepository, patientRepo repository.PatientRepository,
	sessions *session.Store, checker security.CredentialChecker, tokens auth.TokenService,
	log *logger.Logger, m *metrics.Metrics) *Service {
	return &Service{
		userRepo:    userRepo,
		patientRepo: patientRepo,
		sessions:    sessions,
		checker:     checker,
		tokens:      tokens,
		logger:      log.Component("auth"),
		metrics:     m,
		now:         time.Now,
	}
}

// Login accepts the typed name as stored or in lower case, and stores a copy
// of the matching user as the current session.
func (s *Service) Login(ctx context.Context, name, pass string) (*model.Session, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	lowered := strings.ToLower(name)
	for _, u := range users {
		if (u.Name == name || u.Name == lowered) && s.checker.Match(u.Pass, pass) {
			sess := &model.Session{ID: uuid.NewString(), User: u, StartedAt: s.now()}
			if err := s.sessions.Put(sess); err != nil {
				return nil, fmt.Errorf("failed to store session: %w", err)
			}
			s.metrics.Logins.WithLabelValues("success").Inc()
			s.logger.ZL.Info().Str("user_id", u.ID).Str("role", u.Role).Msg("user logged in")
			return sess, nil
		}
	}

	s.metrics.Logins.WithLabelValues("failure").Inc()
	s.logger.ZL.Warn().Str("name", name).Msg("login rejected")
	return nil, apperrors.InvalidCredentials()
}

// IssueToken signs a bearer token for sess. It is only honoured while sess is
// still the current session.
func (s *Service) IssueToken(sess *model.Session) (*model.TokenResponse, error) {
	token, expiresAt, err := s.tokens.Issue(sess.ID, sess.User.ID, sess.User.Name, sess.User.Role)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &model.TokenResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        sess.User.View(),
	}, nil
}

func (s *Service) Logout(ctx context.Context) {
	if sess, ok := s.sessions.Current(); ok {
		s.logger.ZL.Info().Str("user_id", sess.User.ID).Msg("user logged out")
	}
	s.sessions.Clear()
}

func (s *Service) Current(ctx context.Context) (*model.Session, error) {
	sess, ok := s.sessions.Current()
	if !ok {
		return nil, apperrors.Unauthorized(nil)
	}
	return sess, nil
}

// Authenticate resolves a bearer token to the live session. A token issued
// for any earlier login is rejected, including one of the same user.
func (s *Service) Authenticate(ctx context.Context, token string) (*model.Session, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}
	sess, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	if sess.ID != claims.ID || sess.User.ID != claims.Subject {
		return nil, apperrors.Unauthorized(errors.New("token does not belong to the current session"))
	}
	return sess, nil
}

// ChangePassword re-reads the stored user, by id and then by name, checks the
// old password and overwrites it. An empty confirmation is not checked.
func (s *Service) ChangePassword(ctx context.Context, sess *model.Session, req model.ChangePasswordRequest) error {
	if sess == nil {
		return apperrors.Unauthorized(nil)
	}
	if req.NewPass == "" {
		return apperrors.Validation("new_pass is required", nil)
	}
	if req.ConfirmPass != "" && req.ConfirmPass != req.NewPass {
		return apperrors.Validation("password confirmation does not match", nil)
	}

	user, err := s.userRepo.Get(ctx, sess.User.ID)
	if apperrors.Is(err, apperrors.ErrNotFound) {
		user, err = s.userRepo.GetByName(ctx, sess.User.Name)
	}
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}

	if !s.checker.Match(user.Pass, req.OldPass) {
		return apperrors.WrongOldPassword()
	}

	sealed, err := s.checker.Seal(req.NewPass)
	if err != nil {
		return apperrors.Internal(err)
	}

	updated, err := s.userRepo.Update(ctx, user.ID, func(u *model.User) error {
		u.Pass = sealed
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}

	if current, ok := s.sessions.Current(); ok && current.User.ID == updated.ID {
		current.User = *updated
		if err := s.sessions.Put(current); err != nil {
			return fmt.Errorf("failed to refresh session: %w", err)
		}
	}

	s.logger.ZL.Info().Str("user_id", updated.ID).Msg("password changed")
	return nil
}

// SignUp creates a patient-role account and then the patient record with the
// same name and phone. The two writes are independent: if the patient record
// is rejected the account stays.
func (s *Service) SignUp(ctx context.Context, req model.SignUpRequest) (*model.UserView, error) {
	name := strings.TrimSpace(req.Name)
	phone := strings.TrimSpace(req.Phone)
	pass := strings.TrimSpace(req.Pass)
	if name == "" || phone == "" || pass == "" {
		return nil, apperrors.Validation("name, phone and password are required", nil)
	}

	sealed, err := s.checker.Seal(pass)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	user := &model.User{Name: name, Pass: sealed, Role: model.UserTypePatient}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.patientRepo.Create(ctx, &model.Patient{Name: name, Phone: phone}); err != nil {
		s.logger.ZL.Warn().Err(err).Str("user_id", user.ID).Msg("account created without a patient record")
		return nil, err
	}

	s.logger.ZL.Info().Str("user_id", user.ID).Msg("patient signed up")
	view := user.View()
	return &view, nil
}

// RequireRole fails unless sess belongs to one of roles.
func RequireRole(sess *model.Session, roles ...string) error {
	if sess == nil {
		return apperrors.Unauthorized(nil)
	}
	for _, r := range roles {
		if sess.HasRole(r) {
			return nil
		}
	}
	return apperrors.Forbidden(fmt.Sprintf("requires role %s", strings.Join(roles, " or ")))
}
