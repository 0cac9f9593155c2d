package collection

import (
	"context"
	"strings"

	"github.com/jwalitptl/clinicdesk/internal/model"
	"github.com/jwalitptl/clinicdesk/internal/repository"
	"github.com/jwalitptl/clinicdesk/internal/storage"
	apperrors "github.com/jwalitptl/clinicdesk/pkg/errors"
	"github.com/jwalitptl/clinicdesk/pkg/security"
)

type userRepository struct {
	baseRepository[model.User]
}

// NewUserRepository seeds the default accounts the first time the user
// collection is found absent. Seed passwords are sealed with checker.
func NewUserRepository(store *storage.Store, checker security.CredentialChecker) repository.UserRepository {
	seed := func() []model.User {
		users := model.DefaultUsers()
		for i := range users {
			if sealed, err := checker.Seal(users[i].Pass); err == nil {
				users[i].Pass = sealed
			}
		}
		return users
	}
	col := storage.NewCollection(store, storage.KeyUsers, seed)
	return &userRepository{
		baseRepository: newBaseRepository(col, "user", func(u *model.User) string { return u.ID }),
	}
}

func uniqueName(users []model.User, name string) error {
	for _, u := range users {
		if u.Name == name {
			return apperrors.DuplicateName(name)
		}
	}
	return nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	return r.list(ctx)
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	user.Name = strings.TrimSpace(user.Name)
	if user.ID == "" {
		user.ID = model.NewID(model.PrefixUser)
	}
	return r.create(ctx, user, func(users []model.User) error {
		return uniqueName(users, user.Name)
	})
}

func (r *userRepository) Get(ctx context.Context, id string) (*model.User, error) {
	return r.get(ctx, id)
}

// GetByName matches the stored name exactly.
func (r *userRepository) GetByName(ctx context.Context, name string) (*model.User, error) {
	users, err := r.list(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Name == name {
			u := u
			return &u, nil
		}
	}
	return nil, apperrors.NotFound("user", nil)
}

func (r *userRepository) Update(ctx context.Context, id string, fn func(*model.User) error) (*model.User, error) {
	return r.update(ctx, id, fn, func(others []model.User, u *model.User) error {
		return uniqueName(others, u.Name)
	})
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id)
}
