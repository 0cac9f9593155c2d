package preference

import (
	"context"
	"strings"

	"github.com/jwalitptl/clinicdesk/internal/storage"
	"github.com/jwalitptl/clinicdesk/pkg/validator"
)

// DefaultLanguage is used until someone picks another.
const DefaultLanguage = "ar"

// Service keeps the display language. It has no effect on anything else.
type Service struct {
	store     *storage.Store
	validator validator.Validator
}

func NewService(store *storage.Store, v validator.Validator) *Service {
	return &Service{store: store, validator: v}
}

func (s *Service) Language(ctx context.Context) (string, error) {
	var lang string
	ok, err := s.store.Get(ctx, storage.KeyLanguage, &lang)
	if err != nil {
		return "", err
	}
	if !ok || lang == "" {
		return DefaultLanguage, nil
	}
	return lang, nil
}

func (s *Service) SetLanguage(ctx context.Context, lang string) (string, error) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if err := s.validator.ValidateVar("language", lang, "required,alpha,min=2,max=8"); err != nil {
		return "", err
	}
	if err := s.store.Set(ctx, storage.KeyLanguage, lang); err != nil {
		return "", err
	}
	return lang, nil
}
