package medication

import (
	"context"
	"strings"

	"github.com/jwalitptl/clinicdesk/internal/model"
	"github.com/jwalitptl/clinicdesk/internal/repository"
	apperrors "github.com/jwalitptl/clinicdesk/pkg/errors"
	"github.com/jwalitptl/clinicdesk/pkg/logger"
	"github.com/jwalitptl/clinicdesk/pkg/validator"
)

type MedicationServicer interface {
	ListMedications(ctx context.Context) ([]model.Medication, error)
	AddMedication(ctx context.Context, req *model.AddMedicationRequest) (*model.Medication, bool, error)
	UpdateMedication(ctx context.Context, id string, req *model.UpdateMedicationRequest) (*model.Medication, error)
	DeleteMedication(ctx context.Context, id string) error
}

type Service struct {
	repo      repository.MedicationRepository
	validator validator.Validator
	logger    *logger.Logger
}

func NewService(repo repository.MedicationRepository, v validator.Validator, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		validator: v,
		logger:    log.Component("pharmacy"),
	}
}

func (s *Service) ListMedications(ctx context.Context) ([]model.Medication, error) {
	return s.repo.List(ctx)
}

// AddMedication merges into a same-named medication when there is one. The
// bool result reports a merge.
func (s *Service) AddMedication(ctx context.Context, req *model.AddMedicationRequest) (*model.Medication, bool, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Validate(req); err != nil {
		return nil, false, err
	}

	med, merged, err := s.repo.Upsert(ctx, &model.Medication{
		Name:     req.Name,
		Stock:    req.Stock,
		Expiry:   req.Expiry,
		Supplier: req.Supplier,
	})
	if err != nil {
		return nil, false, err
	}

	s.logger.ZL.Info().
		Str("medication_id", med.ID).
		Int("stock", int(med.Stock)).
		Bool("merged", merged).
		Msg("medication stocked")
	return med, merged, nil
}

func (s *Service) UpdateMedication(ctx context.Context, id string, req *model.UpdateMedicationRequest) (*model.Medication, error) {
	return s.repo.Update(ctx, id, func(m *model.Medication) error {
		req.Apply(m)
		if m.Name == "" {
			return apperrors.Validation("name is required", nil)
		}
		return nil
	})
}

func (s *Service) DeleteMedication(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.ZL.Info().Str("medication_id", id).Msg("medication removed")
	return nil
}
