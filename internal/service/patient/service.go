package patient

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jwalitptl/clinicdesk/internal/calendar"
	"github.com/jwalitptl/clinicdesk/internal/model"
	"github.com/jwalitptl/clinicdesk/internal/repository"
	apperrors "github.com/jwalitptl/clinicdesk/pkg/errors"
	"github.com/jwalitptl/clinicdesk/pkg/logger"
	"github.com/jwalitptl/clinicdesk/pkg/validator"
)

type PatientServicer interface {
	ListPatients(ctx context.Context, query string) ([]model.Patient, error)
	AddPatient(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error)
	GetPatient(ctx context.Context, id string) (*model.Patient, error)
	UpdatePatient(ctx context.Context, id string, req *model.UpdatePatientRequest) (*model.Patient, error)
	DeletePatient(ctx context.Context, id string) error
}

type Service struct {
	repo      repository.PatientRepository
	apptRepo  repository.AppointmentRepository
	validator validator.Validator
	logger    *logger.Logger
	now       func() time.Time
}

func NewService(repo repository.PatientRepository, apptRepo repository.AppointmentRepository, v validator.Validator, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		apptRepo:  apptRepo,
		validator: v,
		logger:    log.Component("patients"),
		now:       time.Now,
	}
}

// ListPatients returns every patient, or the live-search matches when query
// is not blank.
func (s *Service) ListPatients(ctx context.Context, query string) ([]model.Patient, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.repo.List(ctx)
	}
	return s.repo.Search(ctx, query)
}

func (s *Service) AddPatient(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	p := &model.Patient{
		Name:      req.Name,
		Phone:     req.Phone,
		Age:       req.Age,
		Sex:       req.Sex,
		Country:   req.Country,
		State:     req.State,
		Address:   req.Address,
		Notes:     req.Notes,
		BirthDate: req.BirthDate,
		LastVisit: req.LastVisit,
	}
	s.fillAge(p)

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.logger.ZL.Info().Str("patient_id", p.ID).Msg("patient added")
	return p, nil
}

func (s *Service) GetPatient(ctx context.Context, id string) (*model.Patient, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) UpdatePatient(ctx context.Context, id string, req *model.UpdatePatientRequest) (*model.Patient, error) {
	return s.repo.Update(ctx, id, func(p *model.Patient) error {
		req.Apply(p)
		if p.Name == "" || p.Phone == "" {
			return apperrors.Validation("name and phone are required", nil)
		}
		if req.BirthDate != nil && req.Age == nil {
			p.Age = ""
		}
		s.fillAge(p)
		return nil
	})
}

// DeletePatient leaves the patient's appointments in place.
func (s *Service) DeletePatient(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	orphans, err := s.apptRepo.ListByPatient(ctx, id)
	if err != nil {
		s.logger.Error(err, "failed to count appointments of deleted patient", "patient_id", id)
		return nil
	}
	ev := s.logger.ZL.Info()
	if len(orphans) > 0 {
		ev = s.logger.ZL.Warn()
	}
	ev.Str("patient_id", id).Int("orphaned_appointments", len(orphans)).Msg("patient deleted")
	return nil
}

// fillAge derives the age from the birth date when no age was given.
func (s *Service) fillAge(p *model.Patient) {
	if p.Age != "" || p.BirthDate == "" {
		return
	}
	dob, err := calendar.ParseBirthDate(p.BirthDate)
	if err != nil {
		return
	}
	p.Age = strconv.Itoa(calendar.AgeFromBirthDate(dob, s.now()))
}
