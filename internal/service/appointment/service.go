package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/jwalitptl/clinicdesk/internal/model"
	"github.com/jwalitptl/clinicdesk/internal/repository"
	apperrors "github.com/jwalitptl/clinicdesk/pkg/errors"
	"github.com/jwalitptl/clinicdesk/pkg/logger"
	"github.com/jwalitptl/clinicdesk/pkg/validator"
)

// Reminders is the part of the reminder scheduler bookings talk to.
type Reminders interface {
	Arm(a model.Appointment) bool
	Discard(appointmentID string) bool
}

type AppointmentServicer interface {
	BookAppointment(ctx context.Context, req *model.BookAppointmentRequest) (*model.Appointment, error)
	CancelAppointment(ctx context.Context, id string) (*model.Appointment, error)
	GetAppointment(ctx context.Context, id string) (*model.Appointment, error)
	ListAppointments(ctx context.Context) ([]model.AppointmentListing, error)
	DeleteAppointment(ctx context.Context, id string) error
}

type Config struct {
	// DiscardOnCancel stops a pending reminder when its appointment is
	// cancelled. Off by default: cancelled appointments still remind.
	DiscardOnCancel bool
	// Location reads datetimes that carry no zone.
	Location *time.Location
}

type Service struct {
	repo        repository.AppointmentRepository
	patientRepo repository.PatientRepository
	reminders   Reminders
	validator   validator.Validator
	config      Config
	logger      *logger.Logger
}

func NewService(repo repository.AppointmentRepository, patientRepo repository.PatientRepository,
	reminders Reminders, v validator.Validator, cfg Config, log *logger.Logger) *Service {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &Service{
		repo:        repo,
		patientRepo: patientRepo,
		reminders:   reminders,
		validator:   v,
		config:      cfg,
		logger:      log.Component("appointments"),
	}
}

// BookAppointment stores a scheduled appointment for a known patient and arms
// its reminder. Overlapping bookings are allowed.
func (s *Service) BookAppointment(ctx context.Context, req *model.BookAppointmentRequest) (*model.Appointment, error) {
	req.PatientID = strings.TrimSpace(req.PatientID)
	req.Datetime = strings.TrimSpace(req.Datetime)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.patientRepo.Get(ctx, req.PatientID); err != nil {
		return nil, err
	}

	at, err := model.ParseDateTime(req.Datetime, s.config.Location)
	if err != nil {
		return nil, apperrors.Validation("datetime is invalid", err)
	}

	appt := &model.Appointment{
		PatientID: req.PatientID,
		Doctor:    strings.TrimSpace(req.Doctor),
		Datetime:  at,
		Reason:    req.Reason,
	}
	if err := s.repo.Create(ctx, appt); err != nil {
		return nil, err
	}

	armed := s.reminders.Arm(*appt)
	s.logger.ZL.Info().
		Str("appointment_id", appt.ID).
		Str("patient_id", appt.PatientID).
		Time("datetime", appt.Datetime).
		Bool("reminder_armed", armed).
		Msg("appointment booked")
	return appt, nil
}

// CancelAppointment marks the appointment cancelled whatever its status.
func (s *Service) CancelAppointment(ctx context.Context, id string) (*model.Appointment, error) {
	appt, err := s.repo.Update(ctx, id, func(a *model.Appointment) error {
		a.Status = model.AppointmentStatusCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}

	discarded := false
	if s.config.DiscardOnCancel {
		discarded = s.reminders.Discard(id)
	}
	s.logger.ZL.Info().Str("appointment_id", id).Bool("reminder_discarded", discarded).Msg("appointment cancelled")
	return appt, nil
}

func (s *Service) GetAppointment(ctx context.Context, id string) (*model.Appointment, error) {
	return s.repo.Get(ctx, id)
}

// ListAppointments joins each appointment with its patient. Appointments of
// deleted patients are listed with an empty patient name.
func (s *Service) ListAppointments(ctx context.Context) ([]model.AppointmentListing, error) {
	appts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	patients, err := s.patientRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]model.Patient, len(patients))
	for _, p := range patients {
		byID[p.ID] = p
	}

	out := make([]model.AppointmentListing, 0, len(appts))
	for _, a := range appts {
		l := model.AppointmentListing{Appointment: a}
		if p, ok := byID[a.PatientID]; ok {
			l.PatientName = p.Name
			l.PatientPhone = p.Phone
		}
		out = append(out, l)
	}
	return out, nil
}

func (s *Service) DeleteAppointment(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.config.DiscardOnCancel {
		s.reminders.Discard(id)
	}
	s.logger.ZL.Info().Str("appointment_id", id).Msg("appointment deleted")
	return nil
}

// ArmUpcoming arms reminders for scheduled appointments that have come
// within the reminder window since they were booked. It returns how many
// were newly armed.
func (s *Service) ArmUpcoming(ctx context.Context) (int, error) {
	appts, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	armed := 0
	for _, a := range appts {
		if a.Status == model.AppointmentStatusScheduled && s.reminders.Arm(a) {
			armed++
		}
	}
	return armed, nil
}
