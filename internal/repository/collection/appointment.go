package collection

import (
	"context"
	"time"

	"github.com/jwalitptl/clinicdesk/internal/model"
	"github.com/jwalitptl/clinicdesk/internal/repository"
	"github.com/jwalitptl/clinicdesk/internal/storage"
)

type appointmentRepository struct {
	baseRepository[model.Appointment]
}

func NewAppointmentRepository(store *storage.Store) repository.AppointmentRepository {
	col := storage.NewCollection[model.Appointment](store, storage.KeyAppointments, nil)
	return &appointmentRepository{
		baseRepository: newBaseRepository(col, "appointment", func(a *model.Appointment) string { return a.ID }),
	}
}

func (r *appointmentRepository) List(ctx context.Context) ([]model.Appointment, error) {
	return r.list(ctx)
}

func (r *appointmentRepository) ListByPatient(ctx context.Context, patientID string) ([]model.Appointment, error) {
	appts, err := r.list(ctx)
	if err != nil {
		return nil, err
	}
	var out []model.Appointment
	for _, a := range appts {
		if a.PatientID == patientID {
			out = append(out, a)
		}
	}
	return out, nil
}

// Create always stores a new appointment as scheduled.
func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	if appointment.ID == "" {
		appointment.ID = model.NewID(model.PrefixAppointment)
	}
	appointment.Status = model.AppointmentStatusScheduled
	appointment.CreatedAt = time.Now()
	return r.create(ctx, appointment, nil)
}

func (r *appointmentRepository) Get(ctx context.Context, id string) (*model.Appointment, error) {
	return r.get(ctx, id)
}

func (r *appointmentRepository) Update(ctx context.Context, id string, fn func(*model.Appointment) error) (*model.Appointment, error) {
	return r.update(ctx, id, fn, nil)
}

func (r *appointmentRepository) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id)
}
