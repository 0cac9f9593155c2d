package repository

import (
	"context"

	"github.com/jwalitptl/clinicdesk/internal/model"
)

// All repository interfaces in one file. Get, Update and Delete return an
// errors.CodeNotFound error for an unknown id. Update mutators run against a
// copy of the stored record; returning an error aborts the write.
type (
	UserRepository interface {
		List(ctx context.Context) ([]model.User, error)
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id string) (*model.User, error)
		GetByName(ctx context.Context, name string) (*model.User, error)
		Update(ctx context.Context, id string, fn func(*model.User) error) (*model.User, error)
		Delete(ctx context.Context, id string) error
	}

	PatientRepository interface {
		List(ctx context.Context) ([]model.Patient, error)
		Search(ctx context.Context, query string) ([]model.Patient, error)
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id string) (*model.Patient, error)
		Update(ctx context.Context, id string, fn func(*model.Patient) error) (*model.Patient, error)
		Delete(ctx context.Context, id string) error
	}

	AppointmentRepository interface {
		List(ctx context.Context) ([]model.Appointment, error)
		ListByPatient(ctx context.Context, patientID string) ([]model.Appointment, error)
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id string) (*model.Appointment, error)
		Update(ctx context.Context, id string, fn func(*model.Appointment) error) (*model.Appointment, error)
		Delete(ctx context.Context, id string) error
	}

	MedicationRepository interface {
		List(ctx context.Context) ([]model.Medication, error)
		// Upsert merges into an existing record with the same name ignoring
		// case, or appends a new one. It returns the stored record and whether
		// a merge happened.
		Upsert(ctx context.Context, med *model.Medication) (*model.Medication, bool, error)
		Get(ctx context.Context, id string) (*model.Medication, error)
		Update(ctx context.Context, id string, fn func(*model.Medication) error) (*model.Medication, error)
		Delete(ctx context.Context, id string) error
	}

	FinanceRepository interface {
		List(ctx context.Context) ([]model.FinanceRecord, error)
		Create(ctx context.Context, record *model.FinanceRecord) error
		Get(ctx context.Context, id string) (*model.FinanceRecord, error)
		Delete(ctx context.Context, id string) error
	}
)
