package collection

import (
	"context"
	"time"

	"github.com/jwalitptl/clinicdesk/internal/model"
	"github.com/jwalitptl/clinicdesk/internal/repository"
	"github.com/jwalitptl/clinicdesk/internal/storage"
	apperrors "github.com/jwalitptl/clinicdesk/pkg/errors"
)

type patientRepository struct {
	baseRepository[model.Patient]
}

func NewPatientRepository(store *storage.Store) repository.PatientRepository {
	col := storage.NewCollection[model.Patient](store, storage.KeyPatients, nil)
	return &patientRepository{
		baseRepository: newBaseRepository(col, "patient", func(p *model.Patient) string { return p.ID }),
	}
}

func checkPatientUnique(others []model.Patient, p *model.Patient) error {
	for _, o := range others {
		if o.Collides(*p) {
			return apperrors.DuplicatePatient(p.Name, p.Phone)
		}
	}
	return nil
}

func (r *patientRepository) List(ctx context.Context) ([]model.Patient, error) {
	return r.list(ctx)
}

func (r *patientRepository) Search(ctx context.Context, query string) ([]model.Patient, error) {
	patients, err := r.list(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]model.Patient, 0, len(patients))
	for _, p := range patients {
		if p.Matches(query) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	if patient.ID == "" {
		patient.ID = model.NewID(model.PrefixPatient)
	}
	patient.CreatedAt = time.Now()
	return r.create(ctx, patient, func(patients []model.Patient) error {
		return checkPatientUnique(patients, patient)
	})
}

func (r *patientRepository) Get(ctx context.Context, id string) (*model.Patient, error) {
	return r.get(ctx, id)
}

func (r *patientRepository) Update(ctx context.Context, id string, fn func(*model.Patient) error) (*model.Patient, error) {
	return r.update(ctx, id, fn, checkPatientUnique)
}

func (r *patientRepository) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id)
}
