package collection

import (
	"context"
	"fmt"
	"strings"

	"github.com/jwalitptl/clinicdesk/internal/model"
	"github.com/jwalitptl/clinicdesk/internal/repository"
	"github.com/jwalitptl/clinicdesk/internal/storage"
	apperrors "github.com/jwalitptl/clinicdesk/pkg/errors"
)

type medicationRepository struct {
	baseRepository[model.Medication]
}

func NewMedicationRepository(store *storage.Store) repository.MedicationRepository {
	col := storage.NewCollection[model.Medication](store, storage.KeyMedications, nil)
	return &medicationRepository{
		baseRepository: newBaseRepository(col, "medication", func(m *model.Medication) string { return m.ID }),
	}
}

func (r *medicationRepository) List(ctx context.Context) ([]model.Medication, error) {
	return r.list(ctx)
}

// Upsert adds the incoming stock to a same-named record and overwrites its
// expiry and supplier. The stored name keeps its original spelling.
func (r *medicationRepository) Upsert(ctx context.Context, med *model.Medication) (*model.Medication, bool, error) {
	med.Name = strings.TrimSpace(med.Name)
	if med.Stock < 0 {
		med.Stock = 0
	}

	var (
		out    model.Medication
		merged bool
	)
	err := r.col.Mutate(ctx, func(meds []model.Medication) ([]model.Medication, error) {
		for i := range meds {
			if meds[i].SameName(med.Name) {
				meds[i].Stock = meds[i].Stock.Add(med.Stock)
				meds[i].Expiry = med.Expiry
				meds[i].Supplier = med.Supplier
				out, merged = meds[i], true
				return meds, nil
			}
		}

		if med.ID == "" {
			med.ID = model.NewID(model.PrefixMedication)
		}
		out = *med
		return append(meds, *med), nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to add medication: %w", err)
	}
	return &out, merged, nil
}

func (r *medicationRepository) Get(ctx context.Context, id string) (*model.Medication, error) {
	return r.get(ctx, id)
}

func (r *medicationRepository) Update(ctx context.Context, id string, fn func(*model.Medication) error) (*model.Medication, error) {
	return r.update(ctx, id, fn, func(others []model.Medication, m *model.Medication) error {
		if m.Stock < 0 {
			m.Stock = 0
		}
		for _, o := range others {
			if o.SameName(m.Name) {
				return apperrors.DuplicateName(m.Name)
			}
		}
		return nil
	})
}

func (r *medicationRepository) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id)
}
