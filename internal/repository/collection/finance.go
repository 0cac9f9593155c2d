package collection

import (
	"context"
	"time"

	"github.com/jwalitptl/clinicdesk/internal/model"
	"github.com/jwalitptl/clinicdesk/internal/repository"
	"github.com/jwalitptl/clinicdesk/internal/storage"
)

type financeRepository struct {
	baseRepository[model.FinanceRecord]
}

func NewFinanceRepository(store *storage.Store) repository.FinanceRepository {
	col := storage.NewCollection[model.FinanceRecord](store, storage.KeyFinance, nil)
	return &financeRepository{
		baseRepository: newBaseRepository(col, "finance record", func(f *model.FinanceRecord) string { return f.ID }),
	}
}

func (r *financeRepository) List(ctx context.Context) ([]model.FinanceRecord, error) {
	return r.list(ctx)
}

func (r *financeRepository) Create(ctx context.Context, record *model.FinanceRecord) error {
	if record.ID == "" {
		record.ID = model.NewID(model.PrefixFinance)
	}
	if record.When.IsZero() {
		record.When = time.Now()
	}
	return r.create(ctx, record, nil)
}

func (r *financeRepository) Get(ctx context.Context, id string) (*model.FinanceRecord, error) {
	return r.get(ctx, id)
}

func (r *financeRepository) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id)
}
