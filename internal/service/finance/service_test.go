package finance

import (
	"bytes"
	"context"
	"testing"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinicdesk/internal/model"
	"github.com/jwalitptl/clinicdesk/internal/repository/collection"
	"github.com/jwalitptl/clinicdesk/internal/storage"
	apperrors "github.com/jwalitptl/clinicdesk/pkg/errors"
	"github.com/jwalitptl/clinicdesk/pkg/logger"
	"github.com/jwalitptl/clinicdesk/pkg/metrics"
	"github.com/jwalitptl/clinicdesk/pkg/validator"
)

func newService(t *testing.T) *Service {
	t.Helper()
	store := storage.NewStore(storage.NewMemoryBackend(), logger.Nop(), metrics.NewNop())
	return NewService(collection.NewFinanceRepository(store), validator.New(), logger.Nop())
}

func TestAddRecord_Validation(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.AddRecord(ctx, &model.AddFinanceRequest{Description: "", Amount: 10})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.AddRecord(ctx, &model.AddFinanceRequest{Description: "rent", Amount: 0})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	rec, err := svc.AddRecord(ctx, &model.AddFinanceRequest{Description: "visit", Amount: 150})
	require.NoError(t, err)
	assert.Equal(t, model.FinanceTypeIncome, rec.Type)
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	for _, req := range []model.AddFinanceRequest{
		{Description: "visit", Amount: 200, Type: model.FinanceTypeIncome},
		{Description: "visit", Amount: 100, Type: model.FinanceTypeIncome},
		{Description: "gloves", Amount: 50, Type: model.FinanceTypeExpense},
	} {
		req := req
		_, err := svc.AddRecord(ctx, &req)
		require.NoError(t, err)
	}

	sum, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Count)
	assert.Equal(t, 300.0, sum.Totals[model.FinanceTypeIncome])
	assert.Equal(t, 50.0, sum.Totals[model.FinanceTypeExpense])
	assert.Equal(t, 250.0, sum.Balance)
}

func TestExportXLSX(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	_, err := svc.AddRecord(ctx, &model.AddFinanceRequest{Description: "visit", Amount: 200, Type: model.FinanceTypeIncome})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportXLSX(ctx, &buf))

	file, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, "Description", file.GetCellValue(exportSheet, "B1"))
	assert.Equal(t, "visit", file.GetCellValue(exportSheet, "B2"))
	assert.Equal(t, "income", file.GetCellValue(exportSheet, "D2"))
}
