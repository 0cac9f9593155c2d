package finance

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/360EntSecGroup-Skylar/excelize"

	"github.com/jwalitptl/clinicdesk/internal/model"
	"github.com/jwalitptl/clinicdesk/internal/repository"
	"github.com/jwalitptl/clinicdesk/pkg/logger"
	"github.com/jwalitptl/clinicdesk/pkg/validator"
)

const exportSheet = "Finance"

type FinanceServicer interface {
	ListRecords(ctx context.Context) ([]model.FinanceRecord, error)
	AddRecord(ctx context.Context, req *model.AddFinanceRequest) (*model.FinanceRecord, error)
	DeleteRecord(ctx context.Context, id string) error
	Summary(ctx context.Context) (*model.FinanceSummary, error)
	ExportXLSX(ctx context.Context, w io.Writer) error
}

type Service struct {
	repo      repository.FinanceRepository
	validator validator.Validator
	logger    *logger.Logger
}

func NewService(repo repository.FinanceRepository, v validator.Validator, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		validator: v,
		logger:    log.Component("finance"),
	}
}

func (s *Service) ListRecords(ctx context.Context) ([]model.FinanceRecord, error) {
	return s.repo.List(ctx)
}

// AddRecord needs a description and a non-zero amount. A blank type is
// recorded as income.
func (s *Service) AddRecord(ctx context.Context, req *model.AddFinanceRequest) (*model.FinanceRecord, error) {
	req.Description = strings.TrimSpace(req.Description)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	kind := strings.TrimSpace(req.Type)
	if kind == "" {
		kind = model.FinanceTypeIncome
	}

	rec := &model.FinanceRecord{
		Description: req.Description,
		Amount:      req.Amount,
		Type:        kind,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	s.logger.ZL.Info().Str("record_id", rec.ID).Float64("amount", rec.Amount).Str("type", rec.Type).Msg("finance record added")
	return rec, nil
}

func (s *Service) DeleteRecord(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.ZL.Info().Str("record_id", id).Msg("finance record deleted")
	return nil
}

// Summary totals amounts per type. Expenses count against the balance,
// every other type for it.
func (s *Service) Summary(ctx context.Context) (*model.FinanceSummary, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	sum := &model.FinanceSummary{Totals: make(map[string]float64)}
	for _, r := range records {
		sum.Totals[r.Type] += r.Amount
		if r.Type == model.FinanceTypeExpense {
			sum.Balance -= r.Amount
		} else {
			sum.Balance += r.Amount
		}
	}
	sum.Count = len(records)
	return sum, nil
}

// ExportXLSX writes every record as one spreadsheet row.
func (s *Service) ExportXLSX(ctx context.Context, w io.Writer) error {
	records, err := s.repo.List(ctx)
	if err != nil {
		return err
	}

	headers := map[string]string{
		"A1": "Date",
		"B1": "Description",
		"C1": "Amount",
		"D1": "Type",
	}
	file := excelize.NewFile()
	file.NewSheet(exportSheet)
	file.DeleteSheet("Sheet1")
	for k, v := range headers {
		file.SetCellValue(exportSheet, k, v)
	}

	for i, r := range records {
		row := i + 2
		file.SetCellValue(exportSheet, fmt.Sprintf("A%d", row), r.When.Format("2006-01-02 15:04"))
		file.SetCellValue(exportSheet, fmt.Sprintf("B%d", row), r.Description)
		file.SetCellValue(exportSheet, fmt.Sprintf("C%d", row), r.Amount)
		file.SetCellValue(exportSheet, fmt.Sprintf("D%d", row), r.Type)
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return nil
}
