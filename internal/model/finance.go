package model

import "time"

// Finance record types used by the front desk. Type is free-form; these are
// the values the form offers.
const (
	FinanceTypeIncome  = "income"
	FinanceTypeExpense = "expense"
)

type FinanceRecord struct {
	ID          string    `json:"id"`
	Description string    `json:"desc"`
	Amount      float64   `json:"amount"`
	Type        string    `json:"type"`
	When        time.Time `json:"when"`
}

type AddFinanceRequest struct {
	Description string  `json:"desc" binding:"required" validate:"required"`
	Amount      float64 `json:"amount" validate:"nonzero"`
	Type        string  `json:"type"`
}

// FinanceSummary totals amounts per record type.
type FinanceSummary struct {
	Totals  map[string]float64 `json:"totals"`
	Balance float64            `json:"balance"`
	Count   int                `json:"count"`
}
