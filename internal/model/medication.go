package model

import "strings"

type Medication struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Stock    Quantity `json:"stock"`
	Expiry   string   `json:"exp,omitempty"`
	Supplier string   `json:"supplier,omitempty"`
}

// SameName compares medication names ignoring case.
func (m Medication) SameName(name string) bool {
	return strings.EqualFold(m.Name, name)
}

type AddMedicationRequest struct {
	Name     string   `json:"name" binding:"required" validate:"required"`
	Stock    Quantity `json:"stock"`
	Expiry   string   `json:"exp"`
	Supplier string   `json:"supplier"`
}

type UpdateMedicationRequest struct {
	Name     *string   `json:"name"`
	Stock    *Quantity `json:"stock"`
	Expiry   *string   `json:"exp"`
	Supplier *string   `json:"supplier"`
}

func (r UpdateMedicationRequest) Apply(m *Medication) {
	if r.Name != nil {
		m.Name = strings.TrimSpace(*r.Name)
	}
	if r.Stock != nil {
		m.Stock = *r.Stock
		if m.Stock < 0 {
			m.Stock = 0
		}
	}
	if r.Expiry != nil {
		m.Expiry = *r.Expiry
	}
	if r.Supplier != nil {
		m.Supplier = *r.Supplier
	}
}
