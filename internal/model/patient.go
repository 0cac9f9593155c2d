package model

import (
	"strings"
	"time"
)

type Patient struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Age       string    `json:"age,omitempty"`
	Sex       string    `json:"sex,omitempty"`
	Country   string    `json:"country,omitempty"`
	State     string    `json:"state,omitempty"`
	Address   string    `json:"address,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	BirthDate string    `json:"birth_date,omitempty"`
	LastVisit string    `json:"last_visit,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Collides reports whether p and other would violate patient uniqueness:
// same phone, or same name ignoring case.
func (p Patient) Collides(other Patient) bool {
	return p.Phone == other.Phone || strings.EqualFold(p.Name, other.Name)
}

// Matches implements the front-desk live search: name substring ignoring
// case, or phone substring.
func (p Patient) Matches(query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), strings.ToLower(query)) ||
		strings.Contains(p.Phone, query)
}

type CreatePatientRequest struct {
	Name      string `json:"name" binding:"required" validate:"required"`
	Phone     string `json:"phone" binding:"required" validate:"required"`
	Age       string `json:"age"`
	Sex       string `json:"sex"`
	Country   string `json:"country"`
	State     string `json:"state"`
	Address   string `json:"address"`
	Notes     string `json:"notes"`
	BirthDate string `json:"birth_date"`
	LastVisit string `json:"last_visit"`
}

type UpdatePatientRequest struct {
	Name      *string `json:"name"`
	Phone     *string `json:"phone"`
	Age       *string `json:"age"`
	Sex       *string `json:"sex"`
	Country   *string `json:"country"`
	State     *string `json:"state"`
	Address   *string `json:"address"`
	Notes     *string `json:"notes"`
	BirthDate *string `json:"birth_date"`
	LastVisit *string `json:"last_visit"`
}

// Apply copies every set field onto p.
func (r UpdatePatientRequest) Apply(p *Patient) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&p.Name, r.Name)
	set(&p.Phone, r.Phone)
	set(&p.Age, r.Age)
	set(&p.Sex, r.Sex)
	set(&p.Country, r.Country)
	set(&p.State, r.State)
	set(&p.Address, r.Address)
	set(&p.Notes, r.Notes)
	set(&p.BirthDate, r.BirthDate)
	set(&p.LastVisit, r.LastVisit)
}
