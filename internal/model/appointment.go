package model

import (
	"time"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

type Appointment struct {
	ID        string            `json:"id"`
	PatientID string            `json:"patient_id"`
	Doctor    string            `json:"doctor"`
	Datetime  time.Time         `json:"datetime"`
	Reason    string            `json:"reason,omitempty"`
	Status    AppointmentStatus `json:"status"`
	CreatedAt time.Time         `json:"created"`
}

// BookAppointmentRequest carries the booking form. Datetime is the raw form
// value; see ParseDateTime for accepted layouts.
type BookAppointmentRequest struct {
	PatientID string `json:"patient_id" binding:"required" validate:"required"`
	Datetime  string `json:"datetime" binding:"required" validate:"required"`
	Doctor    string `json:"doctor"`
	Reason    string `json:"reason"`
}

// AppointmentListing is an appointment joined with its patient for display.
// PatientName is empty when the patient no longer exists.
type AppointmentListing struct {
	Appointment
	PatientName  string `json:"patient_name"`
	PatientPhone string `json:"patient_phone"`
}
