package model

import (
	"fmt"
	"time"
)

// Reminder is emitted when an armed appointment timer fires.
type Reminder struct {
	AppointmentID string    `json:"appointment_id"`
	PatientID     string    `json:"patient_id"`
	Doctor        string    `json:"doctor"`
	Datetime      time.Time `json:"datetime"`
	FiredAt       time.Time `json:"fired_at"`
}

func NewReminder(a Appointment) Reminder {
	return Reminder{
		AppointmentID: a.ID,
		PatientID:     a.PatientID,
		Doctor:        a.Doctor,
		Datetime:      a.Datetime,
	}
}

// Text is the line shown to the user.
func (r Reminder) Text() string {
	return fmt.Sprintf("Reminder: you have an appointment with %s at %s", r.Doctor, r.Datetime.Format("2006-01-02 15:04"))
}
