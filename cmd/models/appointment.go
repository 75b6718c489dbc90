package models

import (
	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentScheduled, AppointmentCompleted, AppointmentCancelled:
		return true
	}
	return false
}

// Appointment is a single scheduled visit between one doctor and one
// patient. Date and Time are stored exactly as the client supplies them:
// a zero-padded ISO calendar day ("2006-01-02") and a zero-padded 24-hour
// clock time ("15:04"). Keeping the wire format makes lexicographic
// ordering of Time valid and the calendar-day equality filter exact.
type Appointment struct {
	gorm.Model
	DoctorID  uint              `gorm:"column:doctor_id;not null;index" json:"doctor_id"`
	PatientID uint              `gorm:"column:patient_id;not null;index" json:"patient_id"`
	Date      string            `gorm:"column:date;size:10;not null" json:"date"`
	Time      string            `gorm:"column:time;size:5;not null" json:"time"`
	Duration  int               `gorm:"column:duration;not null" json:"duration"`
	Status    AppointmentStatus `gorm:"column:status;size:20;not null;default:scheduled" json:"status"`
	Notes     string            `gorm:"column:notes;type:text" json:"notes,omitempty"`

	Doctor  *Doctor  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Patient *Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}
