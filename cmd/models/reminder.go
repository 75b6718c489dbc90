package models

import (
	"gorm.io/gorm"
)

type ReminderChannel string

const (
	ChannelSMS      ReminderChannel = "sms"
	ChannelWhatsApp ReminderChannel = "whatsapp"
	ChannelEmail    ReminderChannel = "email"
)

func (c ReminderChannel) Valid() bool {
	switch c {
	case ChannelSMS, ChannelWhatsApp, ChannelEmail:
		return true
	}
	return false
}

type ReminderStatus string

const (
	ReminderPending ReminderStatus = "pending"
	ReminderSent    ReminderStatus = "sent"
	ReminderFailed  ReminderStatus = "failed"
)

func (s ReminderStatus) Valid() bool {
	switch s {
	case ReminderPending, ReminderSent, ReminderFailed:
		return true
	}
	return false
}

type RecipientType string

const (
	RecipientDoctor  RecipientType = "doctor"
	RecipientPatient RecipientType = "patient"
	RecipientBoth    RecipientType = "both"
)

func (t RecipientType) Valid() bool {
	switch t {
	case RecipientDoctor, RecipientPatient, RecipientBoth:
		return true
	}
	return false
}

// Reminder is a configured notification instruction tied to exactly one
// appointment. It records configuration only; the status transitions
// pending -> sent and pending -> failed are performed by an external
// delivery process. The message may embed the placeholders
// {doctor_name}, {patient_name}, {date} and {time}.
//
// There is deliberately no gorm association back to Appointment here:
// deleting an appointment leaves its reminders in place, and the
// aggregation layer joins them tolerantly instead.
type Reminder struct {
	gorm.Model
	AppointmentID uint            `gorm:"column:appointment_id;not null;index" json:"appointment_id"`
	Type          ReminderChannel `gorm:"column:type;size:20;not null" json:"type"`
	TimeBefore    int             `gorm:"column:time_before;not null" json:"time_before"`
	Message       string          `gorm:"column:message;type:text;not null" json:"message"`
	Status        ReminderStatus  `gorm:"column:status;size:20;not null;default:pending" json:"status"`
	RecipientType RecipientType   `gorm:"column:recipient_type;size:20;not null" json:"recipient_type"`
}
