package reminder

import (
	"fmt"
	"strings"

	"github.com/mediremind/mediremind-server/cmd/models"
)

// StatusAll is the aggregation filter value that disables status
// filtering.
const StatusAll = "all"

// ReminderWithAppointment is a reminder joined to its parent
// appointment for display. Appointment is nil when the parent no longer
// exists; the reminder still renders without its context.
type ReminderWithAppointment struct {
	models.Reminder
	Appointment *models.Appointment `json:"appointment,omitempty"`
}

// Attach left-joins each reminder to its parent appointment by
// appointment_id, preserving reminder order. A missing parent is
// tolerated, not an error.
func Attach(reminders []models.Reminder, appointments []models.Appointment) []ReminderWithAppointment {
	byID := make(map[uint]*models.Appointment, len(appointments))
	for i := range appointments {
		byID[appointments[i].ID] = &appointments[i]
	}

	joined := make([]ReminderWithAppointment, 0, len(reminders))
	for _, rem := range reminders {
		joined = append(joined, ReminderWithAppointment{
			Reminder:    rem,
			Appointment: byID[rem.AppointmentID],
		})
	}
	return joined
}

// FilterByStatus keeps reminders whose status equals the filter,
// preserving the aggregation order. An empty filter or StatusAll keeps
// everything.
func FilterByStatus(reminders []ReminderWithAppointment, status string) []ReminderWithAppointment {
	if status == "" || status == StatusAll {
		return reminders
	}
	filtered := make([]ReminderWithAppointment, 0, len(reminders))
	for _, rem := range reminders {
		if string(rem.Status) == status {
			filtered = append(filtered, rem)
		}
	}
	return filtered
}

// FormatTimeBefore renders a reminder offset as the UI-facing phrase.
// The wording, including the singular/plural boundaries and the
// integer-division hour text (90 -> "1 hours before"), is fixed.
func FormatTimeBefore(minutes int) string {
	switch {
	case minutes < 60:
		return fmt.Sprintf("%d minutes before", minutes)
	case minutes == 60:
		return "1 hour before"
	case minutes < 1440:
		return fmt.Sprintf("%d hours before", minutes/60)
	case minutes == 1440:
		return "1 day before"
	default:
		return fmt.Sprintf("%d days before", minutes/1440)
	}
}

// RenderMessage substitutes the supported placeholders from the parent
// appointment's denormalized snapshot. A nil appointment returns the
// message unchanged.
func RenderMessage(message string, appointment *models.Appointment) string {
	if appointment == nil {
		return message
	}

	doctorName := ""
	if appointment.Doctor != nil {
		doctorName = appointment.Doctor.Name
	}
	patientName := ""
	if appointment.Patient != nil {
		patientName = appointment.Patient.Name
	}

	replacer := strings.NewReplacer(
		"{doctor_name}", doctorName,
		"{patient_name}", patientName,
		"{date}", appointment.Date,
		"{time}", appointment.Time,
	)
	return replacer.Replace(message)
}
