package reminder

import (
	"testing"

	"github.com/mediremind/mediremind-server/cmd/models"
)

func TestFormatTimeBefore(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{5, "5 minutes before"},
		{30, "30 minutes before"},
		{59, "59 minutes before"},
		{60, "1 hour before"},
		{61, "1 hours before"},
		{90, "1 hours before"},
		{120, "2 hours before"},
		{1439, "23 hours before"},
		{1440, "1 day before"},
		{1441, "1 days before"},
		{2880, "2 days before"},
		{10080, "7 days before"},
	}

	for _, tt := range tests {
		if got := FormatTimeBefore(tt.minutes); got != tt.want {
			t.Errorf("FormatTimeBefore(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestAttach(t *testing.T) {
	first := models.Appointment{Date: "2026-03-01", Time: "09:00"}
	first.ID = 1
	second := models.Appointment{Date: "2026-03-02", Time: "10:00"}
	second.ID = 2
	appointments := []models.Appointment{first, second}

	r1 := models.Reminder{AppointmentID: 2, Type: models.ChannelEmail}
	r1.ID = 10
	r2 := models.Reminder{AppointmentID: 1, Type: models.ChannelSMS}
	r2.ID = 11
	r3 := models.Reminder{AppointmentID: 99, Type: models.ChannelWhatsApp} // orphan
	r3.ID = 12

	joined := Attach([]models.Reminder{r1, r2, r3}, appointments)

	if len(joined) != 3 {
		t.Fatalf("Attach returned %d rows, want 3", len(joined))
	}
	if joined[0].ID != 10 || joined[1].ID != 11 || joined[2].ID != 12 {
		t.Errorf("reminder order not preserved: %d %d %d", joined[0].ID, joined[1].ID, joined[2].ID)
	}
	if joined[0].Appointment == nil || joined[0].Appointment.ID != 2 {
		t.Errorf("reminder 10 joined to wrong appointment: %+v", joined[0].Appointment)
	}
	if joined[1].Appointment == nil || joined[1].Appointment.ID != 1 {
		t.Errorf("reminder 11 joined to wrong appointment: %+v", joined[1].Appointment)
	}
	if joined[2].Appointment != nil {
		t.Errorf("orphan reminder got an appointment: %+v", joined[2].Appointment)
	}
}

func TestFilterByStatus(t *testing.T) {
	pending := ReminderWithAppointment{Reminder: models.Reminder{Status: models.ReminderPending}}
	sent := ReminderWithAppointment{Reminder: models.Reminder{Status: models.ReminderSent}}
	failed := ReminderWithAppointment{Reminder: models.Reminder{Status: models.ReminderFailed}}
	all := []ReminderWithAppointment{pending, sent, failed, pending}

	if got := FilterByStatus(all, ""); len(got) != 4 {
		t.Errorf("empty filter kept %d rows, want 4", len(got))
	}
	if got := FilterByStatus(all, StatusAll); len(got) != 4 {
		t.Errorf("all filter kept %d rows, want 4", len(got))
	}
	if got := FilterByStatus(all, "pending"); len(got) != 2 {
		t.Errorf("pending filter kept %d rows, want 2", len(got))
	}
	if got := FilterByStatus(all, "failed"); len(got) != 1 {
		t.Errorf("failed filter kept %d rows, want 1", len(got))
	}
}

func TestRenderMessage(t *testing.T) {
	appointment := &models.Appointment{
		Date:    "2026-03-01",
		Time:    "09:30",
		Doctor:  &models.Doctor{Name: "Dr. Mensah"},
		Patient: &models.Patient{Name: "Ama Owusu"},
	}

	got := RenderMessage("Hi {patient_name}, you see {doctor_name} on {date} at {time}.", appointment)
	want := "Hi Ama Owusu, you see Dr. Mensah on 2026-03-01 at 09:30."
	if got != want {
		t.Errorf("RenderMessage = %q, want %q", got, want)
	}
}

func TestRenderMessageNilAppointment(t *testing.T) {
	message := "See {doctor_name} on {date}"
	if got := RenderMessage(message, nil); got != message {
		t.Errorf("RenderMessage with nil appointment = %q, want unchanged", got)
	}
}

func TestRenderMessageMissingParties(t *testing.T) {
	appointment := &models.Appointment{Date: "2026-03-01", Time: "09:30"}

	got := RenderMessage("{doctor_name}|{patient_name}", appointment)
	if got != "|" {
		t.Errorf("RenderMessage with missing parties = %q, want %q", got, "|")
	}
}
