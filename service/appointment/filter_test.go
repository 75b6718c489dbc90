package appointment

import (
	"testing"
	"time"

	"github.com/mediremind/mediremind-server/cmd/models"
)

func makeAppointment(id uint, date, clock string, status models.AppointmentStatus) models.Appointment {
	a := models.Appointment{
		Date:   date,
		Time:   clock,
		Status: status,
	}
	a.ID = id
	return a
}

func ids(appointments []models.Appointment) []uint {
	out := make([]uint, 0, len(appointments))
	for _, a := range appointments {
		out = append(out, a.ID)
	}
	return out
}

func equalIDs(a, b []uint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilter(t *testing.T) {
	appointments := []models.Appointment{
		makeAppointment(1, "2026-03-02", "14:00", models.AppointmentScheduled),
		makeAppointment(2, "2026-03-01", "09:30", models.AppointmentCompleted),
		makeAppointment(3, "2026-03-01", "08:00", models.AppointmentScheduled),
		makeAppointment(4, "2026-03-02", "08:00", models.AppointmentCancelled),
		makeAppointment(5, "2026-03-01", "09:30", models.AppointmentScheduled),
	}

	tests := []struct {
		name   string
		date   string
		status string
		want   []uint
	}{
		{
			name: "no filters sorts everything by date then time",
			want: []uint{3, 2, 5, 4, 1},
		},
		{
			name: "date filter keeps only that calendar day",
			date: "2026-03-01",
			want: []uint{3, 2, 5},
		},
		{
			name:   "status filter keeps only that status",
			status: "scheduled",
			want:   []uint{3, 5, 1},
		},
		{
			name:   "all status behaves like no status filter",
			status: StatusAll,
			want:   []uint{3, 2, 5, 4, 1},
		},
		{
			name:   "date and status combine",
			date:   "2026-03-01",
			status: "completed",
			want:   []uint{2},
		},
		{
			name: "date with no matches yields empty",
			date: "2026-04-15",
			want: []uint{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(appointments, tt.date, tt.status)
			if !equalIDs(ids(got), tt.want) {
				t.Errorf("Filter(%q, %q) = %v, want %v", tt.date, tt.status, ids(got), tt.want)
			}
		})
	}
}

func TestFilterIsStableForEqualStarts(t *testing.T) {
	appointments := []models.Appointment{
		makeAppointment(10, "2026-03-01", "09:30", models.AppointmentScheduled),
		makeAppointment(11, "2026-03-01", "09:30", models.AppointmentScheduled),
		makeAppointment(12, "2026-03-01", "09:30", models.AppointmentScheduled),
	}

	got := Filter(appointments, "", "")
	if !equalIDs(ids(got), []uint{10, 11, 12}) {
		t.Errorf("equal starts reordered: got %v", ids(got))
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	appointments := []models.Appointment{
		makeAppointment(1, "2026-03-02", "14:00", models.AppointmentScheduled),
		makeAppointment(2, "2026-03-01", "09:30", models.AppointmentScheduled),
	}

	Filter(appointments, "", "")

	if !equalIDs(ids(appointments), []uint{1, 2}) {
		t.Errorf("input slice reordered: got %v", ids(appointments))
	}
}

func TestFilterIdempotent(t *testing.T) {
	appointments := []models.Appointment{
		makeAppointment(1, "2026-03-02", "14:00", models.AppointmentScheduled),
		makeAppointment(2, "2026-03-01", "09:30", models.AppointmentCompleted),
		makeAppointment(3, "2026-03-01", "08:00", models.AppointmentScheduled),
	}

	once := Filter(appointments, "2026-03-01", "scheduled")
	twice := Filter(once, "2026-03-01", "scheduled")
	if !equalIDs(ids(once), ids(twice)) {
		t.Errorf("second application changed the result: %v vs %v", ids(once), ids(twice))
	}
}

func TestUpcoming(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.Local)

	appointments := []models.Appointment{
		makeAppointment(1, "2026-03-01", "11:00", models.AppointmentScheduled), // past
		makeAppointment(2, "2026-03-01", "12:00", models.AppointmentScheduled), // exactly now
		makeAppointment(3, "2026-03-01", "13:00", models.AppointmentCompleted), // wrong status
		makeAppointment(4, "2026-03-02", "09:00", models.AppointmentScheduled),
		makeAppointment(5, "2026-03-01", "14:00", models.AppointmentScheduled),
	}

	got := Upcoming(appointments, now)
	if !equalIDs(ids(got), []uint{5, 4}) {
		t.Errorf("Upcoming = %v, want [5 4]", ids(got))
	}
}

func TestUpcomingCapsAtLimit(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local)

	var appointments []models.Appointment
	for i := 1; i <= 8; i++ {
		appointments = append(appointments, makeAppointment(uint(i), "2026-03-02", "09:00", models.AppointmentScheduled))
	}

	got := Upcoming(appointments, now)
	if len(got) != UpcomingLimit {
		t.Errorf("Upcoming returned %d appointments, want %d", len(got), UpcomingLimit)
	}
}

func TestUpcomingSkipsUnparsableRows(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local)

	appointments := []models.Appointment{
		makeAppointment(1, "not-a-date", "09:00", models.AppointmentScheduled),
		makeAppointment(2, "2026-03-02", "bad", models.AppointmentScheduled),
		makeAppointment(3, "2026-03-02", "09:00", models.AppointmentScheduled),
	}

	got := Upcoming(appointments, now)
	if !equalIDs(ids(got), []uint{3}) {
		t.Errorf("Upcoming = %v, want [3]", ids(got))
	}
}
