package appointment

import (
	"sort"
	"time"

	"github.com/mediremind/mediremind-server/cmd/models"
)

// StatusAll is the listing tab value that disables status filtering.
const StatusAll = "all"

// UpcomingLimit caps the dashboard summary view.
const UpcomingLimit = 5

// Filter returns the appointments matching the selected calendar day and
// status tab, ordered ascending by (date, time). An empty date means no
// date filter; an empty status or StatusAll means no status filter.
//
// Date is compared as an exact calendar day and time lexicographically,
// which is a valid chronological order because both are stored
// zero-padded ("2006-01-02", "15:04"). The input slice is never
// mutated.
func Filter(appointments []models.Appointment, date string, status string) []models.Appointment {
	filtered := make([]models.Appointment, 0, len(appointments))
	for _, a := range appointments {
		if date != "" && a.Date != date {
			continue
		}
		if status != "" && status != StatusAll && string(a.Status) != status {
			continue
		}
		filtered = append(filtered, a)
	}

	sortByStart(filtered)
	return filtered
}

// Upcoming returns at most UpcomingLimit scheduled appointments whose
// start instant is strictly after now, ascending by (date, time).
// Appointments whose date or time does not parse are excluded rather
// than treated as an error.
func Upcoming(appointments []models.Appointment, now time.Time) []models.Appointment {
	upcoming := make([]models.Appointment, 0)
	for _, a := range appointments {
		if a.Status != models.AppointmentScheduled {
			continue
		}
		start, ok := startsAt(a)
		if !ok || !start.After(now) {
			continue
		}
		upcoming = append(upcoming, a)
	}

	sortByStart(upcoming)
	if len(upcoming) > UpcomingLimit {
		upcoming = upcoming[:UpcomingLimit]
	}
	return upcoming
}

func sortByStart(appointments []models.Appointment) {
	sort.SliceStable(appointments, func(i, j int) bool {
		if appointments[i].Date != appointments[j].Date {
			return appointments[i].Date < appointments[j].Date
		}
		return appointments[i].Time < appointments[j].Time
	})
}

// startsAt combines the stored calendar day and clock time into the
// single start instant they define.
func startsAt(a models.Appointment) (time.Time, bool) {
	start, err := time.ParseInLocation("2006-01-02 15:04", a.Date+" "+a.Time, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return start, true
}
