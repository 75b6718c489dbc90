package dashboard

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/mediremind/mediremind-server/cmd/models"
	"github.com/mediremind/mediremind-server/cmd/utils"
	"github.com/mediremind/mediremind-server/service/appointment"
)

type DashboardHandler struct {
	db *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db}
}

func (h *DashboardHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/dashboard/stats", utils.AuthMiddleware(h.GetDashboardStats)).Methods("GET")
}

type DashboardStats struct {
	TotalAppointments     int                  `json:"total_appointments"`
	ScheduledAppointments int                  `json:"scheduled_appointments"`
	CompletedAppointments int                  `json:"completed_appointments"`
	CancelledAppointments int                  `json:"cancelled_appointments"`
	PendingReminders      int64                `json:"pending_reminders"`
	UpcomingAppointments  []models.Appointment `json:"upcoming_appointments"`
}

// GetDashboardStats returns the caller's home-screen summary: per-status
// appointment counts, the pending reminder count across their
// appointments, and the next scheduled appointments.
func (h *DashboardHandler) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	role, err := utils.GetRoleFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	appointments, err := appointment.ForUser(h.db, userID, role)
	if err != nil {
		http.Error(w, "Error retrieving appointments", http.StatusInternalServerError)
		return
	}

	stats := DashboardStats{
		TotalAppointments:    len(appointments),
		UpcomingAppointments: appointment.Upcoming(appointments, time.Now()),
	}

	appointmentIDs := make([]uint, 0, len(appointments))
	for _, a := range appointments {
		appointmentIDs = append(appointmentIDs, a.ID)
		switch a.Status {
		case models.AppointmentScheduled:
			stats.ScheduledAppointments++
		case models.AppointmentCompleted:
			stats.CompletedAppointments++
		case models.AppointmentCancelled:
			stats.CancelledAppointments++
		}
	}

	if len(appointmentIDs) > 0 {
		if err := h.db.Model(&models.Reminder{}).
			Where("appointment_id IN ? AND status = ?", appointmentIDs, models.ReminderPending).
			Count(&stats.PendingReminders).Error; err != nil {
			http.Error(w, "Error retrieving reminders", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
