package appointment

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/mediremind/mediremind-server/cmd/models"
	"github.com/mediremind/mediremind-server/cmd/utils"
)

type AppointmentHandler struct {
	db *gorm.DB
}

func NewAppointmentHandler(db *gorm.DB) *AppointmentHandler {
	return &AppointmentHandler{db: db}
}

func (h *AppointmentHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/appointments", utils.AuthMiddleware(h.CreateAppointment)).Methods("POST")
	router.HandleFunc("/appointments", utils.AuthMiddleware(h.GetAppointments)).Methods("GET")
	router.HandleFunc("/appointments/upcoming", utils.AuthMiddleware(h.GetUpcomingAppointments)).Methods("GET")
	router.HandleFunc("/appointments/{id}", utils.AuthMiddleware(h.GetAppointment)).Methods("GET")
	router.HandleFunc("/appointments/{id}", utils.AuthMiddleware(h.UpdateAppointment)).Methods("PUT")
	router.HandleFunc("/appointments/{id}", utils.AuthMiddleware(h.DeleteAppointment)).Methods("DELETE")
	router.HandleFunc("/appointments/{id}/status", utils.AuthMiddleware(h.UpdateAppointmentStatus)).Methods("PATCH")
}

// CreateAppointment books a new appointment between one doctor and one
// patient. Status defaults to scheduled.
func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var createRequest struct {
		DoctorID  uint   `json:"doctor_id"`
		PatientID uint   `json:"patient_id"`
		Date      string `json:"date"`
		Time      string `json:"time"`
		Duration  int    `json:"duration"`
		Notes     string `json:"notes"`
		Status    string `json:"status"`
	}

	if err := json.NewDecoder(r.Body).Decode(&createRequest); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if msg := validateSchedule(createRequest.Date, createRequest.Time, createRequest.Duration); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	status := models.AppointmentScheduled
	if createRequest.Status != "" {
		status = models.AppointmentStatus(createRequest.Status)
		if !status.Valid() {
			http.Error(w, "Invalid status", http.StatusBadRequest)
			return
		}
	}

	var doctor models.Doctor
	if err := h.db.First(&doctor, createRequest.DoctorID).Error; err != nil {
		http.Error(w, "Doctor not found", http.StatusNotFound)
		return
	}

	var patient models.Patient
	if err := h.db.First(&patient, createRequest.PatientID).Error; err != nil {
		http.Error(w, "Patient not found", http.StatusNotFound)
		return
	}

	appointment := models.Appointment{
		DoctorID:  createRequest.DoctorID,
		PatientID: createRequest.PatientID,
		Date:      createRequest.Date,
		Time:      createRequest.Time,
		Duration:  createRequest.Duration,
		Status:    status,
		Notes:     createRequest.Notes,
	}

	if err := h.db.Create(&appointment).Error; err != nil {
		http.Error(w, "Error creating appointment", http.StatusInternalServerError)
		return
	}

	h.db.Preload("Doctor").Preload("Patient").First(&appointment, appointment.ID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(appointment)
}

// GetAppointments lists the caller's appointments, optionally filtered
// by ?date=YYYY-MM-DD and ?status=<tab>, ordered ascending by
// (date, time).
func (h *AppointmentHandler) GetAppointments(w http.ResponseWriter, r *http.Request) {
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

	date := r.URL.Query().Get("date")
	if date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			http.Error(w, "Invalid date filter, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
	}

	status := r.URL.Query().Get("status")
	if status != "" && status != StatusAll && !models.AppointmentStatus(status).Valid() {
		http.Error(w, "Invalid status filter", http.StatusBadRequest)
		return
	}

	appointments, err := ForUser(h.db, userID, role)
	if err != nil {
		http.Error(w, "Error retrieving appointments", http.StatusInternalServerError)
		return
	}

	filtered := Filter(appointments, date, status)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"appointments": filtered,
		"total":        len(filtered),
	})
}

// GetUpcomingAppointments returns the caller's next scheduled
// appointments for the dashboard summary, capped at UpcomingLimit.
func (h *AppointmentHandler) GetUpcomingAppointments(w http.ResponseWriter, r *http.Request) {
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

	appointments, err := ForUser(h.db, userID, role)
	if err != nil {
		http.Error(w, "Error retrieving appointments", http.StatusInternalServerError)
		return
	}

	upcoming := Upcoming(appointments, time.Now())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"appointments": upcoming,
		"total":        len(upcoming),
	})
}

// GetAppointment retrieves a specific appointment by ID
func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	appointment, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(appointment)
}

// UpdateAppointment edits an appointment's schedule fields. Last writer
// wins; the response carries the authoritative post-write row so the
// caller can refresh the exact view it holds.
func (h *AppointmentHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	appointment, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	var updateRequest struct {
		Date     string  `json:"date"`
		Time     string  `json:"time"`
		Duration int     `json:"duration"`
		Notes    *string `json:"notes"`
		Status   string  `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&updateRequest); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if updateRequest.Date != "" {
		if _, err := time.Parse("2006-01-02", updateRequest.Date); err != nil {
			http.Error(w, "Invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		appointment.Date = updateRequest.Date
	}
	if updateRequest.Time != "" {
		if _, err := time.Parse("15:04", updateRequest.Time); err != nil {
			http.Error(w, "Invalid time, expected HH:MM", http.StatusBadRequest)
			return
		}
		appointment.Time = updateRequest.Time
	}
	if updateRequest.Duration != 0 {
		if updateRequest.Duration < 5 {
			http.Error(w, "Duration must be at least 5 minutes", http.StatusBadRequest)
			return
		}
		appointment.Duration = updateRequest.Duration
	}
	if updateRequest.Status != "" {
		status := models.AppointmentStatus(updateRequest.Status)
		if !status.Valid() {
			http.Error(w, "Invalid status", http.StatusBadRequest)
			return
		}
		appointment.Status = status
	}
	// Notes is a pointer so an omitted field keeps the stored notes
	// while an explicit empty string clears them.
	if updateRequest.Notes != nil {
		appointment.Notes = *updateRequest.Notes
	}

	if err := h.db.Save(appointment).Error; err != nil {
		http.Error(w, "Error updating appointment", http.StatusInternalServerError)
		return
	}

	h.db.Preload("Doctor").Preload("Patient").First(appointment, appointment.ID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(appointment)
}

// UpdateAppointmentStatus moves an appointment between scheduled,
// completed and cancelled.
func (h *AppointmentHandler) UpdateAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	appointment, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	var statusUpdate struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&statusUpdate); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	status := models.AppointmentStatus(statusUpdate.Status)
	if !status.Valid() {
		http.Error(w, "Invalid status", http.StatusBadRequest)
		return
	}

	appointment.Status = status
	if err := h.db.Save(appointment).Error; err != nil {
		http.Error(w, "Error updating appointment status", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(appointment)
}

// DeleteAppointment removes an appointment permanently. Reminders tied
// to it are left in place; the reminder aggregation tolerates the
// missing parent.
func (h *AppointmentHandler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	appointment, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	result := h.db.Unscoped().Delete(&models.Appointment{}, appointment.ID)
	if result.Error != nil {
		http.Error(w, "Error deleting appointment", http.StatusInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		http.Error(w, "Appointment not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Appointment deleted successfully",
	})
}

// loadOwned fetches the appointment in the URL and verifies the caller
// is one of its parties. Writes the error response itself on failure.
func (h *AppointmentHandler) loadOwned(w http.ResponseWriter, r *http.Request) (*models.Appointment, bool) {
	vars := mux.Vars(r)
	appointmentID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid appointment ID", http.StatusBadRequest)
		return nil, false
	}

	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil, false
	}
	role, err := utils.GetRoleFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil, false
	}

	var appointment models.Appointment
	if err := h.db.Preload("Doctor").Preload("Patient").First(&appointment, appointmentID).Error; err != nil {
		http.Error(w, "Appointment not found", http.StatusNotFound)
		return nil, false
	}

	if !CanAccess(h.db, &appointment, userID, role) {
		http.Error(w, "Appointment not found", http.StatusNotFound)
		return nil, false
	}

	return &appointment, true
}

func validateSchedule(date, clock string, duration int) string {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return "Invalid date, expected YYYY-MM-DD"
	}
	if _, err := time.Parse("15:04", clock); err != nil {
		return "Invalid time, expected HH:MM"
	}
	if duration < 5 {
		return "Duration must be at least 5 minutes"
	}
	return ""
}
