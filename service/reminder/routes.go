package reminder

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/mediremind/mediremind-server/cmd/models"
	"github.com/mediremind/mediremind-server/cmd/utils"
	"github.com/mediremind/mediremind-server/service/appointment"
)

type ReminderHandler struct {
	db *gorm.DB
}

func NewReminderHandler(db *gorm.DB) *ReminderHandler {
	return &ReminderHandler{db: db}
}

func (h *ReminderHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/appointments/{appointmentId}/reminders", utils.AuthMiddleware(h.CreateReminder)).Methods("POST")
	router.HandleFunc("/appointments/{appointmentId}/reminders", utils.AuthMiddleware(h.GetReminders)).Methods("GET")
	router.HandleFunc("/reminders", utils.AuthMiddleware(h.GetAllReminders)).Methods("GET")
	router.HandleFunc("/reminders/{id}", utils.AuthMiddleware(h.UpdateReminder)).Methods("PUT")
	router.HandleFunc("/reminders/{id}", utils.AuthMiddleware(h.DeleteReminder)).Methods("DELETE")
	router.HandleFunc("/reminders/{id}/status", utils.AuthMiddleware(h.UpdateReminderStatus)).Methods("PATCH")
	router.HandleFunc("/reminders/{id}/preview", utils.AuthMiddleware(h.PreviewReminder)).Methods("GET")
}

// CreateReminder configures a new reminder on an appointment the
// caller is a party to. Status defaults to pending.
func (h *ReminderHandler) CreateReminder(w http.ResponseWriter, r *http.Request) {
	parent, ok := h.loadParent(w, r)
	if !ok {
		return
	}

	var createRequest struct {
		Type          string `json:"type"`
		TimeBefore    int    `json:"time_before"`
		Message       string `json:"message"`
		RecipientType string `json:"recipient_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&createRequest); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	channel := models.ReminderChannel(createRequest.Type)
	recipient := models.RecipientType(createRequest.RecipientType)
	if msg := validateReminder(channel, createRequest.TimeBefore, createRequest.Message, recipient); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	reminder := models.Reminder{
		AppointmentID: parent.ID,
		Type:          channel,
		TimeBefore:    createRequest.TimeBefore,
		Message:       createRequest.Message,
		Status:        models.ReminderPending,
		RecipientType: recipient,
	}

	if err := h.db.Create(&reminder).Error; err != nil {
		http.Error(w, "Error creating reminder", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(reminder)
}

// GetReminders lists the reminders configured on one appointment.
func (h *ReminderHandler) GetReminders(w http.ResponseWriter, r *http.Request) {
	parent, ok := h.loadParent(w, r)
	if !ok {
		return
	}

	var reminders []models.Reminder
	if err := h.db.Where("appointment_id = ?", parent.ID).Find(&reminders).Error; err != nil {
		http.Error(w, "Error retrieving reminders", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"reminders": reminders,
		"total":     len(reminders),
	})
}

// GetAllReminders aggregates reminders across every appointment the
// caller is a party to, each joined to its parent appointment, with an
// optional ?status= equality filter.
func (h *ReminderHandler) GetAllReminders(w http.ResponseWriter, r *http.Request) {
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

	status := r.URL.Query().Get("status")
	if status != "" && status != StatusAll && !models.ReminderStatus(status).Valid() {
		http.Error(w, "Invalid status filter", http.StatusBadRequest)
		return
	}

	appointments, err := appointment.ForUser(h.db, userID, role)
	if err != nil {
		http.Error(w, "Error retrieving appointments", http.StatusInternalServerError)
		return
	}

	appointmentIDs := make([]uint, 0, len(appointments))
	for _, a := range appointments {
		appointmentIDs = append(appointmentIDs, a.ID)
	}

	var reminders []models.Reminder
	if len(appointmentIDs) > 0 {
		if err := h.db.Where("appointment_id IN ?", appointmentIDs).Find(&reminders).Error; err != nil {
			http.Error(w, "Error retrieving reminders", http.StatusInternalServerError)
			return
		}
	}

	joined := FilterByStatus(Attach(reminders, appointments), status)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"reminders": joined,
		"total":     len(joined),
	})
}

// UpdateReminder edits a reminder's configuration. Last writer wins.
func (h *ReminderHandler) UpdateReminder(w http.ResponseWriter, r *http.Request) {
	reminder, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	var updateRequest struct {
		Type          string `json:"type"`
		TimeBefore    int    `json:"time_before"`
		Message       string `json:"message"`
		RecipientType string `json:"recipient_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&updateRequest); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if updateRequest.Type != "" {
		channel := models.ReminderChannel(updateRequest.Type)
		if !channel.Valid() {
			http.Error(w, "Invalid reminder type", http.StatusBadRequest)
			return
		}
		reminder.Type = channel
	}
	if updateRequest.TimeBefore != 0 {
		if updateRequest.TimeBefore < 5 {
			http.Error(w, "Reminder offset must be at least 5 minutes", http.StatusBadRequest)
			return
		}
		reminder.TimeBefore = updateRequest.TimeBefore
	}
	if updateRequest.Message != "" {
		reminder.Message = updateRequest.Message
	}
	if updateRequest.RecipientType != "" {
		recipient := models.RecipientType(updateRequest.RecipientType)
		if !recipient.Valid() {
			http.Error(w, "Invalid recipient type", http.StatusBadRequest)
			return
		}
		reminder.RecipientType = recipient
	}

	if err := h.db.Save(reminder).Error; err != nil {
		http.Error(w, "Error updating reminder", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reminder)
}

// UpdateReminderStatus is the hook for the external delivery process to
// record a pending reminder as sent or failed.
func (h *ReminderHandler) UpdateReminderStatus(w http.ResponseWriter, r *http.Request) {
	reminder, ok := h.loadOwned(w, r)
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

	status := models.ReminderStatus(statusUpdate.Status)
	if !status.Valid() {
		http.Error(w, "Invalid status", http.StatusBadRequest)
		return
	}

	reminder.Status = status
	if err := h.db.Save(reminder).Error; err != nil {
		http.Error(w, "Error updating reminder status", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reminder)
}

// DeleteReminder removes a reminder permanently. The parent appointment
// is untouched.
func (h *ReminderHandler) DeleteReminder(w http.ResponseWriter, r *http.Request) {
	reminder, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	result := h.db.Unscoped().Delete(&models.Reminder{}, reminder.ID)
	if result.Error != nil {
		http.Error(w, "Error deleting reminder", http.StatusInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		http.Error(w, "Reminder not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Reminder deleted successfully",
	})
}

// PreviewReminder renders the reminder's message with placeholders
// substituted from the parent appointment, plus the human-readable
// offset phrase.
func (h *ReminderHandler) PreviewReminder(w http.ResponseWriter, r *http.Request) {
	reminder, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	// The parent may have been deleted; preview then renders the raw
	// template.
	var parent *models.Appointment
	var loaded models.Appointment
	if err := h.db.Preload("Doctor").Preload("Patient").First(&loaded, reminder.AppointmentID).Error; err == nil {
		parent = &loaded
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":          RenderMessage(reminder.Message, parent),
		"time_before_text": FormatTimeBefore(reminder.TimeBefore),
	})
}

// loadParent fetches the appointment in the URL and verifies the caller
// is one of its parties.
func (h *ReminderHandler) loadParent(w http.ResponseWriter, r *http.Request) (*models.Appointment, bool) {
	vars := mux.Vars(r)
	appointmentID, err := strconv.ParseUint(vars["appointmentId"], 10, 64)
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

	var parent models.Appointment
	if err := h.db.First(&parent, appointmentID).Error; err != nil {
		http.Error(w, "Appointment not found", http.StatusNotFound)
		return nil, false
	}

	if !appointment.CanAccess(h.db, &parent, userID, role) {
		http.Error(w, "Appointment not found", http.StatusNotFound)
		return nil, false
	}

	return &parent, true
}

// loadOwned fetches the reminder in the URL and verifies the caller is
// a party to its parent appointment. When the parent has been deleted
// the ownership check has nothing to anchor on, so orphaned reminders
// stay editable and deletable by any authenticated user.
func (h *ReminderHandler) loadOwned(w http.ResponseWriter, r *http.Request) (*models.Reminder, bool) {
	vars := mux.Vars(r)
	reminderID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid reminder ID", http.StatusBadRequest)
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

	var reminder models.Reminder
	if err := h.db.First(&reminder, reminderID).Error; err != nil {
		http.Error(w, "Reminder not found", http.StatusNotFound)
		return nil, false
	}

	var parent models.Appointment
	if err := h.db.First(&parent, reminder.AppointmentID).Error; err == nil {
		if !appointment.CanAccess(h.db, &parent, userID, role) {
			http.Error(w, "Reminder not found", http.StatusNotFound)
			return nil, false
		}
	}

	return &reminder, true
}

func validateReminder(channel models.ReminderChannel, timeBefore int, message string, recipient models.RecipientType) string {
	if !channel.Valid() {
		return "Invalid reminder type"
	}
	if timeBefore < 5 {
		return "Reminder offset must be at least 5 minutes"
	}
	if message == "" {
		return "Message is required"
	}
	if !recipient.Valid() {
		return "Invalid recipient type"
	}
	return ""
}
