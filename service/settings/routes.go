package settings

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/mediremind/mediremind-server/cmd/models"
	"github.com/mediremind/mediremind-server/cmd/utils"
)

type SettingsHandler struct {
	db *gorm.DB
}

func NewSettingsHandler(db *gorm.DB) *SettingsHandler {
	return &SettingsHandler{db: db}
}

func (h *SettingsHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/settings", utils.AuthMiddleware(h.GetSettings)).Methods("GET")
	router.HandleFunc("/settings", utils.AuthMiddleware(h.UpdateSettings)).Methods("PUT")
}

// GetSettings returns the caller's notification preferences. A user who
// has never saved preferences gets the defaults without a row being
// created.
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var preference models.NotificationPreference
	if err := h.db.Where("user_id = ?", userID).First(&preference).Error; err != nil {
		preference = models.NotificationPreference{
			UserID:                 userID,
			EmailEnabled:           true,
			DefaultReminderMinutes: 60,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(preference)
}

// UpdateSettings replaces the caller's notification preferences. The
// update goes through a column map so that disabling a channel (a false
// boolean) persists.
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var updateRequest struct {
		SMSEnabled             bool   `json:"sms_enabled"`
		WhatsAppEnabled        bool   `json:"whatsapp_enabled"`
		EmailEnabled           bool   `json:"email_enabled"`
		DefaultReminderMinutes int    `json:"default_reminder_minutes"`
		Phone                  string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&updateRequest); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if updateRequest.DefaultReminderMinutes < 5 {
		http.Error(w, "Default reminder offset must be at least 5 minutes", http.StatusBadRequest)
		return
	}

	var preference models.NotificationPreference
	if err := h.db.Where(models.NotificationPreference{UserID: userID}).FirstOrCreate(&preference).Error; err != nil {
		http.Error(w, "Error saving settings", http.StatusInternalServerError)
		return
	}

	updates := map[string]interface{}{
		"sms_enabled":              updateRequest.SMSEnabled,
		"whatsapp_enabled":         updateRequest.WhatsAppEnabled,
		"email_enabled":            updateRequest.EmailEnabled,
		"default_reminder_minutes": updateRequest.DefaultReminderMinutes,
		"phone":                    updateRequest.Phone,
	}
	if err := h.db.Model(&preference).Updates(updates).Error; err != nil {
		http.Error(w, "Error saving settings", http.StatusInternalServerError)
		return
	}

	h.db.Where("user_id = ?", userID).First(&preference)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(preference)
}
