package appointment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/gorilla/mux"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mediremind/mediremind-server/cmd/models"
	"github.com/mediremind/mediremind-server/cmd/utils"
)

// setupTestDB connects to the database named by TEST_DATABASE_URL and
// resets the tables the appointment flow touches. Tests that need it
// are skipped when the variable is unset.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database test")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("connecting to test database: %v", err)
	}

	tables := []interface{}{
		&models.User{},
		&models.Doctor{},
		&models.Patient{},
		&models.Appointment{},
	}
	for _, model := range tables {
		if err := db.AutoMigrate(model); err != nil {
			t.Fatalf("migrating test tables: %v", err)
		}
		if err := db.Unscoped().Where("1 = 1").Delete(model).Error; err != nil {
			t.Fatalf("resetting test tables: %v", err)
		}
	}

	return db
}

// seedParties creates a doctor and a patient with their identity rows,
// returning both profiles and the doctor's user ID.
func seedParties(t *testing.T, db *gorm.DB) (models.Doctor, models.Patient, uint) {
	t.Helper()

	doctorUser := models.User{Name: "Dr. Mensah", Email: "mensah@example.com", Role: models.RoleDoctor}
	if err := db.Create(&doctorUser).Error; err != nil {
		t.Fatalf("creating doctor user: %v", err)
	}
	doctor := models.Doctor{UserID: doctorUser.ID, Name: doctorUser.Name, Email: doctorUser.Email}
	if err := db.Create(&doctor).Error; err != nil {
		t.Fatalf("creating doctor profile: %v", err)
	}

	patientUser := models.User{Name: "Ama Owusu", Email: "ama@example.com", Role: models.RolePatient}
	if err := db.Create(&patientUser).Error; err != nil {
		t.Fatalf("creating patient user: %v", err)
	}
	patient := models.Patient{UserID: patientUser.ID, Name: patientUser.Name, Email: patientUser.Email}
	if err := db.Create(&patient).Error; err != nil {
		t.Fatalf("creating patient profile: %v", err)
	}

	return doctor, patient, doctorUser.ID
}

func authedRequest(method, target string, body []byte, userID uint, role models.Role, vars map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	ctx := context.WithValue(req.Context(), utils.UserIDKey, userID)
	ctx = context.WithValue(ctx, utils.RoleKey, role)
	req = req.WithContext(ctx)
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	return req
}

func TestCreateThenListRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	doctor, patient, doctorUserID := seedParties(t, db)
	handler := NewAppointmentHandler(db)

	// Status omitted on purpose: it must default to scheduled.
	body := fmt.Sprintf(`{"doctor_id":%d,"patient_id":%d,"date":"2026-09-15","time":"09:30","duration":30,"notes":"bring referral letter"}`,
		doctor.ID, patient.ID)

	req := authedRequest(http.MethodPost, "/appointments", []byte(body),
		doctorUserID, models.RoleDoctor, nil)
	recorder := httptest.NewRecorder()
	handler.CreateAppointment(recorder, req)

	if recorder.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", recorder.Code, recorder.Body.String())
	}

	var created models.Appointment
	if err := json.Unmarshal(recorder.Body.Bytes(), &created); err != nil {
		t.Fatalf("decoding create response: %v", err)
	}
	if created.Status != models.AppointmentScheduled {
		t.Errorf("created status = %q, want scheduled", created.Status)
	}

	req = authedRequest(http.MethodGet, "/appointments", nil,
		doctorUserID, models.RoleDoctor, nil)
	recorder = httptest.NewRecorder()
	handler.GetAppointments(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("list status = %d, body %s", recorder.Code, recorder.Body.String())
	}

	var listing struct {
		Appointments []models.Appointment `json:"appointments"`
		Total        int                  `json:"total"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &listing); err != nil {
		t.Fatalf("decoding list response: %v", err)
	}
	if listing.Total != 1 || len(listing.Appointments) != 1 {
		t.Fatalf("list returned %d appointments, want 1", len(listing.Appointments))
	}

	got := listing.Appointments[0]
	if got.ID != created.ID {
		t.Errorf("listed ID = %d, want %d", got.ID, created.ID)
	}
	if got.DoctorID != doctor.ID || got.PatientID != patient.ID {
		t.Errorf("listed parties = (%d, %d), want (%d, %d)", got.DoctorID, got.PatientID, doctor.ID, patient.ID)
	}
	if got.Date != "2026-09-15" || got.Time != "09:30" || got.Duration != 30 {
		t.Errorf("listed schedule = (%q, %q, %d), want (2026-09-15, 09:30, 30)", got.Date, got.Time, got.Duration)
	}
	if got.Notes != "bring referral letter" {
		t.Errorf("listed notes = %q, want the submitted notes", got.Notes)
	}
	if got.Status != models.AppointmentScheduled {
		t.Errorf("listed status = %q, want scheduled", got.Status)
	}
}

func TestUpdateAppointmentNotesHandling(t *testing.T) {
	db := setupTestDB(t)
	doctor, patient, doctorUserID := seedParties(t, db)
	handler := NewAppointmentHandler(db)

	appointment := models.Appointment{
		DoctorID:  doctor.ID,
		PatientID: patient.ID,
		Date:      "2026-09-15",
		Time:      "09:30",
		Duration:  30,
		Status:    models.AppointmentScheduled,
		Notes:     "bring referral letter",
	}
	if err := db.Create(&appointment).Error; err != nil {
		t.Fatalf("creating appointment: %v", err)
	}
	vars := map[string]string{"id": strconv.Itoa(int(appointment.ID))}

	// Omitted notes keep the stored value.
	req := authedRequest(http.MethodPut, "/appointments/1", []byte(`{"time":"10:00"}`),
		doctorUserID, models.RoleDoctor, vars)
	recorder := httptest.NewRecorder()
	handler.UpdateAppointment(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", recorder.Code, recorder.Body.String())
	}

	var updated models.Appointment
	if err := db.First(&updated, appointment.ID).Error; err != nil {
		t.Fatalf("reloading appointment: %v", err)
	}
	if updated.Time != "10:00" {
		t.Errorf("time = %q, want 10:00", updated.Time)
	}
	if updated.Notes != "bring referral letter" {
		t.Errorf("notes after partial update = %q, want unchanged", updated.Notes)
	}

	// An explicit empty string clears them.
	req = authedRequest(http.MethodPut, "/appointments/1", []byte(`{"notes":""}`),
		doctorUserID, models.RoleDoctor, vars)
	recorder = httptest.NewRecorder()
	handler.UpdateAppointment(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", recorder.Code, recorder.Body.String())
	}
	if err := db.First(&updated, appointment.ID).Error; err != nil {
		t.Fatalf("reloading appointment: %v", err)
	}
	if updated.Notes != "" {
		t.Errorf("notes after explicit clear = %q, want empty", updated.Notes)
	}
}
