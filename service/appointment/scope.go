package appointment

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/mediremind/mediremind-server/cmd/models"
)

// ProfileID resolves the role-specific profile row for a user. Scoped
// queries filter on this ID, not the user ID.
func ProfileID(db *gorm.DB, userID uint, role models.Role) (uint, error) {
	switch role {
	case models.RoleDoctor:
		var doctor models.Doctor
		if err := db.Where("user_id = ?", userID).First(&doctor).Error; err != nil {
			return 0, err
		}
		return doctor.ID, nil
	case models.RolePatient:
		var patient models.Patient
		if err := db.Where("user_id = ?", userID).First(&patient).Error; err != nil {
			return 0, err
		}
		return patient.ID, nil
	default:
		return 0, fmt.Errorf("invalid role: %q", role)
	}
}

// ForUser returns every appointment where the user is the doctor or the
// patient party, with the denormalized doctor/patient display rows
// preloaded.
func ForUser(db *gorm.DB, userID uint, role models.Role) ([]models.Appointment, error) {
	profileID, err := ProfileID(db, userID, role)
	if err != nil {
		return nil, err
	}

	query := db.Model(&models.Appointment{}).Preload("Doctor").Preload("Patient")
	if role == models.RoleDoctor {
		query = query.Where("doctor_id = ?", profileID)
	} else {
		query = query.Where("patient_id = ?", profileID)
	}

	var appointments []models.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

// CanAccess reports whether the user is a party to the appointment.
func CanAccess(db *gorm.DB, a *models.Appointment, userID uint, role models.Role) bool {
	profileID, err := ProfileID(db, userID, role)
	if err != nil {
		return false
	}
	if role == models.RoleDoctor {
		return a.DoctorID == profileID
	}
	return a.PatientID == profileID
}
