package user

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gopkg.in/gomail.v2"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mediremind/mediremind-server/cmd/models"
	"github.com/mediremind/mediremind-server/cmd/utils"
	"github.com/mediremind/mediremind-server/service/events"
)

type Handler struct {
	db  *gorm.DB
	hub *events.Hub
}

func NewHandler(db *gorm.DB, hub *events.Hub) *Handler {
	return &Handler{db: db, hub: hub}
}

// RegisterRoutes sets up all identity and reference-data routes
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/login", h.handleLogin).Methods("POST")
	router.HandleFunc("/register", h.HandleRegister).Methods("POST")
	router.HandleFunc("/session", h.handleSession).Methods("GET")
	router.HandleFunc("/refresh", h.handleRefreshToken).Methods("POST")
	router.HandleFunc("/logout", utils.AuthMiddleware(h.handleLogout)).Methods("POST")
	router.HandleFunc("/user/verify", h.verifyUser).Methods("POST")
	router.HandleFunc("/reset-password", h.handlePasswordResetRequest).Methods("POST")
	router.HandleFunc("/reset-password/{userId}/confirm", h.handlePasswordReset).Methods("POST")
	router.HandleFunc("/verify-reset-token", h.handleVerifyResetToken).Methods("POST")

	// Reference lookups: open to any authenticated user regardless of
	// role, so either party can fill the scheduling form.
	router.HandleFunc("/doctors", utils.AuthMiddleware(h.GetDoctors)).Methods("GET")
	router.HandleFunc("/doctors/{id}", utils.AuthMiddleware(h.GetDoctor)).Methods("GET")
	router.HandleFunc("/patients", utils.AuthMiddleware(h.GetPatients)).Methods("GET")
	router.HandleFunc("/patients/{id}", utils.AuthMiddleware(h.GetPatient)).Methods("GET")
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var loginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&loginRequest); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var user models.User
	result := h.db.Where("email = ?", loginRequest.Email).First(&user)
	if result.Error != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(loginRequest.Password)); err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	accessToken, err := generateJWT(user.ID, user.Role, 60)
	if err != nil {
		http.Error(w, "Error generating access token", http.StatusInternalServerError)
		return
	}

	refreshToken := generateRefreshToken(user.ID)
	if err := saveRefreshToken(h.db, user.ID, refreshToken); err != nil {
		http.Error(w, "Error saving refresh token", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"message":       "Login successful",
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user_id":       user.ID,
		"role":          user.Role,
		"name":          user.Name,
	}

	// Include the role-specific profile ID so the client can scope its
	// queries without a second round trip.
	switch user.Role {
	case models.RoleDoctor:
		var doctor models.Doctor
		result := h.db.Where("user_id = ?", user.ID).First(&doctor)
		if result.Error == nil {
			response["doctor_id"] = doctor.ID
		} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			http.Error(w, "Error fetching doctor profile", http.StatusInternalServerError)
			return
		}
	case models.RolePatient:
		var patient models.Patient
		result := h.db.Where("user_id = ?", user.ID).First(&patient)
		if result.Error == nil {
			response["patient_id"] = patient.ID
		} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			http.Error(w, "Error fetching patient profile", http.StatusInternalServerError)
			return
		}
	}

	h.hub.Publish(events.SessionEvent{Event: events.SignedIn, UserID: user.ID, Role: user.Role})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var registerRequest struct {
		Name        string `json:"name"`
		Email       string `json:"email"`
		Password    string `json:"password"`
		Role        string `json:"role"`
		Specialty   string `json:"specialty"`
		Phone       string `json:"phone"`
		DateOfBirth string `json:"date_of_birth"`
	}
	if err := json.NewDecoder(r.Body).Decode(&registerRequest); err != nil {
		http.Error(w, "Invalid JSON input", http.StatusBadRequest)
		return
	}

	if registerRequest.Name == "" || registerRequest.Email == "" || registerRequest.Password == "" || registerRequest.Role == "" {
		http.Error(w, "Missing required fields", http.StatusBadRequest)
		return
	}

	role, err := models.ParseRole(registerRequest.Role)
	if err != nil {
		http.Error(w, "Role must be doctor or patient", http.StatusBadRequest)
		return
	}

	var existingUser models.User
	if result := h.db.Where("email = ?", registerRequest.Email).First(&existingUser); !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		if result.Error != nil {
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
		log.Printf("Registration attempt with duplicate email %s", registerRequest.Email)
		http.Error(w, "Email is already in use", http.StatusConflict)
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(registerRequest.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Error hashing password", http.StatusInternalServerError)
		return
	}

	verificationCode := fmt.Sprintf("%06d", rand.Intn(1000000))
	verificationExpiry := time.Now().Add(15 * time.Minute)

	user := models.User{
		Name:                  registerRequest.Name,
		Email:                 registerRequest.Email,
		PasswordHash:          string(passwordHash),
		Role:                  role,
		EmailVerificationCode: verificationCode,
		VerificationExpiry:    verificationExpiry,
	}

	if err := h.db.Create(&user).Error; err != nil {
		http.Error(w, "Error registering user", http.StatusInternalServerError)
		return
	}

	// The profile row is created outside a transaction: a failed insert
	// leaves the identity row in place and is only logged.
	response := map[string]interface{}{
		"message": "User registered successfully. Please check your email for verification code.",
		"user_id": user.ID,
	}

	switch role {
	case models.RoleDoctor:
		doctor := models.Doctor{
			UserID:    user.ID,
			Name:      registerRequest.Name,
			Email:     registerRequest.Email,
			Specialty: registerRequest.Specialty,
			Phone:     registerRequest.Phone,
		}
		if err := h.db.Create(&doctor).Error; err != nil {
			log.Printf("Error creating doctor profile for user %d: %v", user.ID, err)
		} else {
			response["doctor_id"] = doctor.ID
		}
	case models.RolePatient:
		patient := models.Patient{
			UserID:      user.ID,
			Name:        registerRequest.Name,
			Email:       registerRequest.Email,
			Phone:       registerRequest.Phone,
			DateOfBirth: registerRequest.DateOfBirth,
		}
		if err := h.db.Create(&patient).Error; err != nil {
			log.Printf("Error creating patient profile for user %d: %v", user.ID, err)
		} else {
			response["patient_id"] = patient.ID
		}
	}

	go func() {
		if err := sendVerificationEmail(user.Email, verificationCode); err != nil {
			log.Printf("Error sending verification email: %v", err)
		}
	}()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(response)
}

// handleSession resolves the current user from the bearer token. A
// missing or invalid token yields {"user": null}, not an error.
func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID, _, err := utils.ParseBearerToken(r)
	if err != nil {
		json.NewEncoder(w).Encode(map[string]interface{}{"user": nil})
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		json.NewEncoder(w).Encode(map[string]interface{}{"user": nil})
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{"user": user})
}

func (h *Handler) handleRefreshToken(w http.ResponseWriter, r *http.Request) {
	var refreshRequest struct {
		RefreshToken string `json:"refresh_token"`
	}

	if err := json.NewDecoder(r.Body).Decode(&refreshRequest); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	var user models.User
	if err := h.db.Where("refresh_token = ?", refreshRequest.RefreshToken).First(&user).Error; err != nil {
		http.Error(w, "Invalid refresh token", http.StatusUnauthorized)
		return
	}

	if user.RefreshTokenExpiredAt.Before(time.Now()) {
		http.Error(w, "Refresh token expired", http.StatusUnauthorized)
		return
	}

	newAccessToken, err := generateJWT(user.ID, user.Role, 60)
	if err != nil {
		http.Error(w, "Error generating new token", http.StatusInternalServerError)
		return
	}

	// Rotate the refresh token on every use.
	newRefreshToken := generateRefreshToken(user.ID)
	if err := saveRefreshToken(h.db, user.ID, newRefreshToken); err != nil {
		http.Error(w, "Error updating refresh token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"access_token":  newAccessToken,
		"refresh_token": newRefreshToken,
	})
}

// handleLogout clears the caller's session state unconditionally.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	role, _ := utils.GetRoleFromContext(r.Context())

	if err := h.db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"refresh_token":            "",
		"refresh_token_expired_at": time.Time{},
	}).Error; err != nil {
		http.Error(w, "Error clearing session", http.StatusInternalServerError)
		return
	}

	h.hub.Publish(events.SessionEvent{Event: events.SignedOut, UserID: userID, Role: role})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Logged out successfully",
	})
}

func (h *Handler) verifyUser(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", request.Email).First(&user).Error; err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	if user.EmailVerificationCode != request.Code || time.Now().After(user.VerificationExpiry) {
		http.Error(w, "Invalid or expired verification code", http.StatusUnauthorized)
		return
	}

	user.EmailVerified = true
	user.EmailVerificationCode = ""
	user.VerificationExpiry = time.Time{}

	if err := h.db.Save(&user).Error; err != nil {
		http.Error(w, "Error updating user", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Email verified successfully",
	})
}

func (h *Handler) handlePasswordResetRequest(w http.ResponseWriter, r *http.Request) {
	var resetRequest struct {
		Email string `json:"email"`
	}

	if err := json.NewDecoder(r.Body).Decode(&resetRequest); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if resetRequest.Email == "" {
		http.Error(w, "Email is required", http.StatusBadRequest)
		return
	}

	var user models.User
	result := h.db.Where("email = ?", resetRequest.Email).First(&user)
	if result.Error != nil {
		// Keep response vague for security
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"message": "If an account exists, a reset code will be sent to your email",
		})
		return
	}

	resetToken := fmt.Sprintf("%06d", rand.Intn(1000000))

	tx := h.db.Begin()

	if err := tx.Where("user_id = ?", user.ID).Delete(&models.PasswordResetToken{}).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Error processing reset request", http.StatusInternalServerError)
		return
	}

	passwordResetToken := models.PasswordResetToken{
		UserID:    user.ID,
		Token:     resetToken,
		ExpiresAt: time.Now().Add(5 * time.Minute),
	}

	if err := tx.Create(&passwordResetToken).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Error processing reset request", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit().Error; err != nil {
		http.Error(w, "Error processing reset request", http.StatusInternalServerError)
		return
	}

	go func() {
		if err := sendResetEmail(user.Email, resetToken); err != nil {
			log.Printf("Error sending reset email: %v", err)
		}
	}()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "If an account exists, a reset code will be sent to your email",
		"user_id": user.ID,
	})
}

func (h *Handler) handlePasswordReset(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, err := strconv.ParseUint(vars["userId"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	var resetRequest struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&resetRequest); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if resetRequest.Token == "" || resetRequest.NewPassword == "" {
		http.Error(w, "Token and new password are required", http.StatusBadRequest)
		return
	}

	var resetToken models.PasswordResetToken
	if err := h.db.Where("user_id = ? AND token = ?", userID, resetRequest.Token).First(&resetToken).Error; err != nil {
		http.Error(w, "Invalid reset token", http.StatusUnauthorized)
		return
	}

	if time.Now().After(resetToken.ExpiresAt) {
		http.Error(w, "Reset token expired", http.StatusUnauthorized)
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(resetRequest.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Error hashing password", http.StatusInternalServerError)
		return
	}

	tx := h.db.Begin()

	if err := tx.Model(&models.User{}).Where("id = ?", userID).Update("password_hash", string(passwordHash)).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Error updating password", http.StatusInternalServerError)
		return
	}

	if err := tx.Delete(&resetToken).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Error clearing reset token", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit().Error; err != nil {
		http.Error(w, "Error completing password reset", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Password reset successfully",
	})
}

func (h *Handler) handleVerifyResetToken(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Email string `json:"email"`
		Token string `json:"token"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", request.Email).First(&user).Error; err != nil {
		http.Error(w, "Invalid reset token", http.StatusUnauthorized)
		return
	}

	var resetToken models.PasswordResetToken
	if err := h.db.Where("user_id = ? AND token = ?", user.ID, request.Token).First(&resetToken).Error; err != nil {
		http.Error(w, "Invalid reset token", http.StatusUnauthorized)
		return
	}

	if time.Now().After(resetToken.ExpiresAt) {
		http.Error(w, "Reset token expired", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"valid":   true,
		"user_id": user.ID,
	})
}

// GetDoctors retrieves all doctor profiles
func (h *Handler) GetDoctors(w http.ResponseWriter, r *http.Request) {
	var doctors []models.Doctor
	if err := h.db.Find(&doctors).Error; err != nil {
		http.Error(w, "Error retrieving doctors", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doctors)
}

// GetDoctor retrieves a specific doctor profile by ID
func (h *Handler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	doctorID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid doctor ID", http.StatusBadRequest)
		return
	}

	var doctor models.Doctor
	if err := h.db.First(&doctor, doctorID).Error; err != nil {
		http.Error(w, "Doctor not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doctor)
}

// GetPatients retrieves all patient profiles
func (h *Handler) GetPatients(w http.ResponseWriter, r *http.Request) {
	var patients []models.Patient
	if err := h.db.Find(&patients).Error; err != nil {
		http.Error(w, "Error retrieving patients", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(patients)
}

// GetPatient retrieves a specific patient profile by ID
func (h *Handler) GetPatient(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	patientID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid patient ID", http.StatusBadRequest)
		return
	}

	var patient models.Patient
	if err := h.db.First(&patient, patientID).Error; err != nil {
		http.Error(w, "Patient not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(patient)
}

func generateJWT(userID uint, role models.Role, expirationMinutes int) (string, error) {
	claims := &utils.Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(userID),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute * time.Duration(expirationMinutes))),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	// Read the key at call time: godotenv.Load runs after package init,
	// so a package-level capture would sign with an empty key under
	// .env-only configuration.
	return token.SignedString([]byte(os.Getenv("SECRET_KEY")))
}

func generateRefreshToken(userID uint) string {
	return fmt.Sprintf("%d_%s", userID, uuid.NewString())
}

func saveRefreshToken(db *gorm.DB, userID uint, refreshToken string) error {
	expirationTime := time.Now().Add(30 * 24 * time.Hour)
	return db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"refresh_token":            refreshToken,
		"refresh_token_expired_at": expirationTime,
	}).Error
}

// sendVerificationEmail sends a verification email with the 6-digit code
func sendVerificationEmail(email, code string) error {
	return sendMail(email, "Email Verification Code",
		fmt.Sprintf("Your verification code is: %s. Ignore this email if you did not request a verification code.", code))
}

func sendResetEmail(email, code string) error {
	return sendMail(email, "Password Reset Code",
		fmt.Sprintf("Your password reset code is: %s. It expires in 5 minutes.", code))
}

func sendMail(to, subject, body string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")

	m := gomail.NewMessage()
	m.SetHeader("From", smtpUser)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	port, err := strconv.Atoi(smtpPort)
	if err != nil {
		return fmt.Errorf("invalid SMTP port: %v", err)
	}
	d := gomail.NewDialer(smtpHost, port, smtpUser, smtpPass)

	return d.DialAndSend(m)
}
