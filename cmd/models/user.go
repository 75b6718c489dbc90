package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Role classifies an account as one of the two supported user types.
// A user's role is fixed at registration; there is no role-change flow.
type Role string

const (
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleDoctor, RolePatient:
		return Role(s), nil
	default:
		return "", fmt.Errorf("invalid role: %q", s)
	}
}

type User struct {
	gorm.Model
	Name                  string    `gorm:"column:name;size:255;not null" json:"name"`
	Email                 string    `gorm:"column:email;size:255;not null;uniqueIndex" json:"email"`
	PasswordHash          string    `gorm:"column:password_hash;size:255;not null" json:"-"`
	Role                  Role      `gorm:"column:role;size:20;not null" json:"role"`
	EmailVerified         bool      `gorm:"column:email_verified;default:false" json:"email_verified"`
	EmailVerificationCode string    `gorm:"size:6" json:"-"`
	VerificationExpiry    time.Time `json:"-"`
	Refresh               string    `gorm:"column:refresh_token;size:255" json:"-"`
	RefreshTokenExpiredAt time.Time `gorm:"column:refresh_token_expired_at" json:"-"`
}

// Doctor is the role-specific profile row created alongside a User with
// role "doctor". One-to-one with its User.
type Doctor struct {
	gorm.Model
	UserID    uint   `gorm:"column:user_id;not null;uniqueIndex" json:"user_id"`
	Name      string `gorm:"column:name;size:255;not null" json:"name"`
	Email     string `gorm:"column:email;size:255;not null" json:"email"`
	Specialty string `gorm:"column:specialty;size:255" json:"specialty,omitempty"`
	Phone     string `gorm:"column:phone;size:20" json:"phone,omitempty"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// Patient is the role-specific profile row created alongside a User with
// role "patient".
type Patient struct {
	gorm.Model
	UserID      uint   `gorm:"column:user_id;not null;uniqueIndex" json:"user_id"`
	Name        string `gorm:"column:name;size:255;not null" json:"name"`
	Email       string `gorm:"column:email;size:255;not null" json:"email"`
	Phone       string `gorm:"column:phone;size:20" json:"phone,omitempty"`
	DateOfBirth string `gorm:"column:date_of_birth;size:10" json:"date_of_birth,omitempty"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (Patient) TableName() string {
	return "patients"
}

type PasswordResetToken struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null"`
	Token     string    `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null"`
}
