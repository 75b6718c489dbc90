package models

import (
	"gorm.io/gorm"
)

// NotificationPreference holds a user's reminder-channel defaults from the
// settings screen. One row per user, created lazily on first save.
type NotificationPreference struct {
	gorm.Model
	UserID                 uint   `gorm:"column:user_id;not null;uniqueIndex" json:"user_id"`
	SMSEnabled             bool   `gorm:"column:sms_enabled;default:false" json:"sms_enabled"`
	WhatsAppEnabled        bool   `gorm:"column:whatsapp_enabled;default:false" json:"whatsapp_enabled"`
	EmailEnabled           bool   `gorm:"column:email_enabled;default:true" json:"email_enabled"`
	DefaultReminderMinutes int    `gorm:"column:default_reminder_minutes;default:60" json:"default_reminder_minutes"`
	Phone                  string `gorm:"column:phone;size:20" json:"phone,omitempty"`
}
