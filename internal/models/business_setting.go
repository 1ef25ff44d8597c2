package models

import "time"

// BusinessSetting is a key-value row for runtime configuration managed
// from the admin panel (WhatsApp API url and token, for now).
type BusinessSetting struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Key   string `gorm:"size:100;uniqueIndex;not null" json:"key"`
	Value string `gorm:"type:text" json:"value"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	SettingWhatsAppAPIURL = "whatsappApiUrl"
	SettingWhatsAppToken  = "whatsappToken"
)
