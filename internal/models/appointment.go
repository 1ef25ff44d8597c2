package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Public booking reference handed back to the client.
	Reference string `gorm:"size:36;uniqueIndex;not null" json:"reference"`

	BarberID uint   `gorm:"index:idx_appointments_barber_date" json:"barber_id"`
	Barber   Barber `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"barber"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	ClientName  string `gorm:"size:100;not null" json:"client_name"`
	ClientPhone string `gorm:"size:20;not null" json:"client_phone"`

	// Date is the calendar day at midnight; StartTime is HH:MM within it.
	Date      time.Time `gorm:"type:date;index:idx_appointments_barber_date" json:"date"`
	StartTime string    `gorm:"size:5;not null" json:"start_time"`

	Status string `gorm:"size:20;default:'confirmed'" json:"status"`

	ReminderSent bool `gorm:"default:false" json:"reminder_sent"`

	Notes       string     `gorm:"size:255" json:"notes"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
