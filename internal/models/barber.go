package models

import "time"

// Barber carries the working calendar fields the availability engine is
// built from. WorkingDays is the JSON-serialized day-name array; it is
// decoded exactly once, when a schedule.WorkingCalendar is constructed.
type Barber struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID *uint `json:"user_id"`
	User   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	Name string `gorm:"size:100;not null" json:"name"`

	StartTime   string `gorm:"size:5;not null" json:"start_time"`
	EndTime     string `gorm:"size:5;not null" json:"end_time"`
	SlotMinutes int    `gorm:"not null;default:30" json:"slot_minutes"`

	WorkingDays string `gorm:"size:255;not null;default:'[]'" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
